package resilience

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// chatLimiter chat cheklovchisi va oxirgi murojaat vaqti
type chatLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter umumiy va chat bo'yicha cheklov
type RateLimiter struct {
	global    *rate.Limiter
	mu        sync.Mutex
	perChat   map[int64]*chatLimiter
	chatRPS   float64
	chatBurst int
	idleTTL   time.Duration
	cleanupCh chan struct{}
	closeOnce sync.Once
}

// RateLimiterConfig cheklov sozlamalari
type RateLimiterConfig struct {
	GlobalRPS   float64
	GlobalBurst int
	ChatRPS     float64
	ChatBurst   int

	IdleTTL         time.Duration // shuncha ishlatilmagan chat cheklovchisi o'chiriladi
	CleanupInterval time.Duration
}

// DefaultRateLimiterConfig Telegram cheklovlariga mos qiymatlar
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GlobalRPS:       30, // Telegram ~30 so'rov/s
		GlobalBurst:     10,
		ChatRPS:         1,
		ChatBurst:       3,
		IdleTTL:         10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

// NewRateLimiter yangi cheklovchi yaratish. Close bilan tozalovchi to'xtatiladi.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = cfg.IdleTTL / 2
	}

	rl := &RateLimiter{
		global:    rate.NewLimiter(rate.Limit(cfg.GlobalRPS), cfg.GlobalBurst),
		perChat:   make(map[int64]*chatLimiter),
		chatRPS:   cfg.ChatRPS,
		chatBurst: cfg.ChatBurst,
		idleTTL:   cfg.IdleTTL,
		cleanupCh: make(chan struct{}),
	}

	go rl.cleanup(cfg.CleanupInterval)

	return rl
}

// Wait umumiy va chat cheklovlari ruxsat berguncha kutish
func (r *RateLimiter) Wait(ctx context.Context, chatID int64) error {
	if err := r.global.Wait(ctx); err != nil {
		return err
	}
	return r.forChat(chatID, time.Now()).Wait(ctx)
}

// GlobalWait faqat umumiy cheklovni kutish
func (r *RateLimiter) GlobalWait(ctx context.Context) error {
	return r.global.Wait(ctx)
}

// Close tozalovchi goroutine ni to'xtatish
func (r *RateLimiter) Close() {
	r.closeOnce.Do(func() { close(r.cleanupCh) })
}

func (r *RateLimiter) forChat(chatID int64, now time.Time) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.perChat[chatID]
	if !ok {
		entry = &chatLimiter{limiter: rate.NewLimiter(rate.Limit(r.chatRPS), r.chatBurst)}
		r.perChat[chatID] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// evictIdle idleTTL dan ko'p ishlatilmagan cheklovchilarni o'chirish
func (r *RateLimiter) evictIdle(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for chatID, entry := range r.perChat {
		if now.Sub(entry.lastSeen) > r.idleTTL {
			delete(r.perChat, chatID)
			evicted++
		}
	}
	return evicted
}

func (r *RateLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			r.evictIdle(now)
		case <-r.cleanupCh:
			return
		}
	}
}
