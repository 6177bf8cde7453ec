package resilience

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerConfig circuit breaker sozlamalari
type BreakerConfig struct {
	Name          string
	MaxRequests   uint32        // half-open holatida ruxsat etilgan so'rovlar
	Interval      time.Duration // closed holatida hisoblagichlar tozalanish oralig'i
	Timeout       time.Duration // open -> half-open kutish vaqti
	Threshold     uint32        // ketma-ket xatoliklar chegarasi
	FailureRatio  float64
	MinRequests   uint32
	OnStateChange func(name string, from, to string)

	// IsSuccessful nil bo'lmasa, true qaytargan xatolik breaker hisobiga tushmaydi
	IsSuccessful func(err error) bool
}

// DefaultBreakerConfig fayl yuklab olish uchun standart qiymatlar
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  3,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		Threshold:    5,
		FailureRatio: 0.5,
		MinRequests:  10,
	}
}

// NewBreaker yangi circuit breaker yaratish
func NewBreaker[T any](cfg BreakerConfig) *gobreaker.CircuitBreaker[T] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= cfg.Threshold {
				return true
			}
			if counts.Requests >= cfg.MinRequests {
				return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
			}
			return false
		},
	}

	if cfg.IsSuccessful != nil {
		settings.IsSuccessful = cfg.IsSuccessful
	}

	if cfg.OnStateChange != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			cfg.OnStateChange(name, from.String(), to.String())
		}
	}

	return gobreaker.NewCircuitBreaker[T](settings)
}
