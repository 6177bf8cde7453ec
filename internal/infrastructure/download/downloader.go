package download

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/yourusername/sticker-favorites-bot/internal/domain/entity"
	"github.com/yourusername/sticker-favorites-bot/internal/infrastructure/resilience"
	"github.com/yourusername/sticker-favorites-bot/internal/infrastructure/scrub"
)

// DefaultMaxBytes statik stiker 512KB dan oshmaydi, zaxira bilan 2MB
const DefaultMaxBytes int64 = 2 << 20

// StatusError server 2xx dan boshqa status qaytardi
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

var errEmptyBody = errors.New("empty file")

// Config HTTP yuklab olish sozlamalari
type Config struct {
	RequestTimeout time.Duration
	ConnectTimeout time.Duration
	TLSTimeout     time.Duration
	IdleTimeout    time.Duration

	MaxIdleConns        int
	MaxIdleConnsPerHost int

	MaxBytes int64
	SpoolDir string // bo'sh bo'lsa xotirada o'qiladi
	Token    string // xatoliklardan olib tashlanadi
}

// DefaultConfig standart qiymatlar
func DefaultConfig() Config {
	return Config{
		RequestTimeout:      30 * time.Second,
		ConnectTimeout:      10 * time.Second,
		TLSTimeout:          10 * time.Second,
		IdleTimeout:         90 * time.Second,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		MaxBytes:            DefaultMaxBytes,
	}
}

// NewHTTPClient sozlangan http.Client yaratish
func NewHTTPClient(cfg Config) *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   cfg.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
		TLSHandshakeTimeout:   cfg.TLSTimeout,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:       cfg.IdleTimeout,
		ResponseHeaderTimeout: cfg.RequestTimeout,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.RequestTimeout,
	}
}

// Downloader URL dan fayl baytlarini oladi
type Downloader struct {
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[[]byte]
	maxBytes int64
	spoolDir string
	token    string
}

// New yangi Downloader. client nil bo'lsa NewHTTPClient(cfg) ishlatiladi.
func New(client *http.Client, cfg Config, breaker *gobreaker.CircuitBreaker[[]byte]) *Downloader {
	if client == nil {
		client = NewHTTPClient(cfg)
	}
	if breaker == nil {
		breaker = NewBreaker("sticker-download")
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}

	return &Downloader{
		client:   client,
		breaker:  breaker,
		maxBytes: cfg.MaxBytes,
		spoolDir: cfg.SpoolDir,
		token:    cfg.Token,
	}
}

// NewBreaker yuklab olish uchun breaker: faqat server va tarmoq xatoliklari hisoblanadi
func NewBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	cfg := resilience.DefaultBreakerConfig(name)
	cfg.IsSuccessful = IsBreakerSuccess
	return resilience.NewBreaker[[]byte](cfg)
}

// IsBreakerSuccess xatolik breaker ni ochishi kerakmi.
// Katta yoki bo'sh fayl, 4xx va bekor qilingan so'rov bitta foydalanuvchining
// muammosi, servis ishdan chiqqani emas.
func IsBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, entity.ErrFileTooLarge) || errors.Is(err, errEmptyBody) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 400 && statusErr.Code < 500
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return false
}

// Get faylni yuklab olish. Barcha xatoliklar entity.ErrTransfer ga mos keladi.
func (d *Downloader) Get(ctx context.Context, url string) ([]byte, error) {
	data, err := d.breaker.Execute(func() ([]byte, error) {
		return d.fetch(ctx, url)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %w", entity.ErrTransfer, err)
		}
		return nil, scrub.TokenFromError(err, d.token)
	}
	return data, nil
}

func (d *Downloader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrTransfer, err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrTransfer, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %w", entity.ErrTransfer, &StatusError{Code: resp.StatusCode})
	}
	if resp.ContentLength > d.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", entity.ErrFileTooLarge, resp.ContentLength)
	}

	body := io.LimitReader(resp.Body, d.maxBytes+1)

	var data []byte
	if d.spoolDir != "" {
		data, err = d.spool(body)
	} else {
		data, err = io.ReadAll(body)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrTransfer, err)
	}

	if int64(len(data)) > d.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", entity.ErrFileTooLarge, d.maxBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %w", entity.ErrTransfer, errEmptyBody)
	}

	return data, nil
}

// spool tanani vaqtinchalik faylga yozib, qayta o'qiydi. Fayl so'rov oxirida o'chiriladi
func (d *Downloader) spool(r io.Reader) ([]byte, error) {
	if err := os.MkdirAll(d.spoolDir, 0o755); err != nil {
		return nil, fmt.Errorf("spool papkasini yaratib bo'lmadi: %w", err)
	}

	f, err := os.CreateTemp(d.spoolDir, "sticker-*.part")
	if err != nil {
		return nil, err
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	return io.ReadAll(f)
}
