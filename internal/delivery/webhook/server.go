package webhook

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Dispatcher kelgan update ni fon rejimida qayta ishlaydi (*telegram.BotHandler)
type Dispatcher interface {
	Go(ctx context.Context, update tgbotapi.Update)
	Wait()
}

// NewRouter webhook marshrutlari. dispatch har bir to'g'ri update uchun bir marta chaqiriladi.
func NewRouter(dispatch func(tgbotapi.Update), secret string, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/telegram/{secret}", func(w http.ResponseWriter, r *http.Request) {
		got := chi.URLParam(r, "secret")
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			http.NotFound(w, r)
			return
		}

		var update tgbotapi.Update
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&update); err != nil {
			logger.Warn("bad webhook payload",
				"request_id", middleware.GetReqID(r.Context()),
				"error", err,
			)
			http.Error(w, "bad update payload", http.StatusBadRequest)
			return
		}

		dispatch(update)
		w.WriteHeader(http.StatusOK)
	})

	return r
}

// Server webhook HTTP serveri
type Server struct {
	addr       string
	secret     string
	dispatcher Dispatcher
	logger     *slog.Logger
}

// NewServer yangi webhook server yaratish
func NewServer(addr, secret string, dispatcher Dispatcher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:       addr,
		secret:     secret,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Run serverni ishga tushirish. ctx bekor bo'lganda server to'xtaydi va
// boshlangan ishlov berishlar tugashi kutiladi.
func (s *Server) Run(ctx context.Context) error {
	handlerCtx := context.WithoutCancel(ctx)
	dispatch := func(update tgbotapi.Update) {
		s.dispatcher.Go(handlerCtx, update)
	}

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           NewRouter(dispatch, s.secret, s.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("webhook server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("webhook server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	s.dispatcher.Wait()
	return err
}
