package bot

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"modbot/internal/storage"
	"modbot/pkg/command"
)

// Middleware wraps a command handler (e.g. logging, rate limiting). The
// wrapped handler keeps the HandlerFunc shape.
type Middleware func(command.HandlerFunc) command.HandlerFunc

// Apply applies middlewares in order; the last in the list runs first.
func Apply(h command.HandlerFunc, mws ...Middleware) command.HandlerFunc {
	for _, mw := range mws {
		h = mw(h)
	}
	return h
}

// WithCommandLogger records every invocation to the storage command history
// before running the handler. A storage failure is logged, not fatal.
func WithCommandLogger() Middleware {
	return func(next command.HandlerFunc) command.HandlerFunc {
		return func(ctx context.Context, inv *command.Context) (string, error) {
			if info, ok := InvocationFrom(ctx); ok && info.Store != nil {
				err := info.Store.AddCommandRecord(info.ChatID, storage.CommandRecord{
					UserID:   info.UserID,
					Username: info.Username,
					Command:  inv.Invoker,
					Param:    inv.ParsedInput,
					Unix:     time.Now().Unix(),
				})
				if err != nil {
					log.Println("[WARN] Failed to record command:", err)
				}
			}
			return next(ctx, inv)
		}
	}
}

// WithChatRateLimit drops invocations that exceed rps per chat. Dropped
// invocations produce no response at all; answering "slow down" would defeat
// the point.
func WithChatRateLimit(rps float64, burst int) Middleware {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	limiterFor := func(chatID string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		lim, ok := limiters[chatID]
		if !ok {
			lim = rate.NewLimiter(rate.Limit(rps), burst)
			limiters[chatID] = lim
		}
		return lim
	}

	return func(next command.HandlerFunc) command.HandlerFunc {
		return func(ctx context.Context, inv *command.Context) (string, error) {
			chatID := ""
			if info, ok := InvocationFrom(ctx); ok {
				chatID = info.ChatID
			}
			if !limiterFor(chatID).Allow() {
				log.Printf("[WARN] Rate limit hit in chat %s, dropping %s", chatID, inv.Invoker)
				return "", nil
			}
			return next(ctx, inv)
		}
	}
}
