package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/cafe_pos/internal/events"
	"github.com/Skotchmaster/cafe_pos/pkg/logging"
)

var (
	ErrValidation   = errors.New("validation")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s not found: %w", what, ErrNotFound)
	}
	return err
}

// publish logs instead of failing: the receipt is already committed.
func publish(ctx context.Context, p events.Publisher, key, typ string, payload any) {
	if p == nil {
		return
	}
	ev := events.Event{Type: typ, At: time.Now().UTC(), Payload: payload}
	if err := p.Publish(ctx, key, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "type", typ, "error", err)
	}
}
