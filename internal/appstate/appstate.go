// Package appstate keeps the small pieces of state that live outside the
// relational tables: the last shift close, the set of archived items
// already covered by a close, the close history and UI preferences.
package appstate

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RoaringBitmap/roaring/roaring64"

	"github.com/Skotchmaster/cafe_pos/internal/reports"
)

const (
	KeyLastClose = "shift.last_close_at"
	KeyPrinted   = "shift.printed_items.v2"
	KeyHistory   = "shift.history.v1"
	KeyTheme     = "ui.theme"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Store is the persistence port. SetMany must be atomic.
type Store interface {
	GetKV(ctx context.Context, key string) (string, bool, error)
	SetKVs(ctx context.Context, values map[string]string) error
}

type State struct {
	Store Store
}

func New(s Store) *State { return &State{Store: s} }

func (s *State) LastClose(ctx context.Context) (*time.Time, error) {
	v, ok, err := s.Store.GetKV(ctx, KeyLastClose)
	if err != nil || !ok || v == "" {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", KeyLastClose, err)
	}
	return &t, nil
}

func (s *State) Printed(ctx context.Context) (*roaring64.Bitmap, error) {
	bm := roaring64.New()
	v, ok, err := s.Store.GetKV(ctx, KeyPrinted)
	if err != nil || !ok || v == "" {
		return bm, err
	}
	raw, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeyPrinted, err)
	}
	if err := bm.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeyPrinted, err)
	}
	return bm, nil
}

func (s *State) History(ctx context.Context) ([]reports.ShiftReport, error) {
	v, ok, err := s.Store.GetKV(ctx, KeyHistory)
	if err != nil || !ok || v == "" {
		return []reports.ShiftReport{}, err
	}
	var out []reports.ShiftReport
	if err := json.Unmarshal([]byte(v), &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeyHistory, err)
	}
	return out, nil
}

// RecordClose marks the report's items as printed, appends it to the
// history and moves the anchor to rep.At in one write.
func (s *State) RecordClose(ctx context.Context, rep reports.ShiftReport) error {
	printed, err := s.Printed(ctx)
	if err != nil {
		return err
	}
	printed.AddMany(rep.Keys)
	raw, err := printed.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode printed set: %w", err)
	}

	history, err := s.History(ctx)
	if err != nil {
		return err
	}
	history = append(history, rep)
	hist, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	return s.Store.SetKVs(ctx, map[string]string{
		KeyPrinted:   base64.StdEncoding.EncodeToString(raw),
		KeyHistory:   string(hist),
		KeyLastClose: rep.At.UTC().Format(time.RFC3339Nano),
	})
}

func (s *State) Theme(ctx context.Context) (string, error) {
	v, ok, err := s.Store.GetKV(ctx, KeyTheme)
	if err != nil {
		return "", err
	}
	if !ok || (v != ThemeLight && v != ThemeDark) {
		return ThemeLight, nil
	}
	return v, nil
}

func (s *State) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("unknown theme %q", theme)
	}
	return s.Store.SetKVs(ctx, map[string]string{KeyTheme: theme})
}
