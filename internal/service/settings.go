package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/cafe_pos/internal/appstate"
)

type SettingsService struct {
	State *appstate.State
}

func (s *SettingsService) Theme(ctx context.Context) (string, error) {
	return s.State.Theme(ctx)
}

func (s *SettingsService) SetTheme(ctx context.Context, theme string) (string, error) {
	if theme != appstate.ThemeLight && theme != appstate.ThemeDark {
		return "", fmt.Errorf("unknown theme %q: %w", theme, ErrValidation)
	}
	if err := s.State.SetTheme(ctx, theme); err != nil {
		return "", err
	}
	return theme, nil
}
