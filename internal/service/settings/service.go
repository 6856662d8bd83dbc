package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/settings"
)

type SettingsServiceImpl struct {
	repo settings.SettingsRepository
}

func NewSettingsService(repo settings.SettingsRepository) settings.SettingsService {
	return &SettingsServiceImpl{repo: repo}
}

// Get implements settings.SettingsService.
func (s *SettingsServiceImpl) Get(ctx context.Context, key string) (string, error) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, settings.ErrSettingNotFound) {
			if v, ok := settings.Default(key); ok {
				return v, nil
			}
		}
		return "", err
	}
	return setting.Value, nil
}

// All implements settings.SettingsService.
func (s *SettingsServiceImpl) All(ctx context.Context) (map[string]string, error) {
	stored, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}

	result := settings.Defaults()
	for _, st := range stored {
		result[st.Key] = st.Value
	}
	return result, nil
}

// Upsert implements settings.SettingsService.
func (s *SettingsServiceImpl) Upsert(ctx context.Context, req settings.UpsertRequest) (settings.Setting, error) {
	req.Key = strings.TrimSpace(req.Key)
	if req.Value != nil {
		value := strings.TrimSpace(*req.Value)
		req.Value = &value
	}
	if err := req.Validate(); err != nil {
		return settings.Setting{}, err
	}

	saved, err := s.repo.Upsert(ctx, settings.Setting{Key: req.Key, Value: *req.Value})
	if err != nil {
		return settings.Setting{}, fmt.Errorf("failed to upsert setting: %w", err)
	}
	return saved, nil
}

// MaxPunishmentPoints implements settings.SettingsService.
func (s *SettingsServiceImpl) MaxPunishmentPoints(ctx context.Context) int {
	value, err := s.Get(ctx, settings.KeyMaxPunishmentPoints)
	if err != nil {
		slog.Warn("failed to read max punishment points, using default", "error", err)
		return settings.DefaultMaxPunishmentPoints
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("max punishment points is not numeric, using default", "value", value)
		return settings.DefaultMaxPunishmentPoints
	}
	return n
}
