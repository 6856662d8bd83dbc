package settings

import "context"

type SettingsService interface {
	// Get returns the stored value, or the built-in default.
	Get(ctx context.Context, key string) (string, error)
	// All merges stored values over the defaults.
	All(ctx context.Context) (map[string]string, error)
	Upsert(ctx context.Context, req UpsertRequest) (Setting, error)
	// MaxPunishmentPoints never fails; read errors fall back to 50.
	MaxPunishmentPoints(ctx context.Context) int
}
