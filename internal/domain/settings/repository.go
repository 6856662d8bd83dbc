package settings

import "context"

type SettingsRepository interface {
	// Get returns ErrSettingNotFound for a key never stored.
	Get(ctx context.Context, key string) (Setting, error)
	List(ctx context.Context) ([]Setting, error)
	Upsert(ctx context.Context, setting Setting) (Setting, error)
}
