package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get implements settings.SettingsRepository.
func (r *settingsRepository) Get(ctx context.Context, key string) (settings.Setting, error) {
	q := GetQuerier(ctx, r.db)

	var s settings.Setting
	err := q.QueryRow(ctx, `SELECT key, value FROM settings WHERE key = $1`, key).Scan(&s.Key, &s.Value)
	if err != nil {
		if err == pgx.ErrNoRows {
			return settings.Setting{}, settings.ErrSettingNotFound
		}
		return settings.Setting{}, fmt.Errorf("failed to get setting: %w", err)
	}
	return s, nil
}

// List implements settings.SettingsRepository.
func (r *settingsRepository) List(ctx context.Context) ([]settings.Setting, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	var out []settings.Setting
	for rows.Next() {
		var s settings.Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		out = append(out, s)
	}
	return out, nil
}

// Upsert implements settings.SettingsRepository.
func (r *settingsRepository) Upsert(ctx context.Context, setting settings.Setting) (settings.Setting, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		RETURNING key, value
	`

	var saved settings.Setting
	if err := q.QueryRow(ctx, query, setting.Key, setting.Value).Scan(&saved.Key, &saved.Value); err != nil {
		return settings.Setting{}, fmt.Errorf("failed to upsert setting: %w", err)
	}
	return saved, nil
}
