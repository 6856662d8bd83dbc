package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	values map[string]string
	err    error
}

func newFakeRepo() *fakeRepo { return &fakeRepo{values: map[string]string{}} }

func (f *fakeRepo) Get(ctx context.Context, key string) (settings.Setting, error) {
	if f.err != nil {
		return settings.Setting{}, f.err
	}
	v, ok := f.values[key]
	if !ok {
		return settings.Setting{}, settings.ErrSettingNotFound
	}
	return settings.Setting{Key: key, Value: v}, nil
}

func (f *fakeRepo) List(ctx context.Context) ([]settings.Setting, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []settings.Setting
	for k, v := range f.values {
		out = append(out, settings.Setting{Key: k, Value: v})
	}
	return out, nil
}

func (f *fakeRepo) Upsert(ctx context.Context, s settings.Setting) (settings.Setting, error) {
	f.values[s.Key] = s.Value
	return s, nil
}

func strPtr(s string) *string { return &s }

func TestSettingsService_DefaultsWhenUnset(t *testing.T) {
	svc := NewSettingsService(newFakeRepo())
	ctx := context.Background()

	assert.Equal(t, 50, svc.MaxPunishmentPoints(ctx))

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "50", all[settings.KeyMaxPunishmentPoints])

	_, err = svc.Get(ctx, "unknown_key")
	assert.ErrorIs(t, err, settings.ErrSettingNotFound)
}

func TestSettingsService_UpsertOverridesDefault(t *testing.T) {
	repo := newFakeRepo()
	svc := NewSettingsService(repo)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, settings.UpsertRequest{Key: settings.KeyMaxPunishmentPoints, Value: strPtr(" 80 ")})
	require.NoError(t, err)

	assert.Equal(t, 80, svc.MaxPunishmentPoints(ctx))
	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "80", all[settings.KeyMaxPunishmentPoints])
}

func TestSettingsService_UpsertTrimsBeforeValidation(t *testing.T) {
	repo := newFakeRepo()
	svc := NewSettingsService(repo)
	ctx := context.Background()

	raw := "\t40\n"
	saved, err := svc.Upsert(ctx, settings.UpsertRequest{Key: " " + settings.KeyMaxPunishmentPoints + " ", Value: &raw})
	require.NoError(t, err)
	assert.Equal(t, settings.Setting{Key: settings.KeyMaxPunishmentPoints, Value: "40"}, saved)
	assert.Equal(t, "40", repo.values[settings.KeyMaxPunishmentPoints])
	assert.Equal(t, "\t40\n", raw)

	_, err = svc.Upsert(ctx, settings.UpsertRequest{Key: settings.KeyMaxPunishmentPoints, Value: strPtr("   ")})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "value")
}

func TestSettingsService_UpsertValidation(t *testing.T) {
	svc := NewSettingsService(newFakeRepo())
	ctx := context.Background()

	tests := []struct {
		name  string
		req   settings.UpsertRequest
		field string
	}{
		{"missing key", settings.UpsertRequest{Value: strPtr("1")}, "key"},
		{"missing value", settings.UpsertRequest{Key: "greeting"}, "value"},
		{"non numeric threshold", settings.UpsertRequest{Key: settings.KeyMaxPunishmentPoints, Value: strPtr("lots")}, "value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upsert(ctx, tt.req)
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}
}

func TestSettingsService_MaxPunishmentPointsFallsBackOnError(t *testing.T) {
	repo := newFakeRepo()
	repo.err = errors.New("db down")
	svc := NewSettingsService(repo)

	assert.Equal(t, settings.DefaultMaxPunishmentPoints, svc.MaxPunishmentPoints(context.Background()))

	repo.err = nil
	repo.values[settings.KeyMaxPunishmentPoints] = "abc"
	assert.Equal(t, settings.DefaultMaxPunishmentPoints, svc.MaxPunishmentPoints(context.Background()))
}
