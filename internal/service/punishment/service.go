package punishment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/audit"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/punishment"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/clock"
	auditsvc "github.com/cmlabs-hris/chiko-attendance-go/internal/service/audit"
	"github.com/google/uuid"
)

// summaryLimit is how many recent entries Summary returns.
const summaryLimit = 20

type LedgerImpl struct {
	repo     punishment.PunishmentRepository
	settings settings.SettingsService
	audit    *auditsvc.Recorder
	clock    clock.Clock
}

func NewLedger(repo punishment.PunishmentRepository, settingsService settings.SettingsService, recorder *auditsvc.Recorder, clk clock.Clock) punishment.Ledger {
	return &LedgerImpl{
		repo:     repo,
		settings: settingsService,
		audit:    recorder,
		clock:    clk,
	}
}

// Append implements punishment.Ledger. It joins the caller's transaction
// when ctx carries one.
func (l *LedgerImpl) Append(ctx context.Context, entry punishment.Entry) (punishment.Entry, error) {
	if entry.Points == 0 {
		return punishment.Entry{}, punishment.ErrZeroPoints
	}
	if strings.TrimSpace(entry.Reason) == "" {
		return punishment.Entry{}, punishment.ErrReasonMissing
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Date.IsZero() {
		entry.Date = l.clock.Now()
	}

	created, err := l.repo.Create(ctx, entry)
	if err != nil {
		return punishment.Entry{}, fmt.Errorf("failed to append punishment entry: %w", err)
	}
	return created, nil
}

// TotalPoints implements punishment.Ledger.
func (l *LedgerImpl) TotalPoints(ctx context.Context, userID string, from, to time.Time) (int, error) {
	total, err := l.repo.SumByUserAndRange(ctx, userID, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to sum punishment points: %w", err)
	}
	return total, nil
}

// IsHighRisk implements punishment.Ledger.
func (l *LedgerImpl) IsHighRisk(ctx context.Context, userID string, from, to time.Time, threshold int) (bool, error) {
	total, err := l.TotalPoints(ctx, userID, from, to)
	if err != nil {
		return false, err
	}
	return total > threshold, nil
}

// Threshold implements punishment.Ledger.
func (l *LedgerImpl) Threshold(ctx context.Context) int {
	if l.settings == nil {
		return settings.DefaultMaxPunishmentPoints
	}
	return l.settings.MaxPunishmentPoints(ctx)
}

// Summary implements punishment.Ledger.
func (l *LedgerImpl) Summary(ctx context.Context, userID string) (punishment.SummaryResponse, error) {
	entries, err := l.repo.ListRecentByUser(ctx, userID, summaryLimit)
	if err != nil {
		return punishment.SummaryResponse{}, fmt.Errorf("failed to list punishment history: %w", err)
	}
	total, err := l.repo.SumByUser(ctx, userID)
	if err != nil {
		return punishment.SummaryResponse{}, fmt.Errorf("failed to sum punishment points: %w", err)
	}

	history := make([]punishment.EntryResponse, 0, len(entries))
	for _, e := range entries {
		history = append(history, punishment.ToEntryResponse(e))
	}
	return punishment.SummaryResponse{TotalPoints: total, History: history}, nil
}

// AddManual implements punishment.Ledger.
func (l *LedgerImpl) AddManual(ctx context.Context, req punishment.ManualEntryRequest) (punishment.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return punishment.EntryResponse{}, err
	}

	entry, err := l.Append(ctx, punishment.Entry{
		UserID: req.UserID,
		Points: req.Points,
		Reason: strings.TrimSpace(req.Reason),
	})
	if err != nil {
		return punishment.EntryResponse{}, err
	}

	l.audit.Record(ctx, audit.ActionPunishmentAdd, req.PerformedBy, &entry.ID,
		fmt.Sprintf("User %s: %+d points. Reason: %s", entry.UserID, entry.Points, entry.Reason))

	return punishment.ToEntryResponse(entry), nil
}
