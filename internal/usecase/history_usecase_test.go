package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sticker-favorites-bot/internal/domain/entity"
)

type fakeExporter struct {
	got []entity.StickerRecord
	err error
}

func (f *fakeExporter) Export(_ context.Context, records []entity.StickerRecord) ([]byte, error) {
	f.got = records
	if f.err != nil {
		return nil, f.err
	}
	return []byte("xlsx"), nil
}

func (f *fakeExporter) FileName(userID int64) string {
	return fmt.Sprintf("stickers_%d.xlsx", userID)
}

func seedRecords(repo *fakeLogRepo) {
	now := time.Now()
	for i, o := range []entity.Outcome{entity.OutcomeCreated, entity.OutcomeAdded, entity.OutcomeAdded, entity.OutcomeFailed} {
		repo.records = append(repo.records, entity.StickerRecord{
			ID:        fmt.Sprintf("r%d", i),
			UserID:    42,
			Outcome:   o,
			Timestamp: now.Add(time.Duration(i) * time.Second),
		})
	}
	repo.records = append(repo.records, entity.StickerRecord{ID: "other", UserID: 7, Outcome: entity.OutcomeAdded})
}

func TestHistoryUseCase_Stats(t *testing.T) {
	repo := &fakeLogRepo{}
	seedRecords(repo)
	uc := NewHistoryUseCase(repo, &fakeExporter{})

	stats, err := uc.Stats(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, 3, stats.Saved())
	assert.Equal(t, 4, stats.Total())
	assert.Equal(t, 1, stats[entity.OutcomeFailed])
}

func TestHistoryUseCase_Export(t *testing.T) {
	repo := &fakeLogRepo{}
	seedRecords(repo)
	exp := &fakeExporter{}
	uc := NewHistoryUseCase(repo, exp)

	name, data, err := uc.Export(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, "stickers_42.xlsx", name)
	assert.Equal(t, []byte("xlsx"), data)
	assert.Len(t, exp.got, 4)
}

func TestHistoryUseCase_ExportEmpty(t *testing.T) {
	uc := NewHistoryUseCase(&fakeLogRepo{}, &fakeExporter{})

	_, _, err := uc.Export(context.Background(), 42)

	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestHistoryUseCase_ExportError(t *testing.T) {
	repo := &fakeLogRepo{}
	seedRecords(repo)
	uc := NewHistoryUseCase(repo, &fakeExporter{err: errors.New("boom")})

	_, _, err := uc.Export(context.Background(), 42)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoHistory)
}

func TestHistoryUseCase_Clear(t *testing.T) {
	repo := &fakeLogRepo{}
	seedRecords(repo)
	uc := NewHistoryUseCase(repo, &fakeExporter{})

	require.NoError(t, uc.Clear(context.Background(), 42))

	stats, err := uc.Stats(context.Background(), 42)
	require.NoError(t, err)
	assert.Zero(t, stats.Total())

	other, err := uc.Stats(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, other.Total())
}
