package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sticker-favorites-bot/internal/domain/entity"
)

type fakeDownloader struct {
	calls   []string
	content []byte
	err     error
}

func (f *fakeDownloader) DownloadFile(_ context.Context, fileID string) ([]byte, error) {
	f.calls = append(f.calls, fileID)
	if f.err != nil {
		return nil, f.err
	}
	return f.content, nil
}

type addCall struct {
	UserID  int64
	Name    string
	Sticker entity.InputSticker
}

type createCall struct {
	UserID  int64
	Name    string
	Title   string
	Sticker entity.InputSticker
}

type fakeProvider struct {
	uploads   [][]byte
	adds      []addCall
	creates   []createCall
	uploadErr error
	addErr    error
	createErr error
}

func (f *fakeProvider) UploadStickerFile(_ context.Context, _ int64, content []byte) (string, error) {
	f.uploads = append(f.uploads, content)
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return "uploaded-file-id", nil
}

func (f *fakeProvider) AddStickerToSet(_ context.Context, userID int64, name string, sticker entity.InputSticker) error {
	f.adds = append(f.adds, addCall{UserID: userID, Name: name, Sticker: sticker})
	return f.addErr
}

func (f *fakeProvider) CreateStickerSet(_ context.Context, userID int64, name, title string, sticker entity.InputSticker) error {
	f.creates = append(f.creates, createCall{UserID: userID, Name: name, Title: title, Sticker: sticker})
	return f.createErr
}

type sentText struct {
	ChatID int64
	Text   string
}

type fakeNotifier struct {
	sent []sentText
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, chatID int64, text string) error {
	f.sent = append(f.sent, sentText{ChatID: chatID, Text: text})
	return f.err
}

type fakeLogRepo struct {
	mu      sync.Mutex
	records []entity.StickerRecord
	err     error
}

func (f *fakeLogRepo) Save(_ context.Context, r entity.StickerRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, r)
	return nil
}

func (f *fakeLogRepo) ListByUser(_ context.Context, userID int64, _ int) ([]entity.StickerRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.StickerRecord
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, f.err
}

func (f *fakeLogRepo) CountByOutcome(ctx context.Context, userID int64) (entity.OutcomeStats, error) {
	recs, err := f.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	stats := entity.OutcomeStats{}
	for _, r := range recs {
		stats[r.Outcome]++
	}
	return stats, nil
}

func (f *fakeLogRepo) ClearUser(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.records[:0]
	for _, r := range f.records {
		if r.UserID != userID {
			kept = append(kept, r)
		}
	}
	f.records = kept
	return nil
}

func (f *fakeLogRepo) Close() error { return nil }

type harness struct {
	downloader *fakeDownloader
	provider   *fakeProvider
	notifier   *fakeNotifier
	logRepo    *fakeLogRepo
	uc         StickerUseCase
}

func newHarness() *harness {
	h := &harness{
		downloader: &fakeDownloader{content: []byte("png-bytes")},
		provider:   &fakeProvider{},
		notifier:   &fakeNotifier{},
		logRepo:    &fakeLogRepo{},
	}
	h.uc = NewStickerUseCase(h.downloader, h.provider, h.notifier, h.logRepo, StickerSettings{
		NameTemplate: "fav{user_id}_by_{bot}",
		Title:        "My favorites",
		DefaultEmoji: "❤️",
		BotUsername:  "St1ck_M3_Bot",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return h
}

var testConv = entity.Conversation{
	User:   entity.User{ID: 42, Name: "alice"},
	ChatID: 4242,
}

func notFoundErr() error {
	return &entity.ProviderError{
		Op:          "addStickerToSet",
		Code:        400,
		Description: "Bad Request: STICKERSET_INVALID",
		Kind:        entity.ErrStickerSetNotFound,
	}
}

func TestProcessSticker_NoSticker(t *testing.T) {
	h := newHarness()

	outcome, err := h.uc.ProcessSticker(context.Background(), testConv, nil)

	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeInvalid, outcome)
	require.Len(t, h.notifier.sent, 1)
	assert.Equal(t, sentText{ChatID: 4242, Text: "Please send a sticker"}, h.notifier.sent[0])
	assert.Empty(t, h.downloader.calls)
	assert.Empty(t, h.provider.uploads)
	assert.Empty(t, h.provider.adds)
	assert.Empty(t, h.provider.creates)
}

func TestProcessSticker_EmptyFileID(t *testing.T) {
	h := newHarness()

	outcome, err := h.uc.ProcessSticker(context.Background(), testConv, &entity.Sticker{})

	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeInvalid, outcome)
	assert.Empty(t, h.downloader.calls)
	require.Len(t, h.notifier.sent, 1)
}

func TestProcessSticker_SetExists(t *testing.T) {
	h := newHarness()
	sticker := &entity.Sticker{FileID: "file-1", Emoji: "😎"}

	outcome, err := h.uc.ProcessSticker(context.Background(), testConv, sticker)

	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeAdded, outcome)
	assert.Equal(t, []string{"file-1"}, h.downloader.calls)
	assert.Equal(t, []byte("png-bytes"), sticker.Content)

	require.Len(t, h.provider.uploads, 1)
	require.Len(t, h.provider.adds, 1)
	assert.Empty(t, h.provider.creates)

	add := h.provider.adds[0]
	assert.Equal(t, int64(42), add.UserID)
	assert.Equal(t, "fav42_by_st1ck_m3_bot", add.Name)
	assert.Equal(t, entity.InputSticker{
		FileID:    "uploaded-file-id",
		Format:    "static",
		EmojiList: []string{"😎"},
	}, add.Sticker)

	require.Len(t, h.notifier.sent, 1)
	assert.Equal(t, "Sticker added to your set!", h.notifier.sent[0].Text)
}

func TestProcessSticker_SetMissingCreatesSet(t *testing.T) {
	h := newHarness()
	h.provider.addErr = notFoundErr()

	outcome, err := h.uc.ProcessSticker(context.Background(), testConv, &entity.Sticker{FileID: "file-1"})

	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeCreated, outcome)
	require.Len(t, h.provider.creates, 1)

	create := h.provider.creates[0]
	assert.Equal(t, "fav42_by_st1ck_m3_bot", create.Name)
	assert.Equal(t, "My favorites", create.Title)
	assert.Equal(t, []string{"❤️"}, create.Sticker.EmojiList, "falls back to default emoji")

	require.Len(t, h.notifier.sent, 1)
	assert.Equal(t, "Sticker set created and the sticker added to your set!", h.notifier.sent[0].Text)
}

func TestProcessSticker_DownloadFailure(t *testing.T) {
	h := newHarness()
	h.downloader.err = fmt.Errorf("%w: status 502", entity.ErrTransfer)

	outcome, err := h.uc.ProcessSticker(context.Background(), testConv, &entity.Sticker{FileID: "file-1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrTransfer)
	assert.Equal(t, entity.OutcomeFailed, outcome)
	assert.Empty(t, h.provider.uploads)
	assert.Empty(t, h.provider.adds)
	assert.Empty(t, h.provider.creates)
	require.Len(t, h.notifier.sent, 1)
	assert.Equal(t, "Failed to add sticker to your set!", h.notifier.sent[0].Text)
}

func TestProcessSticker_AddFailureDoesNotCreate(t *testing.T) {
	h := newHarness()
	h.provider.addErr = &entity.ProviderError{
		Op:          "addStickerToSet",
		Code:        400,
		Description: "Bad Request: STICKERS_TOO_MUCH",
		Kind:        entity.ErrProvider,
	}

	outcome, err := h.uc.ProcessSticker(context.Background(), testConv, &entity.Sticker{FileID: "file-1"})

	require.Error(t, err)
	assert.Equal(t, entity.OutcomeFailed, outcome)
	assert.False(t, errors.Is(err, entity.ErrStickerSetNotFound))
	require.Len(t, h.provider.adds, 1)
	assert.Empty(t, h.provider.creates)
	require.Len(t, h.notifier.sent, 1)
	assert.Equal(t, "Failed to add sticker to your set!", h.notifier.sent[0].Text)
}

func TestProcessSticker_UploadFailure(t *testing.T) {
	h := newHarness()
	h.provider.uploadErr = &entity.ProviderError{Op: "uploadStickerFile", Code: 400, Description: "Bad Request: wrong file"}

	outcome, err := h.uc.ProcessSticker(context.Background(), testConv, &entity.Sticker{FileID: "file-1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrProvider)
	assert.Equal(t, entity.OutcomeFailed, outcome)
	assert.Empty(t, h.provider.adds)
	assert.Empty(t, h.provider.creates)
	require.Len(t, h.notifier.sent, 1)
}

func TestProcessSticker_CreateFailure(t *testing.T) {
	h := newHarness()
	h.provider.addErr = notFoundErr()
	h.provider.createErr = &entity.ProviderError{Op: "createNewStickerSet", Code: 400, Description: "Bad Request: sticker set name is already occupied"}

	outcome, err := h.uc.ProcessSticker(context.Background(), testConv, &entity.Sticker{FileID: "file-1"})

	require.Error(t, err)
	assert.Equal(t, entity.OutcomeFailed, outcome)
	require.Len(t, h.provider.creates, 1)
	require.Len(t, h.notifier.sent, 1)
	assert.Equal(t, "Failed to add sticker to your set!", h.notifier.sent[0].Text)
}

func TestProcessSticker_RecordsHistory(t *testing.T) {
	h := newHarness()
	h.provider.addErr = notFoundErr()

	_, err := h.uc.ProcessSticker(context.Background(), testConv, &entity.Sticker{FileID: "file-1"})
	require.NoError(t, err)

	require.Len(t, h.logRepo.records, 1)
	rec := h.logRepo.records[0]
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, int64(42), rec.UserID)
	assert.Equal(t, "alice", rec.Username)
	assert.Equal(t, "file-1", rec.FileID)
	assert.Equal(t, "fav42_by_st1ck_m3_bot", rec.SetName)
	assert.Equal(t, entity.OutcomeCreated, rec.Outcome)
	assert.Empty(t, rec.Reason)
}

func TestProcessSticker_HistoryErrorDoesNotChangeReply(t *testing.T) {
	h := newHarness()
	h.logRepo.err = errors.New("disk full")

	outcome, err := h.uc.ProcessSticker(context.Background(), testConv, &entity.Sticker{FileID: "file-1"})

	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeAdded, outcome)
	require.Len(t, h.notifier.sent, 1)
	assert.Equal(t, "Sticker added to your set!", h.notifier.sent[0].Text)
}

func TestProcessSticker_NotifyErrorIsLoggedOnly(t *testing.T) {
	h := newHarness()
	h.notifier.err = errors.New("bot was blocked")

	outcome, err := h.uc.ProcessSticker(context.Background(), testConv, &entity.Sticker{FileID: "file-1"})

	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeAdded, outcome)
}

func TestExpandSetName(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"per user", "fav{user_id}_by_{bot}", "fav7_by_my_bot"},
		{"fixed name", "favorites_by_st1ck_m3_bot", "favorites_by_st1ck_m3_bot"},
		{"bot only", "stash_by_{bot}", "stash_by_my_bot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandSetName(tt.template, 7, "My_Bot"))
		})
	}
}

func TestSetLink(t *testing.T) {
	assert.Equal(t, "https://t.me/addstickers/fav7_by_my_bot", SetLink("fav7_by_my_bot"))
}

func TestProcessSticker_VideoStickerIsInvalid(t *testing.T) {
	h := newHarness()
	h.downloader.err = fmt.Errorf("%w: file_2.webm", entity.ErrNotStatic)

	outcome, err := h.uc.ProcessSticker(context.Background(), testConv, &entity.Sticker{FileID: "video-1"})

	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeInvalid, outcome)
	assert.Empty(t, h.provider.uploads)
	assert.Empty(t, h.provider.adds)
	require.Len(t, h.notifier.sent, 1)
	assert.Equal(t, "Please send a sticker", h.notifier.sent[0].Text)
	require.Len(t, h.logRepo.records, 1)
	assert.Equal(t, entity.OutcomeInvalid, h.logRepo.records[0].Outcome)
	assert.Equal(t, "video-1", h.logRepo.records[0].FileID)
}
