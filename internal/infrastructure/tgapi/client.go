package tgapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/yourusername/sticker-favorites-bot/internal/domain/entity"
	"github.com/yourusername/sticker-favorites-bot/internal/infrastructure/download"
	"github.com/yourusername/sticker-favorites-bot/internal/infrastructure/resilience"
	"github.com/yourusername/sticker-favorites-bot/internal/infrastructure/scrub"
)

// inputSticker Bot API dagi InputSticker obyekti
type inputSticker struct {
	Sticker   string   `json:"sticker"`
	Format    string   `json:"format"`
	EmojiList []string `json:"emoji_list"`
}

// Client Telegram Bot API ustidagi adapter: fayl yuklab olish,
// stiker to'plamlari va matnli xabarlar.
type Client struct {
	bot          *tgbotapi.BotAPI
	downloader   *download.Downloader
	limiter      *resilience.RateLimiter
	fileEndpoint string
	logger       *slog.Logger
}

// Option Client sozlamasi
type Option func(*Client)

// WithFileEndpoint fayl URL shabloni (token, file_path)
func WithFileEndpoint(endpoint string) Option {
	return func(c *Client) { c.fileEndpoint = endpoint }
}

// WithRateLimiter chiquvchi so'rovlar cheklovchisi
func WithRateLimiter(rl *resilience.RateLimiter) Option {
	return func(c *Client) { c.limiter = rl }
}

// WithLogger logger o'rnatish
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient yangi Client yaratish
func NewClient(bot *tgbotapi.BotAPI, downloader *download.Downloader, opts ...Option) *Client {
	c := &Client{
		bot:          bot,
		downloader:   downloader,
		fileEndpoint: tgbotapi.FileEndpoint,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BotUsername bot username
func (c *Client) BotUsername() string {
	return c.bot.Self.UserName
}

// DownloadFile getFile orqali yo'lni topib, baytlarni HTTP GET bilan olish
func (c *Client) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	if err := c.wait(ctx, 0); err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrTransfer, err)
	}

	c.logger.Debug("downloading file", "file_id", fileID)

	file, err := c.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("%w: getFile: %w", entity.ErrTransfer, scrub.TokenFromError(err, c.bot.Token))
	}
	if file.FilePath == "" {
		return nil, fmt.Errorf("%w: getFile returned empty path", entity.ErrTransfer)
	}
	// Video (.webm) va animatsion (.tgs) stikerlar statik to'plamga tushmaydi
	switch strings.ToLower(path.Ext(file.FilePath)) {
	case ".webm", ".tgs":
		return nil, fmt.Errorf("%w: %s", entity.ErrNotStatic, path.Base(file.FilePath))
	}

	data, err := c.downloader.Get(ctx, fmt.Sprintf(c.fileEndpoint, c.bot.Token, file.FilePath))
	if err != nil {
		return nil, err
	}

	c.logger.Debug("finished downloading file", "file_id", fileID, "bytes", len(data))
	return data, nil
}

// UploadStickerFile stiker faylini yuklash, yangi file_id qaytaradi
func (c *Client) UploadStickerFile(ctx context.Context, userID int64, content []byte) (string, error) {
	const op = "uploadStickerFile"
	if err := c.wait(ctx, userID); err != nil {
		return "", &entity.ProviderError{Op: op, Description: err.Error(), Kind: entity.ErrProvider}
	}

	params := tgbotapi.Params{}
	params.AddNonZero64("user_id", userID)
	params["sticker_format"] = entity.StickerFormatStatic

	files := []tgbotapi.RequestFile{{
		Name: "sticker",
		Data: tgbotapi.FileBytes{
			Name:  uuid.New().String() + "_sticker.png",
			Bytes: content,
		},
	}}

	resp, err := c.bot.UploadFiles(op, params, files)
	if err != nil {
		return "", classify(op, resp, err, c.bot.Token)
	}

	var uploaded tgbotapi.File
	if err := json.Unmarshal(resp.Result, &uploaded); err != nil {
		return "", &entity.ProviderError{Op: op, Description: "decode result: " + err.Error(), Kind: entity.ErrProvider}
	}
	if uploaded.FileID == "" {
		return "", &entity.ProviderError{Op: op, Description: "empty file_id in result", Kind: entity.ErrProvider}
	}

	return uploaded.FileID, nil
}

// AddStickerToSet mavjud to'plamga qo'shish
func (c *Client) AddStickerToSet(ctx context.Context, userID int64, name string, sticker entity.InputSticker) error {
	const op = "addStickerToSet"
	if err := c.wait(ctx, userID); err != nil {
		return &entity.ProviderError{Op: op, Description: err.Error(), Kind: entity.ErrProvider}
	}

	params := tgbotapi.Params{}
	params.AddNonZero64("user_id", userID)
	params["name"] = name
	if err := params.AddInterface("sticker", toInputSticker(sticker)); err != nil {
		return &entity.ProviderError{Op: op, Description: err.Error(), Kind: entity.ErrProvider}
	}

	resp, err := c.bot.MakeRequest(op, params)
	return classify(op, resp, err, c.bot.Token)
}

// CreateStickerSet yangi to'plam, sticker birinchi a'zo
func (c *Client) CreateStickerSet(ctx context.Context, userID int64, name, title string, sticker entity.InputSticker) error {
	const op = "createNewStickerSet"
	if err := c.wait(ctx, userID); err != nil {
		return &entity.ProviderError{Op: op, Description: err.Error(), Kind: entity.ErrProvider}
	}

	params := tgbotapi.Params{}
	params.AddNonZero64("user_id", userID)
	params["name"] = name
	params["title"] = title
	if err := params.AddInterface("stickers", []inputSticker{toInputSticker(sticker)}); err != nil {
		return &entity.ProviderError{Op: op, Description: err.Error(), Kind: entity.ErrProvider}
	}

	resp, err := c.bot.MakeRequest(op, params)
	return classify(op, resp, err, c.bot.Token)
}

// Notify matnli xabar yuborish
func (c *Client) Notify(ctx context.Context, chatID int64, text string) error {
	if err := c.wait(ctx, chatID); err != nil {
		return err
	}
	if _, err := c.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("sendMessage: %w", scrub.TokenFromError(err, c.bot.Token))
	}
	return nil
}

// SendDocument fayl yuborish (eksport uchun)
func (c *Client) SendDocument(ctx context.Context, chatID int64, name string, data []byte, caption string) error {
	if err := c.wait(ctx, chatID); err != nil {
		return err
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	if _, err := c.bot.Send(doc); err != nil {
		return fmt.Errorf("sendDocument: %w", scrub.TokenFromError(err, c.bot.Token))
	}
	return nil
}

// wait cheklovchi bo'lsa navbat kutish. key 0 faqat umumiy cheklovni ishlatadi
func (c *Client) wait(ctx context.Context, key int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.limiter == nil {
		return nil
	}
	if key == 0 {
		return c.limiter.GlobalWait(ctx)
	}
	return c.limiter.Wait(ctx, key)
}

func toInputSticker(s entity.InputSticker) inputSticker {
	format := s.Format
	if format == "" {
		format = entity.StickerFormatStatic
	}
	return inputSticker{
		Sticker:   s.FileID,
		Format:    format,
		EmojiList: s.EmojiList,
	}
}
