package bot

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/artur/ytmp4/internal/downloader"
)

// Bot sends download notifications to a single Telegram chat.
type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func New(token string, chatID int64) (*Bot, error) {
	return NewWithEndpoint(token, tgbotapi.APIEndpoint, chatID)
}

// NewWithEndpoint uses a custom Bot API endpoint in the
// "https://host/bot%s/%s" form, e.g. a local Bot API server.
func NewWithEndpoint(token, endpoint string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Debugf("[BOT] Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

// NotifyDownload reports a finished download to the configured chat.
func (b *Bot) NotifyDownload(res *downloader.Result) error {
	msg := tgbotapi.NewMessage(b.chatID, formatDownloadMessage(res))
	msg.DisableWebPagePreview = true

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	log.Debugf("[BOT] Notified chat %d about %s", b.chatID, res.VideoID)
	return nil
}

func formatDownloadMessage(res *downloader.Result) string {
	var sb strings.Builder

	sb.WriteString("✅ Downloaded: ")
	if res.Title != "" {
		sb.WriteString(res.Title)
	} else {
		sb.WriteString(res.VideoID)
	}
	sb.WriteString("\n")

	quality := res.Rendition.Label
	if quality == "" && res.Rendition.Height > 0 {
		quality = fmt.Sprintf("%dp", res.Rendition.Height)
	}
	if quality != "" {
		fmt.Fprintf(&sb, "Quality: %s\n", quality)
	}

	fmt.Fprintf(&sb, "Size: %s\n", humanize.Bytes(uint64(res.Bytes)))
	fmt.Fprintf(&sb, "Saved to: %s", res.OutputPath)

	return sb.String()
}
