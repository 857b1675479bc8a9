package notifier

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/pkg/logx"
)

type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64, opts ...telego.BotOption) (*TelegramBot, error) {
	bot, err := telego.NewBot(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Run отправляет алерты из канала, пока он открыт.
func (b *TelegramBot) Run(ctx context.Context, alerts <-chan entity.Alert) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case alert, ok := <-alerts:
			if !ok {
				return nil
			}

			if err := b.SendAlert(ctx, alert); err != nil {
				logger(ctx).Error(
					"failed to send alert",
					slog.String(logx.FieldTraceID, alert.TraceID),
					logx.Error(err),
				)
			}
		}
	}
}

func (b *TelegramBot) SendAlert(ctx context.Context, alert entity.Alert) error {
	msg := tu.Message(
		tu.ID(b.chatID),
		FormatAlert(alert),
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// FormatAlert рендерит алерт в Telegram HTML.
func FormatAlert(alert entity.Alert) string {
	icon := "⚠️"
	if alert.Verdict == entity.VerdictFail {
		icon = "❌"
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s <b>%s</b>\n\n", icon, html.EscapeString(alert.Verdict.String()))
	fmt.Fprintf(&sb, "🔧 <b>Equipment:</b> %s\n", html.EscapeString(strings.TrimSpace(
		alert.Equipment.Manufacturer+" "+alert.Equipment.Model+" ("+alert.Equipment.EquipmentType+")",
	)))

	if alert.Equipment.CertificateNumber != "" {
		fmt.Fprintf(&sb, "📄 <b>Certificate:</b> %s\n", html.EscapeString(alert.Equipment.CertificateNumber))
	}

	if alert.Equipment.SerialNumber != "" {
		fmt.Fprintf(&sb, "🔢 <b>Serial:</b> %s\n", html.EscapeString(alert.Equipment.SerialNumber))
	}

	fmt.Fprintf(&sb, "📊 <b>Confidence:</b> %s (%d/100)\n\n", alert.Confidence.Level, alert.Confidence.Score)
	sb.WriteString(html.EscapeString(alert.Summary))

	if alert.TraceID != "" {
		fmt.Fprintf(&sb, "\n\n<code>%s</code>", html.EscapeString(alert.TraceID))
	}

	return sb.String()
}
