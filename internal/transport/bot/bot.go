package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"calibration_analyzer/internal/transport/bot/handler"
	"calibration_analyzer/pkg/logx"
)

const pollingTimeout = 60 // секунды

type (
	Analyzer  = handler.Analyzer
	Extractor = handler.Extractor
)

// Bot принимает сертификаты от администратора и отвечает результатом анализа.
type Bot struct {
	bot     *telego.Bot
	handler *handler.Handler
	adminID int64
}

// New создает бота. extractor может быть nil, тогда PDF не принимаются.
func New(
	token string,
	adminID int64,
	analyzer Analyzer,
	extractor Extractor,
	opts ...telego.BotOption,
) (*Bot, error) {
	bot, err := telego.NewBot(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	files := NewFileDownloader(bot, time.Minute)

	return &Bot{
		bot:     bot,
		handler: handler.New(analyzer, extractor, files),
		adminID: adminID,
	}, nil
}

// Run обрабатывает обновления до отмены контекста.
func (b *Bot) Run(ctx context.Context) error {
	updates, err := b.bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: pollingTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to get updates: %w", err)
	}

	botHandler, err := th.NewBotHandler(b.bot, updates)
	if err != nil {
		return fmt.Errorf("failed to create bot handler: %w", err)
	}

	b.handler.RegisterRoutes(botHandler, b.adminID)

	go func() {
		if err := botHandler.Start(); err != nil {
			logger(ctx).Error("failed to start bot handler", logx.Error(err))
		}
	}()

	<-ctx.Done()

	if err := botHandler.Stop(); err != nil {
		logger(ctx).Error("failed to stop bot handler", logx.Error(err))
	}

	return nil
}
