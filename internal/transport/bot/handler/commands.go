package handler

import (
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"calibration_analyzer/internal/transport/bot/view"
)

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
}

// OnDocument отвечает на присланный сертификат. Подпись к файлу
// используется как пользовательские инструкции.
func (h *Handler) OnDocument(ctx *th.Context, msg telego.Message) error {
	if msg.Document == nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
	}

	return h.sendHTML(ctx, msg.Chat.ID, h.Analyze(ctx, *msg.Document, msg.Caption))
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, tu.Message(tu.ID(chatID), text).WithParseMode(telego.ModeHTML))
	return err //nolint:wrapcheck
}
