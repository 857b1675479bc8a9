package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"calibration_analyzer/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminID int64) {
	// Все сообщения только от администратора
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminID))

	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))
	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("help"))

	// Документы и все остальное
	adminGroup.HandleMessage(h.OnDocument, th.AnyMessage())
}
