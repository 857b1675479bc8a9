package middleware

import (
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"calibration_analyzer/pkg/contextx"
)

// AdminOnly пропускает дальше только обновления от администратора.
func AdminOnly(adminID int64) th.Handler {
	return func(ctx *th.Context, update telego.Update) error {
		var from *telego.User

		switch {
		case update.Message != nil:
			from = update.Message.From
		case update.CallbackQuery != nil:
			from = &update.CallbackQuery.From
		default:
			return nil
		}

		if from != nil && from.ID == adminID {
			return ctx.Next(update)
		}

		if from != nil {
			contextx.LoggerFromContextOrDefault(ctx).Warn("update from unknown user ignored", "user_id", from.ID)
		}

		return nil
	}
}
