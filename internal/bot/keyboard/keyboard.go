// Package keyboard renders engine button grids into telebot inline markup.
package keyboard

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/stakechat/stakechat-bot/internal/engine"
)

// DataLimitBytes is the Telegram hard limit on callback data.
const DataLimitBytes = 64

// Render converts a button grid into inline reply markup. Buttons whose
// callback payload exceeds the Telegram limit are dropped with a log entry
// rather than failing the whole reply. Empty grids render as nil so the
// transport can omit the markup entirely.
func Render(rows [][]engine.Button, log *slog.Logger) *telebot.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}
	if log == nil {
		log = slog.Default()
	}

	inline := make([][]telebot.InlineButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]telebot.InlineButton, 0, len(row))
		for _, btn := range row {
			if len(btn.Action) > DataLimitBytes {
				log.Warn("dropping oversized callback button",
					"label", btn.Label, "bytes", len(btn.Action))
				continue
			}
			buttons = append(buttons, telebot.InlineButton{
				Text: btn.Label,
				Data: btn.Action,
			})
		}
		if len(buttons) > 0 {
			inline = append(inline, buttons)
		}
	}

	if len(inline) == 0 {
		return nil
	}
	return &telebot.ReplyMarkup{InlineKeyboard: inline}
}

// MainMenu is attached to help and start replies. Each payload feeds back
// through the command router as if the user had typed it.
func MainMenu() [][]engine.Button {
	return [][]engine.Button{
		{{Label: "📊 Portfolio", Action: "balance"}},
		{{Label: "👤 Who am I", Action: "whoami"}, {Label: "🔒 Privacy", Action: "privacy"}},
	}
}
