package bot

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/stakechat/stakechat-bot/internal/bot/keyboard"
	"github.com/stakechat/stakechat-bot/internal/engine"
)

// send delivers an engine response as one Markdown message, attaching the
// button grid when present.
func (b *Bot) send(c telebot.Context, resp engine.Response) error {
	opts := &telebot.SendOptions{
		ParseMode: telebot.ModeMarkdown,
	}

	if markup := keyboard.Render(resp.Buttons, b.log); markup != nil {
		opts.ReplyMarkup = markup
	}

	return c.Send(resp.Text, opts)
}
