package bot

import (
	"context"

	"github.com/pkg/errors"
	tele "gopkg.in/telebot.v3"
)

// TelegramSender доставляет текст в чат по id. Адаптер под
// dispatcher.Sender; контекст телеботом не пробрасывается.
type TelegramSender struct {
	tb *tele.Bot
}

func NewSender(tb *tele.Bot) *TelegramSender {
	return &TelegramSender{tb: tb}
}

func (s *TelegramSender) Send(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.tb.Send(tele.ChatID(chatID), text)
	return errors.Wrap(err, "telegram send")
}
