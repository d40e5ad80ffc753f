package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Ponleu2019/TelegramTradingBot-Render/internal/market"
	"github.com/Ponleu2019/TelegramTradingBot-Render/internal/store"
)

// Sender is the outbound half of the Telegram API. Handlers depend on
// it instead of *tgbotapi.BotAPI so tests can capture what was sent.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot reacts to group updates: keyword replies, price requests, member
// welcomes and the reload command. The same instance backs the
// scheduler's broadcasts.
type Bot struct {
	sender    Sender
	market    *market.Service
	responses *store.Responses
	groupID   int64
	log       *logrus.Entry
}

func New(sender Sender, m *market.Service, responses *store.Responses, groupID int64, log *logrus.Entry) *Bot {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Bot{sender: sender, market: m, responses: responses, groupID: groupID, log: log}
}

// Run consumes the long-polling update stream until ctx is canceled.
func (b *Bot) Run(ctx context.Context, api *tgbotapi.BotAPI) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	// chat_member updates are not delivered unless asked for.
	u.AllowedUpdates = []string{tgbotapi.UpdateTypeMessage, tgbotapi.UpdateTypeChatMember}

	updates := api.GetUpdatesChan(u)
	b.log.WithField("bot", api.Self.UserName).Info("update loop started")

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate dispatches one inbound update.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	case update.ChatMember != nil:
		b.handleChatMember(update.ChatMember)
	}
}

// BroadcastMarketUpdate sends a scheduled announcement to the
// configured group.
func (b *Bot) BroadcastMarketUpdate(ctx context.Context) {
	text := b.market.Announcement(ctx, market.TitleScheduled)
	if _, err := b.sender.Send(tgbotapi.NewMessage(b.groupID, text)); err != nil {
		b.log.WithError(err).Error("sending market update")
	}
}
