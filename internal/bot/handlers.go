package bot

import (
	"context"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Ponleu2019/TelegramTradingBot-Render/internal/market"
	"github.com/Ponleu2019/TelegramTradingBot-Render/internal/store"
)

const (
	defaultWelcome       = "👋 Welcome {name}!"
	defaultReloadSuccess = "Reloaded!"
)

func (b *Bot) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	if m.Text == "" {
		return
	}

	if m.IsCommand() {
		switch m.Command() {
		case "price":
			b.replyWithPrices(ctx, m)
		case "reload":
			b.handleReload(m)
		}
		return
	}

	lower := strings.ToLower(m.Text)
	if strings.Contains(lower, "price") {
		b.replyWithPrices(ctx, m)
		return
	}

	// First keyword in file order wins; no match means no reply.
	if reply, ok := b.responses.Match(m.Text); ok {
		b.reply(m, reply)
	}
}

func (b *Bot) replyWithPrices(ctx context.Context, m *tgbotapi.Message) {
	b.reply(m, b.market.Announcement(ctx, market.TitleLive))
}

func (b *Bot) handleReload(m *tgbotapi.Message) {
	if err := b.responses.Reload(); err != nil {
		b.log.WithError(err).Error("reloading responses")
		return
	}
	text, ok := b.responses.Template(store.TemplateReloadSuccess)
	if !ok {
		text = defaultReloadSuccess
	}
	b.reply(m, text)
}

// handleChatMember fires the welcome only on a left/kicked -> member
// transition, so promotions and restriction changes stay silent.
func (b *Bot) handleChatMember(upd *tgbotapi.ChatMemberUpdated) {
	oldStatus := upd.OldChatMember.Status
	newStatus := upd.NewChatMember.Status
	if newStatus != "member" || (oldStatus != "left" && oldStatus != "kicked") {
		return
	}

	text, ok := b.responses.Template(store.TemplateWelcome)
	if !ok {
		text = defaultWelcome
	}
	text = strings.ReplaceAll(text, "{name}", mentionHTML(upd.NewChatMember.User))

	msg := tgbotapi.NewMessage(upd.Chat.ID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.sender.Send(msg); err != nil {
		b.log.WithError(err).Error("sending welcome")
	}
}

func (b *Bot) reply(m *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(m.Chat.ID, text)
	msg.ReplyToMessageID = m.MessageID
	if _, err := b.sender.Send(msg); err != nil {
		b.log.WithError(err).Error("sending reply")
	}
}

// mentionHTML renders a rich-text mention of a user, linking the
// display name to the account.
func mentionHTML(u *tgbotapi.User) string {
	name := u.FirstName
	if name == "" {
		name = u.UserName
	}
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, u.ID, html.EscapeString(name))
}
