package tgbot

import (
	"net/http"
	"strings"
	"time"
	"unicode/utf16"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"remindbot/bot"
	"remindbot/bots/ReminderBot/chat"
)

const (
	txtHelp   = "help"
	txtNoName = "you"

	entityTextMention = "text_mention"

	cmdStart  = "start"
	cmdHelp   = "help"
	cmdRemind = "remind"
)

// Requester is the part of the Telegram Bot API the messenger uses.
type Requester interface {
	Request(c tg.Chattable) (*tg.APIResponse, error)
}

// Messenger sends reminders and replies through Telegram.
type Messenger struct {
	Bot           Requester
	RetryAttempts int
	RetryDelay    time.Duration
}

func NewMessenger(b Requester, cfg *bot.Config) *Messenger {
	return &Messenger{
		Bot:           b,
		RetryAttempts: cfg.RetryAttempts,
		RetryDelay:    cfg.RetryDelay,
	}
}

func (m *Messenger) Reply(o chat.Origin, txt string) error {
	msg := tg.NewMessage(o.ChatID, txt)
	msg.ReplyToMessageID = o.MessageID
	return m.send(msg)
}

// SendPrivate works only for users who have started a private chat with
// the bot; Telegram uses the user ID as the chat ID there.
func (m *Messenger) SendPrivate(usr int64, txt string) error {
	return m.send(tg.NewMessage(usr, txt))
}

// ReplyMention mentions users without a username through a text_mention
// entity on their name.
func (m *Messenger) ReplyMention(o chat.Origin, u chat.User, txt string) error {
	msg := tg.NewMessage(o.ChatID, "")
	msg.ReplyToMessageID = o.MessageID

	if u.UserName != "" {
		msg.Text = "@" + u.UserName + " " + txt
		return m.send(msg)
	}

	name := u.Name
	if name == "" {
		name = txtNoName
	}
	msg.Text = name + " " + txt
	msg.Entities = []tg.MessageEntity{{
		Type:   entityTextMention,
		Offset: 0,
		Length: len(utf16.Encode([]rune(name))),
		User:   &tg.User{ID: u.ID},
	}}
	return m.send(msg)
}

func (m *Messenger) send(msg tg.MessageConfig) error {
	msg.DisableWebPagePreview = true

	var err error
	bot.RobustExecute(m.RetryAttempts, m.RetryDelay, func() bool {
		_, err = m.Bot.Request(msg)
		return err == nil || !retryable(err)
	})

	return errors.Wrapf(err, "failed sending message to chat %d", msg.ChatID)
}

// retryable reports false for errors Telegram won't change its mind about,
// like a user who blocked the bot or never started a chat with it.
func retryable(err error) bool {
	var apiErr *tg.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return true
}

// ToMessage converts a Telegram message into a message for the reminder
// bot. It reports false when the message isn't addressed to the bot: in
// groups the bot has to be mentioned first or replied to.
func ToMessage(botName string, m *tg.Message) (chat.Message, bool) {
	if m == nil || m.From == nil || m.Chat == nil {
		return chat.Message{}, false
	}

	msg := chat.Message{
		Sender: chat.User{
			ID:       m.From.ID,
			Name:     strings.TrimSpace(m.From.FirstName + " " + m.From.LastName),
			UserName: m.From.UserName,
		},
		Origin: chat.Origin{
			ChatID:    m.Chat.ID,
			MessageID: m.MessageID,
		},
	}

	if m.IsCommand() {
		cmd := m.CommandWithAt()
		if i := strings.Index(cmd, "@"); i != -1 {
			if !strings.EqualFold(cmd[i+1:], botName) {
				return chat.Message{}, false
			}
			cmd = cmd[:i]
		}

		switch cmd {
		case cmdStart, cmdHelp:
			msg.Content = txtHelp
		case cmdRemind:
			msg.Content = strings.TrimSpace(m.CommandArguments())
		default:
			return chat.Message{}, false
		}
		return msg, true
	}

	txt := m.Text
	if txt == "" {
		txt = m.Caption
	}
	txt = strings.TrimSpace(txt)

	switch {
	case isMentioned(botName, txt):
		txt = txt[len(botName)+1:]
	case m.Chat.IsPrivate():
	case m.ReplyToMessage != nil && m.ReplyToMessage.From != nil && strings.EqualFold(m.ReplyToMessage.From.UserName, botName):
	default:
		return chat.Message{}, false
	}

	msg.Content = strings.TrimSpace(txt)
	return msg, true
}

func isMentioned(botName, txt string) bool {
	mention := "@" + botName
	if len(txt) < len(mention) || !strings.EqualFold(txt[:len(mention)], mention) {
		return false
	}

	rest := txt[len(mention):]
	return rest == "" || strings.HasPrefix(rest, " ") || strings.HasPrefix(rest, "\n")
}
