// Package handler decides what to do with every message addressed to the
// reminder bot: answer help, reject a bad time, or schedule a reminder.
package handler

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"remindbot/bots/ReminderBot/chat"
	"remindbot/bots/ReminderBot/parser"
	"remindbot/bots/ReminderBot/reminder"
)

// Scheduler delivers a reminder once after the delay without blocking.
type Scheduler interface {
	Schedule(delay time.Duration, r reminder.Reminder)
}

type Handler struct {
	parser    *parser.Parser
	scheduler Scheduler
	messenger chat.Messenger
}

func New(p *parser.Parser, s Scheduler, m chat.Messenger) *Handler {
	return &Handler{
		parser:    p,
		scheduler: s,
		messenger: m,
	}
}

// HandleMessage never blocks on anything but sending an immediate reply. l
// is expected to be bound to the sender already.
func (h *Handler) HandleMessage(l *zap.SugaredLogger, msg chat.Message) {
	req, err := h.parser.Parse(msg.Content)
	switch {
	case errors.Is(err, parser.ErrTimeInPast):
		l.Infow("rejected reminder", "err", err)
		h.reply(l, msg, txtTimeInPast)

	case err != nil:
		l.Infow("rejected reminder", "err", err)
		h.reply(l, msg, txtInvalidTime)

	case req.Kind == parser.Help:
		h.reply(l, msg, HelpMessage)

	default:
		r := reminder.New(msg, req.Text, req.Visibility)
		h.scheduler.Schedule(req.Delay, r)
		l.Infow("reminder is set", "id", r.ID, "kind", req.Kind, "delay", req.Delay, "visibility", req.Visibility)
	}
}

func (h *Handler) reply(l *zap.SugaredLogger, msg chat.Message, txt string) {
	if err := h.messenger.Reply(msg.Origin, txt); err != nil {
		l.Errorw("failed replying", "err", err)
	}
}

// Deliver returns the function sending due reminders through m. Public
// reminders mention the sender in the original chat, private ones go to the
// sender alone.
func Deliver(m chat.Messenger) reminder.DeliverFunc {
	return func(r reminder.Reminder) error {
		if r.Visibility == parser.Public {
			err := m.ReplyMention(r.Origin, r.Sender, r.Text)
			return errors.Wrap(err, "failed sending public reminder")
		}

		err := m.SendPrivate(r.Sender.ID, r.Text)
		return errors.Wrap(err, "failed sending private reminder")
	}
}
