package reminder

import (
	"time"

	"github.com/google/uuid"

	"remindbot/bots/ReminderBot/chat"
	"remindbot/bots/ReminderBot/parser"
)

// Reminder is a delivery waiting to be made. It's immutable once scheduled.
type Reminder struct {
	ID         string
	At         time.Time // when the reminder fires
	Visibility parser.Visibility
	Text       string
	Sender     chat.User
	Origin     chat.Origin
}

// New creates a reminder for the message sender. At is set by the Manager
// when the reminder is scheduled.
func New(msg chat.Message, text string, visibility parser.Visibility) Reminder {
	return Reminder{
		ID:         uuid.NewString(),
		Visibility: visibility,
		Text:       text,
		Sender:     msg.Sender,
		Origin:     msg.Origin,
	}
}
