// Package chat describes what the reminder bot needs from a messaging
// platform: inbound messages and two ways of sending text back.
package chat

// User identifies the sender of a message.
type User struct {
	ID       int64
	Name     string // display name
	UserName string // may be empty
}

// Origin is where a public reply to a message should go.
type Origin struct {
	ChatID    int64
	MessageID int
}

// Message is a message addressed to the bot.
type Message struct {
	Content string
	Sender  User
	Origin  Origin
}

// Messenger is implemented by the platform transport. Its methods are called
// concurrently from fired reminders.
type Messenger interface {
	// Reply sends text into the context the original message came from.
	Reply(origin Origin, text string) error
	// SendPrivate sends text to a single user.
	SendPrivate(usr int64, text string) error
	// ReplyMention sends text into the context the original message came
	// from, prefixed with a mention of u that the platform notifies.
	ReplyMention(origin Origin, u User, text string) error
}
