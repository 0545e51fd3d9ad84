package handler

import (
	"sync"
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"remindbot/bots/ReminderBot/chat"
	"remindbot/bots/ReminderBot/parser"
	"remindbot/bots/ReminderBot/reminder"
)

// 'Foo Test User' is the sender of every test message.
var (
	sender        = chat.User{ID: 42, Name: "Foo Test User"}
	origin        = chat.Origin{ChatID: -100, MessageID: 7}
	senderMention = "@**Foo Test User** "
)

var nopLogger = zap.NewNop().Sugar()

const (
	kindReply   = "reply"
	kindPrivate = "private"
)

type sent struct {
	kind   string
	origin chat.Origin
	usr    int64
	text   string
}

type fakeMessenger struct {
	mu   sync.Mutex
	sent []sent
	err  error
}

func (m *fakeMessenger) Reply(o chat.Origin, txt string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sent{kind: kindReply, origin: o, text: txt})
	return m.err
}

func (m *fakeMessenger) SendPrivate(usr int64, txt string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sent{kind: kindPrivate, usr: usr, text: txt})
	return m.err
}

func (m *fakeMessenger) ReplyMention(o chat.Origin, u chat.User, txt string) error {
	return m.Reply(o, "@**"+u.Name+"** "+txt)
}

// uniqueResponse returns the only message sent so far.
func (m *fakeMessenger) uniqueResponse(t *testing.T) sent {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.Len(t, m.sent, 1)
	return m.sent[0]
}

type scheduled struct {
	delay    time.Duration
	reminder reminder.Reminder
}

// recordingScheduler keeps scheduled reminders so that tests can fire them
// right away.
type recordingScheduler struct {
	scheduled []scheduled
}

func (s *recordingScheduler) Schedule(d time.Duration, r reminder.Reminder) {
	s.scheduled = append(s.scheduled, scheduled{delay: d, reminder: r})
}

func newTestHandler() (*Handler, *fakeMessenger, *recordingScheduler) {
	clk := clock.NewFake()
	clk.Set(time.Date(2026, time.October, 18, 10, 0, 0, 0, time.UTC))

	m := &fakeMessenger{}
	s := &recordingScheduler{}
	return New(parser.New(clk), s, m), m, s
}

// handle sends the request to the handler, fires the scheduled reminder if
// there's one and returns the only response and the delay.
func handle(t *testing.T, request string) (sent, time.Duration, bool) {
	t.Helper()

	h, m, s := newTestHandler()
	h.HandleMessage(nopLogger, chat.Message{Content: request, Sender: sender, Origin: origin})

	var delay time.Duration
	fired := false
	if len(s.scheduled) > 0 {
		require.Len(t, s.scheduled, 1)
		delay = s.scheduled[0].delay
		require.NoError(t, Deliver(m)(s.scheduled[0].reminder))
		fired = true
	}

	return m.uniqueResponse(t), delay, fired
}

func TestHandleMessage(t *testing.T) {
	tests := []struct {
		name     string
		request  string
		kind     string
		response string
		delay    time.Duration
	}{
		{"normal mode", "Walk the dog.", kindPrivate, "Walk the dog.", 300 * time.Second},
		{"advanced mode", `"Walk the dog."`, kindPrivate, "Walk the dog.", 300 * time.Second},
		{"advanced mode delay", `"Walk the dog." in 6 minutes`, kindPrivate, "Walk the dog.", 360 * time.Second},
		{"advanced mode seconds", `"Walk the dog." in 20 seconds`, kindPrivate, "Walk the dog.", 20 * time.Second},
		{"advanced mode time", `"Walk the dog." at 11:59 p.m.`, kindPrivate, "Walk the dog.", 13*time.Hour + 59*time.Minute},
		{"advanced mode public", `"Walk the dog." public`, kindReply, senderMention + "Walk the dog.", 300 * time.Second},
		{"advanced mode delay public", `"Walk the dog." in 8 minutes public`, kindReply, senderMention + "Walk the dog.", 8 * time.Minute},
		{"advanced mode time public", `"Walk the dog." at 11:59 p.m. public`, kindReply, senderMention + "Walk the dog.", 13*time.Hour + 59*time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, delay, fired := handle(t, tt.request)

			require.True(t, fired)
			assert.Equal(t, tt.delay, delay)
			assert.Equal(t, tt.kind, resp.kind)
			assert.Equal(t, tt.response, resp.text)

			if tt.kind == kindPrivate {
				assert.Equal(t, sender.ID, resp.usr)
			} else {
				assert.Equal(t, origin, resp.origin)
			}
		})
	}
}

func TestHandleMessageRejectsTime(t *testing.T) {
	tests := []struct {
		name     string
		request  string
		response string
	}{
		{"bad time", `"Walk the dog." at 13:64 p.m.`, "Sorry, that time doesn't make sense."},
		{"past time", `"Walk the dog." at 12:00 a.m.`, "Sorry, the time can't be in the past."},
		{"too far", `"Walk the dog." in 99999999999999999999 minutes`, "Sorry, that time doesn't make sense."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _, fired := handle(t, tt.request)

			assert.False(t, fired)
			assert.Equal(t, kindReply, resp.kind)
			assert.Equal(t, origin, resp.origin)
			assert.Equal(t, tt.response, resp.text)
		})
	}
}

func TestHandleMessageHelp(t *testing.T) {
	for _, request := range []string{"help", ""} {
		resp, _, fired := handle(t, request)

		assert.False(t, fired)
		assert.Equal(t, kindReply, resp.kind)
		assert.Equal(t, origin, resp.origin)
		assert.Equal(t, HelpMessage, resp.text)
	}
}

func TestHandleMessageKeepsSenderAndOrigin(t *testing.T) {
	h, _, s := newTestHandler()

	h.HandleMessage(nopLogger, chat.Message{Content: `"Walk the dog." public`, Sender: sender, Origin: origin})

	require.Len(t, s.scheduled, 1)
	r := s.scheduled[0].reminder
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, sender, r.Sender)
	assert.Equal(t, origin, r.Origin)
	assert.Equal(t, parser.Public, r.Visibility)
}

func TestDeliverReturnsMessengerError(t *testing.T) {
	m := &fakeMessenger{err: errors.New("bot was blocked by the user")}

	r := reminder.Reminder{Text: "Walk the dog.", Sender: sender, Origin: origin}
	err := Deliver(m)(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot was blocked by the user")

	r.Visibility = parser.Public
	err = Deliver(m)(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed sending public reminder")
}

func TestReplyFailureIsNotFatal(t *testing.T) {
	h, m, s := newTestHandler()
	m.err = errors.New("network is down")

	h.HandleMessage(nopLogger, chat.Message{Content: "help", Sender: sender, Origin: origin})

	assert.Empty(t, s.scheduled)
	assert.Equal(t, HelpMessage, m.uniqueResponse(t).text)
}

func TestHandleMessageLogsWithCallerLogger(t *testing.T) {
	h, _, _ := newTestHandler()

	core, logs := observer.New(zap.InfoLevel)
	l := zap.New(core).Sugar().With("usr", sender.ID)

	h.HandleMessage(l, chat.Message{Content: `"Walk the dog." at 13:64 p.m.`, Sender: sender, Origin: origin})
	h.HandleMessage(l, chat.Message{Content: `"Walk the dog." in 6 minutes`, Sender: sender, Origin: origin})

	rejected := logs.FilterMessage("rejected reminder").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, sender.ID, rejected[0].ContextMap()["usr"])

	set := logs.FilterMessage("reminder is set").All()
	require.Len(t, set, 1)
	assert.Equal(t, sender.ID, set[0].ContextMap()["usr"])
	assert.NotEmpty(t, set[0].ContextMap()["id"])
}
