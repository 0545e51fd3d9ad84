// Package reminder schedules one-shot reminders and hands them to a delivery
// function once they are due.
package reminder

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/jmhodges/clock"
	"go.uber.org/zap"
)

// idleTimeout arms the timer while nothing is pending.
const idleTimeout = 24 * time.Hour

// DeliverFunc delivers a due reminder. Errors are logged and the reminder is
// dropped.
type DeliverFunc func(Reminder) error

type Manager struct {
	clk           clock.Clock
	logger        *zap.SugaredLogger
	deliver       DeliverFunc
	timer         *clock.Timer
	mu            sync.Mutex
	reminderQueue *reminderQueue
}

func NewManager(clk clock.Clock, deliver DeliverFunc, l *zap.SugaredLogger) *Manager {
	return &Manager{
		clk:           clk,
		logger:        l,
		deliver:       deliver,
		timer:         clk.NewTimer(idleTimeout),
		reminderQueue: newReminderQueue(),
	}
}

// Schedule arranges for r to be delivered once after delay and returns
// without waiting. A negative delay counts as zero. The reminder's At is
// set from the manager's clock.
func (m *Manager) Schedule(delay time.Duration, r Reminder) {
	if delay < 0 {
		delay = 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r.At = m.clk.Now().Add(delay)
	heap.Push(m.reminderQueue, &r)

	if m.reminderQueue.Peek() == &r {
		m.timer.Reset(delay)
	}

	m.logger.Debugw("reminder scheduled", "id", r.ID, "usr", r.Sender.ID, "at", r.At, "visibility", r.Visibility)
}

// Pending returns the number of reminders that haven't fired yet.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.reminderQueue.Len()
}

// Run fires due reminders until ctx is done. Reminders still pending when
// Run returns are lost.
func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			m.timer.Stop()
			return
		case <-m.timer.C:
			m.remind()
		}
	}
}

// remind pops every due reminder and rearms the timer for the next one.
func (m *Manager) remind() {
	m.mu.Lock()
	now := m.clk.Now()

	var due []*Reminder
	for {
		r := m.reminderQueue.Peek()
		if r == nil || now.Before(r.At) {
			break
		}

		heap.Pop(m.reminderQueue)
		due = append(due, r)
	}

	if next := m.reminderQueue.Peek(); next != nil {
		m.timer.Reset(next.At.Sub(now))
	} else {
		m.timer.Reset(idleTimeout)
	}
	m.mu.Unlock()

	for _, r := range due {
		go m.fire(*r)
	}
}

func (m *Manager) fire(r Reminder) {
	l := m.logger.With("id", r.ID, "usr", r.Sender.ID)

	defer func() {
		if p := recover(); p != nil {
			l.Errorw("reminder delivery panicked; the reminder is lost", "panic", p)
		}
	}()

	if err := m.deliver(r); err != nil {
		l.Errorw("failed delivering reminder; the reminder is lost", "err", err)
		return
	}

	l.Info("reminder is sent")
}
