package reminder

import "container/heap"

// reminderQueue is a min-heap of reminders ordered by fire time.
type reminderQueue struct {
	backingArray []*Reminder
}

func newReminderQueue() *reminderQueue {
	rq := &reminderQueue{backingArray: []*Reminder{}}
	heap.Init(rq)
	return rq
}

func (rq reminderQueue) Len() int {
	return len(rq.backingArray)
}

func (rq reminderQueue) Less(i, j int) bool {
	return rq.backingArray[i].At.Before(rq.backingArray[j].At)
}

func (rq reminderQueue) Swap(i, j int) {
	rq.backingArray[j], rq.backingArray[i] = rq.backingArray[i], rq.backingArray[j]
}

func (rq *reminderQueue) Push(r any) {
	reminder, ok := r.(*Reminder)
	if !ok {
		return
	}

	rq.backingArray = append(rq.backingArray, reminder)
}

func (rq *reminderQueue) Pop() any {
	if len(rq.backingArray) == 0 {
		return nil
	}

	ba := rq.backingArray
	n := len(ba)
	popped := ba[n-1]
	ba[n-1] = nil
	rq.backingArray = ba[:n-1]

	return popped
}

// Peek returns the earliest reminder or nil.
func (rq *reminderQueue) Peek() *Reminder {
	if len(rq.backingArray) == 0 {
		return nil
	}

	return rq.backingArray[0]
}
