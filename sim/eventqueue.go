package sim

import (
	"container/heap"
	"container/list"
	"errors"
	"sync"
)

// ErrEmptyQueue is returned when an event is requested from a queue that holds
// no event.
var ErrEmptyQueue = errors.New("sim: event queue is empty")

// EventQueue are a queue of event ordered by the time of events. Events that
// share the same time leave the queue in the order they entered it.
type EventQueue interface {
	Push(evt Event)
	Pop() (Event, error)
	Peek() (Event, error)
	Len() int
	IsEmpty() bool
}

// HeapQueue provides a thread safe event queue backed by a binary heap.
type HeapQueue struct {
	sync.Mutex
	events  eventHeap
	nextSeq uint64
}

// NewEventQueue creates and returns a newly created EventQueue
func NewEventQueue() *HeapQueue {
	q := new(HeapQueue)
	q.events = make([]queuedEvent, 0)
	heap.Init(&q.events)

	return q
}

// Push adds an event to the event queue
func (q *HeapQueue) Push(evt Event) {
	q.Lock()
	heap.Push(&q.events, queuedEvent{evt: evt, seq: q.nextSeq})
	q.nextSeq++
	q.Unlock()
}

// Pop returns the next earliest event
func (q *HeapQueue) Pop() (Event, error) {
	q.Lock()
	defer q.Unlock()

	if q.events.Len() == 0 {
		return nil, ErrEmptyQueue
	}

	return heap.Pop(&q.events).(queuedEvent).evt, nil
}

// Peek returns the event in front of the queue without removing it from the
// queue
func (q *HeapQueue) Peek() (Event, error) {
	q.Lock()
	defer q.Unlock()

	if q.events.Len() == 0 {
		return nil, ErrEmptyQueue
	}

	return q.events[0].evt, nil
}

// Len returns the number of event in the queue
func (q *HeapQueue) Len() int {
	q.Lock()
	l := q.events.Len()
	q.Unlock()

	return l
}

// IsEmpty returns true if no event is waiting in the queue.
func (q *HeapQueue) IsEmpty() bool {
	return q.Len() == 0
}

type queuedEvent struct {
	evt Event
	seq uint64
}

type eventHeap []queuedEvent

// Len returns the length of the event queue
func (h eventHeap) Len() int {
	return len(h)
}

// Less determines the order between two events. Less returns true if the i-th
// event happens before the j-th event. Same-time events keep insertion order.
func (h eventHeap) Less(i, j int) bool {
	ti, tj := h[i].evt.Time(), h[j].evt.Time()
	if ti != tj {
		return ti < tj
	}

	return h[i].seq < h[j].seq
}

// Swap changes the position of two events in the event queue
func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

// Push adds an event into the event queue
func (h *eventHeap) Push(x interface{}) {
	*h = append(*h, x.(queuedEvent))
}

// Pop removes and returns the next event to happen
func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	event := old[n-1]
	old[n-1] = queuedEvent{}
	*h = old[0 : n-1]

	return event
}

// InsertionQueue is a queue that is based on insertion sort
type InsertionQueue struct {
	lock sync.RWMutex
	l    *list.List
}

// NewInsertionQueue returns a new InsertionQueue
func NewInsertionQueue() *InsertionQueue {
	q := new(InsertionQueue)
	q.l = list.New()

	return q
}

// Push add an event to the event queue. The event is placed after all the
// events that happen at the same time or earlier.
func (q *InsertionQueue) Push(evt Event) {
	q.lock.Lock()
	defer q.lock.Unlock()

	var ele *list.Element
	for ele = q.l.Back(); ele != nil; ele = ele.Prev() {
		if ele.Value.(Event).Time() <= evt.Time() {
			break
		}
	}

	if ele != nil {
		q.l.InsertAfter(evt, ele)
	} else {
		q.l.PushFront(evt)
	}
}

// Pop returns the event with the smallest time, and removes it from the queue
func (q *InsertionQueue) Pop() (Event, error) {
	q.lock.Lock()
	defer q.lock.Unlock()

	front := q.l.Front()
	if front == nil {
		return nil, ErrEmptyQueue
	}

	return q.l.Remove(front).(Event), nil
}

// Len return the number of events in the queue
func (q *InsertionQueue) Len() int {
	q.lock.RLock()
	l := q.l.Len()
	q.lock.RUnlock()

	return l
}

// IsEmpty returns true if no event is waiting in the queue.
func (q *InsertionQueue) IsEmpty() bool {
	return q.Len() == 0
}

// Peek returns the event at the front of the queue without removing it from
// the queue.
func (q *InsertionQueue) Peek() (Event, error) {
	q.lock.RLock()
	defer q.lock.RUnlock()

	front := q.l.Front()
	if front == nil {
		return nil, ErrEmptyQueue
	}

	return front.Value.(Event), nil
}
