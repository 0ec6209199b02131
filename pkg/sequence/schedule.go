package sequence

import "container/heap"

// Scheduled is an entry of a Schedule.
type Scheduled[T any] struct {
	Value T
	At    uint64
	order uint64
	index int
}

type scheduleHeap[T any] struct {
	items []*Scheduled[T]
}

func (h *scheduleHeap[T]) Len() int {
	return len(h.items)
}

// Less orders by tick, then by insertion so entries due on the same tick
// come out in the order they were pushed.
func (h *scheduleHeap[T]) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.At != b.At {
		return a.At < b.At
	}
	return a.order < b.order
}

func (h *scheduleHeap[T]) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].index = i
	h.items[j].index = j
}

func (h *scheduleHeap[T]) Push(x any) {
	item := x.(*Scheduled[T])
	item.index = len(h.items)
	h.items = append(h.items, item)
}

func (h *scheduleHeap[T]) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	h.items = old[:n-1]
	return item
}

// Schedule is a min-heap of values keyed by the tick they are due on. It is
// not safe for concurrent use.
type Schedule[T any] struct {
	h    scheduleHeap[T]
	next uint64
}

func NewSchedule[T any]() *Schedule[T] {
	s := &Schedule[T]{}
	heap.Init(&s.h)
	return s
}

// Push schedules value for tick at.
func (s *Schedule[T]) Push(at uint64, value T) {
	s.next++
	heap.Push(&s.h, &Scheduled[T]{Value: value, At: at, order: s.next})
}

// PopDue removes and returns every value due at or before now, in order.
func (s *Schedule[T]) PopDue(now uint64) []T {
	var due []T
	for s.h.Len() > 0 && s.h.items[0].At <= now {
		due = append(due, heap.Pop(&s.h).(*Scheduled[T]).Value)
	}
	return due
}

// Peek returns the tick of the earliest entry.
func (s *Schedule[T]) Peek() (uint64, bool) {
	if s.h.Len() == 0 {
		return 0, false
	}
	return s.h.items[0].At, true
}

func (s *Schedule[T]) Len() int {
	return s.h.Len()
}

func (s *Schedule[T]) IsEmpty() bool {
	return s.h.Len() == 0
}
