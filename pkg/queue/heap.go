package queue

import (
	"container/heap"
	"strings"
)

// Priorizable items are ordered by Priority, equal priorities by Sequence (first in, first out)
type Priorizable interface {
	Priority() int
	Sequence() int
	Index() int
	SetIndex(index int)
	String() string
}

// MinHeap keeps track of the position of every item so it can be updated in place
type MinHeap[T Priorizable] struct {
	queue priorityQueue[T]
}

func NewMinHeap[T Priorizable](items []T) *MinHeap[T] {
	h := &MinHeap[T]{queue: make(priorityQueue[T], len(items))}
	for i, item := range items {
		h.queue[i] = item
		item.SetIndex(i)
	}
	heap.Init(&h.queue)
	return h
}

// Implements heap.Interface
type priorityQueue[T Priorizable] []T

func (q priorityQueue[T]) Len() int { return len(q) }
func (q priorityQueue[T]) Less(i, j int) bool {
	if q[i].Priority() != q[j].Priority() {
		return q[i].Priority() < q[j].Priority()
	}
	return q[i].Sequence() < q[j].Sequence()
}
func (q priorityQueue[T]) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].SetIndex(i)
	q[j].SetIndex(j)
}
func (q *priorityQueue[T]) Push(item any) {
	n := len(*q)
	pqItem := item.(T)
	pqItem.SetIndex(n)
	*q = append(*q, pqItem)
}
func (q *priorityQueue[T]) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	var zero T
	old[n-1] = zero
	item.SetIndex(-1) // for safety
	*q = old[:n-1]
	return item
}

func (h *MinHeap[T]) Len() int      { return h.queue.Len() }
func (h *MinHeap[T]) Push(item T)   { heap.Push(&h.queue, item) }
func (h *MinHeap[T]) Pop() T        { return heap.Pop(&h.queue).(T) }
func (h *MinHeap[T]) Update(item T) { heap.Fix(&h.queue, item.Index()) }
func (h *MinHeap[T]) Peek() T       { return h.queue[0] }
func (h *MinHeap[T]) PeekAt(index int) T {
	if index >= h.Len() {
		panic("index out of bounds")
	}
	return h.queue[index]
}
func (h *MinHeap[T]) Remove(index int) T { return heap.Remove(&h.queue, index).(T) }
func (h *MinHeap[T]) Clear()             { h.queue = h.queue[:0] }
func (h *MinHeap[T]) String() string {
	var sb strings.Builder
	for i := 0; i < h.Len(); i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(h.PeekAt(i).String())
	}
	return sb.String()
}
