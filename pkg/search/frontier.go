package search

import "container/heap"

// frontier holds arena indices of paths awaiting expansion.
type frontier interface {
	push(id int, key float64)
	pop() int
	len() int
}

func newFrontier(d discipline) frontier {
	switch d {
	case fifo:
		return &queue{}
	case lifo:
		return &stack{}
	default:
		return &priorityQueue{}
	}
}

// queue removes from the front. Consumed slots are reclaimed once they make
// up more than half of the backing slice.
type queue struct {
	items []int
	head  int
}

func (q *queue) push(id int, _ float64) { q.items = append(q.items, id) }

func (q *queue) pop() int {
	id := q.items[q.head]
	q.head++
	if q.head > len(q.items)/2 {
		q.items = append(q.items[:0], q.items[q.head:]...)
		q.head = 0
	}
	return id
}

func (q *queue) len() int { return len(q.items) - q.head }

// stack removes from the back.
type stack struct {
	items []int
}

func (s *stack) push(id int, _ float64) { s.items = append(s.items, id) }

func (s *stack) pop() int {
	n := len(s.items) - 1
	id := s.items[n]
	s.items = s.items[:n]
	return id
}

func (s *stack) len() int { return len(s.items) }

// entry is a priority frontier element. seq is the insertion counter that
// breaks ties between equal keys.
type entry struct {
	key float64
	seq uint64
	id  int
}

// entryHeap implements heap.Interface as a min-heap on (key, seq).
type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].key != h[j].key {
		return h[i].key < h[j].key
	}
	return h[i].seq < h[j].seq
}
func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) { *h = append(*h, x.(entry)) }

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

type priorityQueue struct {
	entries entryHeap
	seq     uint64
}

func (p *priorityQueue) push(id int, key float64) {
	heap.Push(&p.entries, entry{key: key, seq: p.seq, id: id})
	p.seq++
}

func (p *priorityQueue) pop() int { return heap.Pop(&p.entries).(entry).id }

func (p *priorityQueue) len() int { return p.entries.Len() }
