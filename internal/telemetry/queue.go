package telemetry

import "sync"

// Queue is an unbounded multi-producer, single-consumer FIFO of records.
type Queue struct {
	mu    sync.Mutex
	items []Record
}

func NewQueue() *Queue {
	return &Queue{items: make([]Record, 0, 256)}
}

func (q *Queue) Push(r Record) {
	q.mu.Lock()
	q.items = append(q.items, r)
	q.mu.Unlock()
}

// PushFront puts a batch back at the head of the queue, ahead of anything
// pushed since it was drained, so per-ball order survives a retry.
func (q *Queue) PushFront(batch []Record) {
	if len(batch) == 0 {
		return
	}
	q.mu.Lock()
	items := make([]Record, 0, len(batch)+len(q.items))
	items = append(items, batch...)
	q.items = append(items, q.items...)
	q.mu.Unlock()
}

// Drain removes and returns everything currently queued.
func (q *Queue) Drain() []Record {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	batch := q.items
	q.items = make([]Record, 0, cap(batch))
	return batch
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
