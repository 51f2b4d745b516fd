package crawler

import "sync"

// frontierItem is a queued unit of work. A zero url with stop set is the
// shutdown sentinel; each worker consumes exactly one.
type frontierItem struct {
	url  string
	stop bool
}

// Frontier is an unbounded FIFO of pending crawl URLs with join-based
// termination detection. Enqueue never blocks; Dequeue blocks until an
// item or sentinel arrives. Every dequeued item must be balanced by one
// MarkDone call, and Join returns only once the queue is empty and no
// dequeued item is still in flight.
type Frontier struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	idle     *sync.Cond
	items    []frontierItem
	inflight int
}

// NewFrontier returns an empty frontier.
func NewFrontier() *Frontier {
	f := &Frontier{}
	f.notEmpty = sync.NewCond(&f.mu)
	f.idle = sync.NewCond(&f.mu)
	return f
}

// Enqueue appends url to the tail of the queue.
func (f *Frontier) Enqueue(url string) {
	f.mu.Lock()
	f.items = append(f.items, frontierItem{url: url})
	f.mu.Unlock()
	f.notEmpty.Signal()
}

// EnqueueStop appends one shutdown sentinel. The dequeuing worker must
// still call MarkDone for it.
func (f *Frontier) EnqueueStop() {
	f.mu.Lock()
	f.items = append(f.items, frontierItem{stop: true})
	f.mu.Unlock()
	f.notEmpty.Signal()
}

// Dequeue blocks until an item is available and returns it. The second
// return value is false when the item is a shutdown sentinel.
func (f *Frontier) Dequeue() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.items) == 0 {
		f.notEmpty.Wait()
	}
	item := f.items[0]
	f.items = f.items[1:]
	f.inflight++
	return item.url, !item.stop
}

// MarkDone records completion of one previously dequeued item. Callers
// must pair every Dequeue with exactly one MarkDone, sentinels included.
func (f *Frontier) MarkDone() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inflight == 0 {
		panic("crawler: MarkDone called more times than Dequeue")
	}
	f.inflight--
	if f.inflight == 0 && len(f.items) == 0 {
		f.idle.Broadcast()
	}
}

// Join blocks until the queue is empty and every dequeued item has been
// marked done. At that point no item is queued, being processed, or
// about to enqueue follow-on work, so the crawl is complete.
func (f *Frontier) Join() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.items) > 0 || f.inflight > 0 {
		f.idle.Wait()
	}
}

// Len reports the number of queued items. Intended for tests and logs.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}
