package dashboard

import (
	"sync"

	"github.com/uptimestars/starsctl/internal/aggregate"
)

// DefaultHistorySize is the number of list loads remembered for the trend line.
const DefaultHistorySize = 60

// History remembers the status counts of recent list loads in a ring buffer,
// so the header can show how the number of down monitors moved.
type History struct {
	mu    sync.RWMutex
	data  []aggregate.Stats
	head  int
	count int
}

// NewHistory creates a history holding up to size samples.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{data: make([]aggregate.Stats, size)}
}

// Push records one sample, overwriting the oldest when full.
func (h *History) Push(s aggregate.Stats) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.data[h.head] = s
	h.head = (h.head + 1) % len(h.data)
	if h.count < len(h.data) {
		h.count++
	}
}

// Len returns the number of samples held.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Series returns the count of status per sample, oldest first.
func (h *History) Series(status aggregate.Status) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]float64, h.count)
	start := (h.head - h.count + len(h.data)) % len(h.data)
	for i := 0; i < h.count; i++ {
		out[i] = float64(h.data[(start+i)%len(h.data)].Count(status))
	}
	return out
}
