package run

import "math/rand"

// History remembers the most recent values a correlator emitted, bounded by
// capacity.
type History struct {
	capacity int
	values   []interface{}
	next     int
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 64
	}
	return &History{capacity: capacity}
}

func (h *History) Add(v interface{}) {
	if len(h.values) < h.capacity {
		h.values = append(h.values, v)
		return
	}
	h.values[h.next] = v
	h.next = (h.next + 1) % h.capacity
}

func (h *History) Len() int { return len(h.values) }

func (h *History) Pick(rng *rand.Rand) (interface{}, bool) {
	if len(h.values) == 0 {
		return nil, false
	}
	return h.values[rng.Intn(len(h.values))], true
}
