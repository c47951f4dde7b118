package audio

import "sync"

// LevelRing is a bounded history of loudness values feeding the waveform.
// One writer (the pipe reader goroutine) and any number of readers (the UI
// tick) share it; readers always get a copy, never the backing slice.
type LevelRing struct {
	mu       sync.Mutex
	levels   []float64
	capacity int
	current  float64
}

// NewLevelRing creates a ring holding at most capacity values.
func NewLevelRing(capacity int) *LevelRing {
	if capacity <= 0 {
		capacity = 1
	}
	return &LevelRing{
		levels:   make([]float64, 0, capacity),
		capacity: capacity,
	}
}

// Push appends one level, evicting the oldest value when full. The input
// is clamped to [0, 1].
func (r *LevelRing) Push(level float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.push(clamp01(level))
}

// PushBatch appends several levels under one lock acquisition. Used when a
// large pipe read crosses the accumulation threshold more than once.
func (r *LevelRing) PushBatch(levels []float64) {
	if len(levels) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range levels {
		r.push(clamp01(l))
	}
}

func (r *LevelRing) push(level float64) {
	r.levels = append(r.levels, level)
	if over := len(r.levels) - r.capacity; over > 0 {
		r.levels = append(r.levels[:0], r.levels[over:]...)
	}
	r.current = level
}

// Snapshot returns the most recent count levels, oldest first, left-padded
// with zeros when fewer exist. The result is always exactly count long.
func (r *LevelRing) Snapshot(count int) []float64 {
	if count <= 0 {
		return nil
	}

	out := make([]float64, count)

	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.levels)
	if n > count {
		n = count
	}
	copy(out[count-n:], r.levels[len(r.levels)-n:])
	return out
}

// Level returns the most recently pushed value.
func (r *LevelRing) Level() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Len returns the number of stored levels.
func (r *LevelRing) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.levels)
}

// Clear drops all history and resets the current level to zero.
func (r *LevelRing) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels = r.levels[:0]
	r.current = 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
