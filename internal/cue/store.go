package cue

import "sync"

// Store is the row-indexed cue lookup used by playback and trigger
// resolution. Rows are zero-based positions in the cue list.
type Store interface {
	CueAt(row int) (Cue, bool)
	IsValidRow(row int) bool
	RowForID(id string) int
	All() []Cue
}

// List is an in-memory Store.
//
// Thread Safety: all methods are safe for concurrent use.
type List struct {
	mu   sync.RWMutex
	cues []Cue
	rows map[string]int
}

// NewList creates a list holding a copy of cues.
func NewList(cues []Cue) *List {
	l := &List{}
	l.Replace(cues)
	return l
}

// Replace swaps the whole cue list, as on project load.
func (l *List) Replace(cues []Cue) {
	copied := make([]Cue, len(cues))
	copy(copied, cues)
	rows := make(map[string]int, len(copied))
	for i, c := range copied {
		if c.ID == "" {
			continue
		}
		if _, exists := rows[c.ID]; !exists {
			rows[c.ID] = i
		}
	}

	l.mu.Lock()
	l.cues = copied
	l.rows = rows
	l.mu.Unlock()
}

// CueAt returns the cue at row.
func (l *List) CueAt(row int) (Cue, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if row < 0 || row >= len(l.cues) {
		return Cue{}, false
	}
	return l.cues[row], true
}

// IsValidRow reports whether row addresses a cue.
func (l *List) IsValidRow(row int) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return row >= 0 && row < len(l.cues)
}

// RowForID returns the row of the cue with the given id, or -1.
func (l *List) RowForID(id string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if row, ok := l.rows[id]; ok {
		return row
	}
	return Unbound
}

// All returns a copy of every cue in row order.
func (l *List) All() []Cue {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Cue, len(l.cues))
	copy(out, l.cues)
	return out
}

// Len returns the number of cues.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.cues)
}
