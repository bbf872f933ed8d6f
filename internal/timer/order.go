package timer

import (
	"sort"
	"strings"
)

// sorted returns the timers in display order. Ties, which only a broken
// collection can have, fall back to creation time and then id.
func (m *Manager) sorted() []*Timer {
	out := make([]*Timer, 0, len(m.timers))
	for _, t := range m.timers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

// resequence assigns position i to the i-th element.
func resequence(seq []*Timer) {
	for i, t := range seq {
		t.Position = i
	}
}

// move removes the element at from and inserts it at to in the shortened
// sequence. Both indices must be in range.
func move(seq []*Timer, from, to int) []*Timer {
	moved := seq[from]
	seq = append(seq[:from], seq[from+1:]...)
	seq = append(seq, nil)
	copy(seq[to+1:], seq[to:])
	seq[to] = moved
	return seq
}

// normalize copies loaded snapshots and repairs anything that would break an
// invariant: ids, names, durations, remaining time, status, and positions.
func (m *Manager) normalize(in []Timer) []*Timer {
	seen := make(map[string]bool, len(in))
	out := make([]*Timer, 0, len(in))
	for _, src := range in {
		t := src
		t.ID = strings.TrimSpace(t.ID)
		for t.ID == "" || seen[t.ID] {
			t.ID = m.newID()
		}
		seen[t.ID] = true

		if name, ok := cleanName(t.Name); ok {
			t.Name = name
		} else {
			t.Name = DefaultName
		}
		if t.DurationSeconds <= 0 {
			t.DurationSeconds = DefaultDurationSeconds
		}
		if t.RemainingSeconds < 0 {
			t.RemainingSeconds = 0
		}
		if t.RemainingSeconds > t.DurationSeconds {
			t.RemainingSeconds = t.DurationSeconds
		}
		if !t.Status.valid() {
			t.Status = StatusStopped
		}
		if t.Status == StatusRunning && t.RemainingSeconds == 0 {
			t.Status = StatusStopped
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = m.now()
		}
		out = append(out, &t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	resequence(out)

	running := false
	for _, t := range out {
		if !t.IsRunning() {
			continue
		}
		if running {
			t.Status = StatusPaused
		}
		running = true
	}
	return out
}
