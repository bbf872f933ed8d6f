package timer

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Listener receives change notifications from a Manager. Any field may be nil.
// Callbacks run synchronously after the triggering operation has released the
// Manager's lock, in the order the changes happened, and get snapshots.
type Listener struct {
	OnTimerUpdate   func(Timer)
	OnTimerFinished func(Timer)
	OnTimersChanged func()
}

// Changes describes a partial update; nil fields are left as they are.
type Changes struct {
	Name            *string
	DurationSeconds *int
	Color           *string
}

// Option configures a Manager.
type Option func(*Manager)

// WithNow sets the clock used to stamp CreatedAt.
func WithNow(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDFunc sets the generator for new timer IDs.
func WithIDFunc(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// Manager owns the timer collection. All mutation goes through it and is
// serialized by one mutex, so at most one timer is ever running and
// positions always form 0..N-1.
type Manager struct {
	mu       sync.Mutex
	timers   map[string]*Timer
	listener Listener

	now   func() time.Time
	newID func() string
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		timers: make(map[string]*Timer),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetListener replaces the registered listener.
func (m *Manager) SetListener(l Listener) {
	m.mu.Lock()
	m.listener = l
	m.mu.Unlock()
}

type eventKind int

const (
	kindUpdate eventKind = iota
	kindFinished
	kindChanged
)

type event struct {
	kind  eventKind
	timer Timer
}

// commit releases the lock and delivers the queued events.
func (m *Manager) commit(events []event) {
	l := m.listener
	m.mu.Unlock()

	for _, ev := range events {
		switch ev.kind {
		case kindUpdate:
			if l.OnTimerUpdate != nil {
				l.OnTimerUpdate(ev.timer)
			}
		case kindFinished:
			if l.OnTimerFinished != nil {
				l.OnTimerFinished(ev.timer)
			}
		case kindChanged:
			if l.OnTimersChanged != nil {
				l.OnTimersChanged()
			}
		}
	}
}

func updated(t *Timer) event  { return event{kind: kindUpdate, timer: *t} }
func finished(t *Timer) event { return event{kind: kindFinished, timer: *t} }
func changed() event          { return event{kind: kindChanged} }

// Add creates a stopped timer at the end of the display order.
func (m *Manager) Add(name string, durationSeconds int, color string) (Timer, error) {
	if durationSeconds <= 0 {
		return Timer{}, fmt.Errorf("add timer: %w", ErrInvalidDuration)
	}
	name, ok := cleanName(name)
	if !ok {
		return Timer{}, fmt.Errorf("add timer: %w", ErrInvalidName)
	}

	m.mu.Lock()
	t := &Timer{
		ID:               m.uniqueID(),
		Name:             name,
		DurationSeconds:  durationSeconds,
		RemainingSeconds: durationSeconds,
		Color:            color,
		Status:           StatusStopped,
		CreatedAt:        m.now(),
		Position:         len(m.timers),
	}
	m.timers[t.ID] = t
	snapshot := *t
	m.commit([]event{changed()})
	return snapshot, nil
}

// Remove deletes a timer and closes the gap in the positions.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	if _, ok := m.timers[id]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("remove timer %q: %w", id, ErrNotFound)
	}
	delete(m.timers, id)
	resequence(m.sorted())
	m.commit([]event{changed()})
	return nil
}

// Get returns a snapshot of the timer with the given id.
func (m *Manager) Get(id string) (Timer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.timers[id]
	if !ok {
		return Timer{}, false
	}
	return *t, true
}

// Running returns the running timer, if any.
func (m *Manager) Running() (Timer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t := m.running(); t != nil {
		return *t, true
	}
	return Timer{}, false
}

func (m *Manager) RunningCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if t.IsRunning() {
			n++
		}
	}
	return n
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Timers returns snapshots of every timer in display order.
func (m *Manager) Timers() []Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	sorted := m.sorted()
	out := make([]Timer, len(sorted))
	for i, t := range sorted {
		out[i] = *t
	}
	return out
}

// Start runs the timer. A different timer that is running gets paused first,
// and its update is delivered before the update for this one.
func (m *Manager) Start(id string) error {
	return m.activate(id, (*Timer).Start, "start")
}

func (m *Manager) Pause(id string) error {
	return m.apply(id, (*Timer).Pause, "pause")
}

// Resume continues a paused timer, pausing whichever other timer is running.
func (m *Manager) Resume(id string) error {
	return m.activate(id, (*Timer).Resume, "resume")
}

func (m *Manager) Reset(id string) error {
	return m.apply(id, (*Timer).Reset, "reset")
}

func (m *Manager) activate(id string, transition func(*Timer), op string) error {
	m.mu.Lock()
	t, ok := m.timers[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%s timer %q: %w", op, id, ErrNotFound)
	}
	var events []event
	if other := m.running(); other != nil && other.ID != id {
		other.Pause()
		events = append(events, updated(other))
	}
	transition(t)
	events = append(events, updated(t))
	m.commit(events)
	return nil
}

func (m *Manager) apply(id string, transition func(*Timer), op string) error {
	m.mu.Lock()
	t, ok := m.timers[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%s timer %q: %w", op, id, ErrNotFound)
	}
	transition(t)
	m.commit([]event{updated(t)})
	return nil
}

// Update edits a timer. A new duration always restarts the countdown from
// the full duration, whatever the current status.
func (m *Manager) Update(id string, c Changes) error {
	var name string
	if c.Name != nil {
		var ok bool
		if name, ok = cleanName(*c.Name); !ok {
			return fmt.Errorf("update timer %q: %w", id, ErrInvalidName)
		}
	}
	if c.DurationSeconds != nil && *c.DurationSeconds <= 0 {
		return fmt.Errorf("update timer %q: %w", id, ErrInvalidDuration)
	}

	m.mu.Lock()
	t, ok := m.timers[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("update timer %q: %w", id, ErrNotFound)
	}
	if c.Name != nil {
		t.Name = name
	}
	if c.DurationSeconds != nil {
		t.DurationSeconds = *c.DurationSeconds
		t.RemainingSeconds = *c.DurationSeconds
	}
	if c.Color != nil {
		t.Color = *c.Color
	}
	m.commit([]event{updated(t), changed()})
	return nil
}

// Tick advances every running timer by one second. It is meant to be called
// once per elapsed second by an external clock.
func (m *Manager) Tick() {
	m.mu.Lock()
	var events []event
	for _, t := range m.sorted() {
		if !t.IsRunning() {
			continue
		}
		if t.Tick() {
			events = append(events, finished(t))
		} else {
			events = append(events, updated(t))
		}
	}
	m.commit(events)
}

// Load replaces the whole collection, typically with persisted snapshots.
// The input is normalized so that every invariant holds afterwards.
func (m *Manager) Load(timers []Timer) {
	m.mu.Lock()
	m.timers = make(map[string]*Timer, len(timers))
	for _, t := range m.normalize(timers) {
		m.timers[t.ID] = t
	}
	m.commit([]event{changed()})
}

// Reorder moves the timer at display index oldIndex to newIndex and renumbers
// every position.
func (m *Manager) Reorder(oldIndex, newIndex int) error {
	m.mu.Lock()
	n := len(m.timers)
	if oldIndex < 0 || newIndex < 0 || oldIndex == newIndex || oldIndex >= n || newIndex >= n {
		m.mu.Unlock()
		return fmt.Errorf("reorder %d -> %d of %d: %w", oldIndex, newIndex, n, ErrInvalidReorder)
	}
	resequence(move(m.sorted(), oldIndex, newIndex))
	m.commit([]event{changed()})
	return nil
}

func (m *Manager) running() *Timer {
	for _, t := range m.sorted() {
		if t.IsRunning() {
			return t
		}
	}
	return nil
}

func (m *Manager) uniqueID() string {
	for {
		id := m.newID()
		if _, taken := m.timers[id]; !taken && id != "" {
			return id
		}
	}
}
