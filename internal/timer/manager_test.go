package timer

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"
)

// recorder logs listener calls as "update:<name>:<status>", "finished:<name>"
// and "changed".
type recorder struct {
	mu  sync.Mutex
	log []string
}

func (r *recorder) listener() Listener {
	return Listener{
		OnTimerUpdate: func(t Timer) {
			r.add(fmt.Sprintf("update:%s:%s", t.Name, t.Status))
		},
		OnTimerFinished: func(t Timer) {
			r.add("finished:" + t.Name)
		},
		OnTimersChanged: func() {
			r.add("changed")
		},
	}
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	r.log = append(r.log, s)
	r.mu.Unlock()
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.log = nil
	r.mu.Unlock()
}

func (r *recorder) entries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.log...)
}

func newTestManager(t *testing.T) (*Manager, *recorder) {
	t.Helper()
	n := 0
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	m := NewManager(
		WithIDFunc(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
		WithNow(func() time.Time { return base.Add(time.Duration(n) * time.Second) }),
	)
	rec := &recorder{}
	m.SetListener(rec.listener())
	return m, rec
}

func mustAdd(t *testing.T, m *Manager, name string, duration int) Timer {
	t.Helper()
	tm, err := m.Add(name, duration, DefaultColor)
	if err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	return tm
}

func names(ts []Timer) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Name
	}
	return out
}

// checkInvariants fails the test if any collection invariant is broken.
func checkInvariants(t *testing.T, m *Manager) {
	t.Helper()
	timers := m.Timers()
	running := 0
	for i, tm := range timers {
		if tm.Position != i {
			t.Fatalf("position of %s = %d, want %d", tm.Name, tm.Position, i)
		}
		if tm.RemainingSeconds < 0 || tm.RemainingSeconds > tm.DurationSeconds {
			t.Fatalf("%s remaining %d outside [0,%d]", tm.Name, tm.RemainingSeconds, tm.DurationSeconds)
		}
		if tm.IsRunning() {
			running++
			if tm.RemainingSeconds == 0 {
				t.Fatalf("%s running with 0 remaining", tm.Name)
			}
		}
	}
	if running > 1 {
		t.Fatalf("%d timers running", running)
	}
}

// ============================================================
// Add / Remove / Get
// ============================================================

func TestManagerAdd(t *testing.T) {
	m, rec := newTestManager(t)
	a := mustAdd(t, m, "A", 90)

	if a.ID == "" {
		t.Fatal("expected an id")
	}
	if a.RemainingSeconds != 90 || a.Status != StatusStopped || a.Position != 0 {
		t.Fatalf("unexpected new timer: %+v", a)
	}
	if a.CreatedAt.IsZero() {
		t.Fatal("CreatedAt should be set")
	}

	b := mustAdd(t, m, "B", 30)
	if b.Position != 1 {
		t.Fatalf("second timer position = %d, want 1", b.Position)
	}
	if !reflect.DeepEqual(rec.entries(), []string{"changed", "changed"}) {
		t.Fatalf("log = %v", rec.entries())
	}
	checkInvariants(t, m)
}

func TestManagerAddInvalid(t *testing.T) {
	m, rec := newTestManager(t)

	for _, d := range []int{0, -1} {
		if _, err := m.Add("A", d, DefaultColor); !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("Add duration %d: err = %v, want ErrInvalidDuration", d, err)
		}
	}
	if _, err := m.Add("   ", 10, DefaultColor); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("err = %v, want ErrInvalidName", err)
	}
	if m.Len() != 0 {
		t.Fatal("failed adds should not create timers")
	}
	if len(rec.entries()) != 0 {
		t.Fatalf("failed adds should not notify: %v", rec.entries())
	}
}

func TestManagerAddTrimsName(t *testing.T) {
	m, _ := newTestManager(t)
	a := mustAdd(t, m, "  Deep work  ", 10)
	if a.Name != "Deep work" {
		t.Fatalf("name = %q", a.Name)
	}
}

func TestManagerRemove(t *testing.T) {
	m, rec := newTestManager(t)
	mustAdd(t, m, "A", 10)
	b := mustAdd(t, m, "B", 10)
	mustAdd(t, m, "C", 10)
	mustAdd(t, m, "D", 10)
	rec.reset()

	if err := m.Remove(b.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Get(b.ID); ok {
		t.Fatal("removed timer still present")
	}
	got := m.Timers()
	if !reflect.DeepEqual(names(got), []string{"A", "C", "D"}) {
		t.Fatalf("order = %v", names(got))
	}
	checkInvariants(t, m)
	if !reflect.DeepEqual(rec.entries(), []string{"changed"}) {
		t.Fatalf("log = %v", rec.entries())
	}
}

func TestManagerRemoveUnknown(t *testing.T) {
	m, rec := newTestManager(t)
	mustAdd(t, m, "A", 10)
	rec.reset()

	if err := m.Remove("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if m.Len() != 1 || len(rec.entries()) != 0 {
		t.Fatal("unknown remove should be a silent no-op")
	}
}

func TestManagerRemoveKeepsRelativeOrderAfterReorder(t *testing.T) {
	m, _ := newTestManager(t)
	a := mustAdd(t, m, "A", 10)
	mustAdd(t, m, "B", 10)
	mustAdd(t, m, "C", 10)

	// A moves to the end: B, C, A
	if err := m.Reorder(0, 2); err != nil {
		t.Fatal(err)
	}
	ts := m.Timers()
	if err := m.Remove(ts[0].ID); err != nil {
		t.Fatal(err)
	}
	got := m.Timers()
	if !reflect.DeepEqual(names(got), []string{"C", "A"}) {
		t.Fatalf("order = %v", names(got))
	}
	if tm, _ := m.Get(a.ID); tm.Position != 1 {
		t.Fatalf("A position = %d, want 1", tm.Position)
	}
}

func TestManagerGetReturnsSnapshot(t *testing.T) {
	m, _ := newTestManager(t)
	a := mustAdd(t, m, "A", 10)

	snap, ok := m.Get(a.ID)
	if !ok {
		t.Fatal("timer not found")
	}
	snap.Name = "mutated"
	snap.Start()

	fresh, _ := m.Get(a.ID)
	if fresh.Name != "A" || fresh.Status != StatusStopped {
		t.Fatal("mutating a snapshot must not change the manager's timer")
	}
}

// ============================================================
// Single running invariant
// ============================================================

func TestManagerStartPausesOther(t *testing.T) {
	m, rec := newTestManager(t)
	a := mustAdd(t, m, "A", 60)
	b := mustAdd(t, m, "B", 60)
	rec.reset()

	if err := m.Start(a.ID); err != nil {
		t.Fatal(err)
	}
	if err := m.Start(b.ID); err != nil {
		t.Fatal(err)
	}

	ga, _ := m.Get(a.ID)
	gb, _ := m.Get(b.ID)
	if ga.Status != StatusPaused || gb.Status != StatusRunning {
		t.Fatalf("A=%s B=%s, want paused/running", ga.Status, gb.Status)
	}
	want := []string{"update:A:running", "update:A:paused", "update:B:running"}
	if !reflect.DeepEqual(rec.entries(), want) {
		t.Fatalf("log = %v, want %v", rec.entries(), want)
	}
	if m.RunningCount() != 1 {
		t.Fatalf("running count = %d", m.RunningCount())
	}
	r, ok := m.Running()
	if !ok || r.ID != b.ID {
		t.Fatal("Running should return B")
	}
}

func TestManagerStartSameTimerTwice(t *testing.T) {
	m, rec := newTestManager(t)
	a := mustAdd(t, m, "A", 60)
	rec.reset()

	m.Start(a.ID)
	m.Start(a.ID)
	want := []string{"update:A:running", "update:A:running"}
	if !reflect.DeepEqual(rec.entries(), want) {
		t.Fatalf("log = %v, want %v", rec.entries(), want)
	}
}

func TestManagerResumePausesOther(t *testing.T) {
	m, rec := newTestManager(t)
	a := mustAdd(t, m, "A", 60)
	b := mustAdd(t, m, "B", 60)

	m.Start(a.ID)
	m.Pause(a.ID)
	m.Start(b.ID)
	rec.reset()

	if err := m.Resume(a.ID); err != nil {
		t.Fatal(err)
	}
	want := []string{"update:B:paused", "update:A:running"}
	if !reflect.DeepEqual(rec.entries(), want) {
		t.Fatalf("log = %v, want %v", rec.entries(), want)
	}
	checkInvariants(t, m)
}

func TestManagerObserversNeverSeeTwoRunning(t *testing.T) {
	m, _ := newTestManager(t)
	a := mustAdd(t, m, "A", 60)
	b := mustAdd(t, m, "B", 60)

	var seen []int
	m.SetListener(Listener{
		OnTimerUpdate: func(Timer) { seen = append(seen, m.RunningCount()) },
	})
	m.Start(a.ID)
	m.Start(b.ID)
	for _, n := range seen {
		if n > 1 {
			t.Fatalf("observer saw %d running timers", n)
		}
	}
}

func TestManagerCommandsUnknownID(t *testing.T) {
	m, rec := newTestManager(t)
	ops := map[string]func(string) error{
		"start":  m.Start,
		"pause":  m.Pause,
		"resume": m.Resume,
		"reset":  m.Reset,
		"update": func(id string) error { return m.Update(id, Changes{}) },
	}
	for name, op := range ops {
		if err := op("missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("%s: err = %v, want ErrNotFound", name, err)
		}
	}
	if len(rec.entries()) != 0 {
		t.Fatalf("unknown ids should not notify: %v", rec.entries())
	}
}

func TestManagerPauseNotifiesEvenWhenNoop(t *testing.T) {
	m, rec := newTestManager(t)
	a := mustAdd(t, m, "A", 60)
	rec.reset()

	if err := m.Pause(a.ID); err != nil {
		t.Fatalf("pause of stopped timer should succeed: %v", err)
	}
	if err := m.Resume(a.ID); err != nil {
		t.Fatalf("resume of stopped timer should succeed: %v", err)
	}
	want := []string{"update:A:stopped", "update:A:stopped"}
	if !reflect.DeepEqual(rec.entries(), want) {
		t.Fatalf("log = %v, want %v", rec.entries(), want)
	}
}

func TestManagerReset(t *testing.T) {
	m, rec := newTestManager(t)
	a := mustAdd(t, m, "A", 60)
	m.Start(a.ID)
	m.Tick()
	m.Tick()
	rec.reset()

	if err := m.Reset(a.ID); err != nil {
		t.Fatal(err)
	}
	got, _ := m.Get(a.ID)
	if got.RemainingSeconds != 60 || got.Status != StatusStopped {
		t.Fatalf("after reset: %+v", got)
	}
	if !reflect.DeepEqual(rec.entries(), []string{"update:A:stopped"}) {
		t.Fatalf("log = %v", rec.entries())
	}
}

// ============================================================
// Update
// ============================================================

func TestManagerUpdate(t *testing.T) {
	m, rec := newTestManager(t)
	a := mustAdd(t, m, "A", 60)
	m.Start(a.ID)
	m.Tick()
	rec.reset()

	name, dur, color := "Renamed", 120, "#2196F3"
	if err := m.Update(a.ID, Changes{Name: &name, DurationSeconds: &dur, Color: &color}); err != nil {
		t.Fatal(err)
	}
	got, _ := m.Get(a.ID)
	if got.Name != "Renamed" || got.DurationSeconds != 120 || got.RemainingSeconds != 120 || got.Color != "#2196F3" {
		t.Fatalf("after update: %+v", got)
	}
	if got.Status != StatusRunning {
		t.Fatalf("update should not change status, got %s", got.Status)
	}
	want := []string{"update:Renamed:running", "changed"}
	if !reflect.DeepEqual(rec.entries(), want) {
		t.Fatalf("log = %v, want %v", rec.entries(), want)
	}
}

func TestManagerUpdatePartial(t *testing.T) {
	m, _ := newTestManager(t)
	a := mustAdd(t, m, "A", 60)
	m.Start(a.ID)
	m.Tick()

	color := "#FF9800"
	if err := m.Update(a.ID, Changes{Color: &color}); err != nil {
		t.Fatal(err)
	}
	got, _ := m.Get(a.ID)
	if got.Name != "A" || got.RemainingSeconds != 59 {
		t.Fatalf("color-only update touched other fields: %+v", got)
	}
}

func TestManagerUpdateInvalid(t *testing.T) {
	m, rec := newTestManager(t)
	a := mustAdd(t, m, "A", 60)
	rec.reset()

	zero, blank := 0, " "
	if err := m.Update(a.ID, Changes{DurationSeconds: &zero}); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("err = %v, want ErrInvalidDuration", err)
	}
	if err := m.Update(a.ID, Changes{Name: &blank}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("err = %v, want ErrInvalidName", err)
	}
	got, _ := m.Get(a.ID)
	if got.DurationSeconds != 60 || got.Name != "A" {
		t.Fatalf("invalid update mutated timer: %+v", got)
	}
	if len(rec.entries()) != 0 {
		t.Fatalf("invalid update notified: %v", rec.entries())
	}
}

// ============================================================
// Tick
// ============================================================

func TestManagerTick(t *testing.T) {
	m, rec := newTestManager(t)
	a := mustAdd(t, m, "A", 90)
	mustAdd(t, m, "B", 90)
	m.Start(a.ID)
	rec.reset()

	m.Tick()
	m.Tick()
	m.Tick()

	got, _ := m.Get(a.ID)
	if got.RemainingSeconds != 87 || got.FormattedRemaining() != "00:01:27" {
		t.Fatalf("remaining = %d (%s)", got.RemainingSeconds, got.FormattedRemaining())
	}
	want := []string{"update:A:running", "update:A:running", "update:A:running"}
	if !reflect.DeepEqual(rec.entries(), want) {
		t.Fatalf("log = %v, want %v", rec.entries(), want)
	}
}

func TestManagerTickFinishes(t *testing.T) {
	m, rec := newTestManager(t)
	a := mustAdd(t, m, "A", 1)
	m.Start(a.ID)
	rec.reset()

	m.Tick()
	got, _ := m.Get(a.ID)
	if got.RemainingSeconds != 0 || got.Status != StatusStopped {
		t.Fatalf("after finish: %+v", got)
	}
	if !reflect.DeepEqual(rec.entries(), []string{"finished:A"}) {
		t.Fatalf("log = %v", rec.entries())
	}

	rec.reset()
	m.Tick()
	if len(rec.entries()) != 0 {
		t.Fatalf("tick after finish should do nothing: %v", rec.entries())
	}
	checkInvariants(t, m)
}

func TestManagerTickNothingRunning(t *testing.T) {
	m, rec := newTestManager(t)
	mustAdd(t, m, "A", 10)
	rec.reset()
	m.Tick()
	if len(rec.entries()) != 0 {
		t.Fatalf("log = %v", rec.entries())
	}
}

// ============================================================
// Reorder
// ============================================================

func TestManagerReorderExample(t *testing.T) {
	m, rec := newTestManager(t)
	a := mustAdd(t, m, "A", 10)
	mustAdd(t, m, "B", 10)
	mustAdd(t, m, "C", 10)
	rec.reset()

	if err := m.Reorder(0, 2); err != nil {
		t.Fatal(err)
	}
	got := m.Timers()
	if !reflect.DeepEqual(names(got), []string{"B", "C", "A"}) {
		t.Fatalf("order = %v", names(got))
	}
	for i, tm := range got {
		if tm.Position != i {
			t.Fatalf("%s position = %d, want %d", tm.Name, tm.Position, i)
		}
	}
	if ga, _ := m.Get(a.ID); ga.Position != 2 {
		t.Fatalf("A position = %d, want 2", ga.Position)
	}
	if !reflect.DeepEqual(rec.entries(), []string{"changed"}) {
		t.Fatalf("log = %v", rec.entries())
	}
}

func TestManagerReorderAllPairs(t *testing.T) {
	base := []string{"A", "B", "C", "D", "E"}
	for i := range base {
		for j := range base {
			if i == j {
				continue
			}
			m, _ := newTestManager(t)
			for _, n := range base {
				mustAdd(t, m, n, 10)
			}
			if err := m.Reorder(i, j); err != nil {
				t.Fatalf("Reorder(%d, %d): %v", i, j, err)
			}

			want := append([]string(nil), base...)
			moved := want[i]
			want = append(want[:i], want[i+1:]...)
			want = append(want[:j], append([]string{moved}, want[j:]...)...)

			if got := names(m.Timers()); !reflect.DeepEqual(got, want) {
				t.Errorf("Reorder(%d, %d) = %v, want %v", i, j, got, want)
			}
			checkInvariants(t, m)
		}
	}
}

func TestManagerReorderAdjacentSwaps(t *testing.T) {
	m, _ := newTestManager(t)
	mustAdd(t, m, "A", 10)
	mustAdd(t, m, "B", 10)
	mustAdd(t, m, "C", 10)

	m.Reorder(1, 2)
	if got := names(m.Timers()); !reflect.DeepEqual(got, []string{"A", "C", "B"}) {
		t.Fatalf("order = %v", got)
	}
	m.Reorder(1, 0)
	if got := names(m.Timers()); !reflect.DeepEqual(got, []string{"C", "A", "B"}) {
		t.Fatalf("order = %v", got)
	}
}

func TestManagerReorderInvalid(t *testing.T) {
	m, rec := newTestManager(t)
	mustAdd(t, m, "A", 10)
	mustAdd(t, m, "B", 10)
	mustAdd(t, m, "C", 10)
	before := m.Timers()
	rec.reset()

	tests := []struct{ from, to int }{
		{1, 1},
		{-1, 0},
		{0, -1},
		{3, 0},
		{0, 3},
		{10, 20},
	}
	for _, tt := range tests {
		if err := m.Reorder(tt.from, tt.to); !errors.Is(err, ErrInvalidReorder) {
			t.Errorf("Reorder(%d, %d) err = %v, want ErrInvalidReorder", tt.from, tt.to, err)
		}
	}
	if !reflect.DeepEqual(m.Timers(), before) {
		t.Fatal("invalid reorder mutated the collection")
	}
	if len(rec.entries()) != 0 {
		t.Fatalf("invalid reorder notified: %v", rec.entries())
	}
}

func TestManagerReorderEmpty(t *testing.T) {
	m, _ := newTestManager(t)
	if err := m.Reorder(0, 1); !errors.Is(err, ErrInvalidReorder) {
		t.Fatalf("err = %v", err)
	}
}

// ============================================================
// Load
// ============================================================

func TestManagerLoad(t *testing.T) {
	m, rec := newTestManager(t)
	mustAdd(t, m, "old", 10)
	rec.reset()

	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	m.Load([]Timer{
		{ID: "x", Name: "X", DurationSeconds: 60, RemainingSeconds: 30, Color: "#fff", Status: StatusPaused, CreatedAt: created, Position: 1},
		{ID: "y", Name: "Y", DurationSeconds: 60, RemainingSeconds: 60, Color: "#000", Status: StatusStopped, CreatedAt: created, Position: 0},
	})

	if m.Len() != 2 {
		t.Fatalf("len = %d, want 2", m.Len())
	}
	if got := names(m.Timers()); !reflect.DeepEqual(got, []string{"Y", "X"}) {
		t.Fatalf("order = %v", got)
	}
	x, _ := m.Get("x")
	if x.RemainingSeconds != 30 || x.Status != StatusPaused || !x.CreatedAt.Equal(created) {
		t.Fatalf("loaded timer altered: %+v", x)
	}
	if !reflect.DeepEqual(rec.entries(), []string{"changed"}) {
		t.Fatalf("log = %v", rec.entries())
	}
}

func TestManagerLoadNormalizes(t *testing.T) {
	m, _ := newTestManager(t)
	m.Load([]Timer{
		{ID: "a", Name: "A", DurationSeconds: 60, RemainingSeconds: 10, Status: StatusRunning, Position: 5},
		{ID: "a", Name: "dup", DurationSeconds: 60, RemainingSeconds: 70, Status: StatusRunning, Position: 5},
		{ID: "", Name: "  ", DurationSeconds: 0, RemainingSeconds: -3, Status: "weird", Position: 2},
		{ID: "z", Name: "Z", DurationSeconds: 30, RemainingSeconds: 0, Status: StatusRunning, Position: 9},
	})
	checkInvariants(t, m)

	got := m.Timers()
	if want := []string{DefaultName, "A", "dup", "Z"}; !reflect.DeepEqual(names(got), want) {
		t.Fatalf("order = %v, want %v", names(got), want)
	}

	blank := got[0]
	if blank.ID == "" || blank.DurationSeconds != DefaultDurationSeconds || blank.RemainingSeconds != 0 || blank.Status != StatusStopped {
		t.Fatalf("blank timer not repaired: %+v", blank)
	}
	if got[1].Status != StatusRunning {
		t.Fatalf("first running timer should keep running, got %s", got[1].Status)
	}
	dup := got[2]
	if dup.ID == "a" || dup.Status != StatusPaused || dup.RemainingSeconds != 60 {
		t.Fatalf("duplicate not repaired: %+v", dup)
	}
	if got[3].Status != StatusStopped {
		t.Fatalf("running timer with 0 left should be stopped, got %s", got[3].Status)
	}
}

func TestManagerLoadEmpty(t *testing.T) {
	m, _ := newTestManager(t)
	mustAdd(t, m, "A", 10)
	m.Load(nil)
	if m.Len() != 0 {
		t.Fatal("load of nil should clear the collection")
	}
	if _, ok := m.Running(); ok {
		t.Fatal("no timer should be running")
	}
}

func TestManagerLoadCopiesInput(t *testing.T) {
	m, _ := newTestManager(t)
	in := []Timer{{ID: "a", Name: "A", DurationSeconds: 10, RemainingSeconds: 10, Status: StatusStopped}}
	m.Load(in)
	in[0].Name = "changed"
	if got, _ := m.Get("a"); got.Name != "A" {
		t.Fatal("manager should not alias the loaded slice")
	}
}

// ============================================================
// Listener and concurrency
// ============================================================

func TestManagerListenerMayCallBack(t *testing.T) {
	m, _ := newTestManager(t)
	a := mustAdd(t, m, "A", 2)

	var restarted bool
	m.SetListener(Listener{
		OnTimerFinished: func(tm Timer) {
			// A finished listener that immediately re-arms the timer.
			m.Reset(tm.ID)
			restarted = m.Start(tm.ID) == nil
		},
	})
	m.Start(a.ID)
	m.Tick()
	m.Tick()

	got, _ := m.Get(a.ID)
	if !restarted || got.Status != StatusRunning || got.RemainingSeconds != 2 {
		t.Fatalf("listener callback did not apply: %+v", got)
	}
}

func TestManagerNilListener(t *testing.T) {
	m := NewManager()
	m.SetListener(Listener{})
	a, err := m.Add("A", 1, DefaultColor)
	if err != nil {
		t.Fatal(err)
	}
	m.Start(a.ID)
	m.Tick()
	if got, _ := m.Get(a.ID); !got.IsFinished() {
		t.Fatal("timer should have finished")
	}
}

func TestManagerDefaultIDsUnique(t *testing.T) {
	m := NewManager()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		tm, _ := m.Add("T", 10, DefaultColor)
		if seen[tm.ID] {
			t.Fatalf("duplicate id %s", tm.ID)
		}
		seen[tm.ID] = true
	}
}

func TestManagerConcurrentCommands(t *testing.T) {
	m := NewManager()
	var ids []string
	for i := 0; i < 8; i++ {
		tm, _ := m.Add(fmt.Sprintf("T%d", i), 1000, DefaultColor)
		ids = append(ids, tm.ID)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				id := ids[(g+i)%len(ids)]
				switch i % 5 {
				case 0:
					m.Start(id)
				case 1:
					m.Tick()
				case 2:
					m.Pause(id)
				case 3:
					m.Resume(id)
				case 4:
					m.Reorder(i%len(ids), (i+g)%len(ids))
				}
			}
		}(g)
	}
	wg.Wait()
	checkInvariants(t, m)
}

func TestManagerInvariantsUnderMixedSequence(t *testing.T) {
	m, _ := newTestManager(t)
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, mustAdd(t, m, fmt.Sprintf("T%d", i), 3+i).ID)
	}
	for step := 0; step < 300; step++ {
		id := ids[step%len(ids)]
		switch step % 7 {
		case 0:
			m.Start(id)
		case 1, 2:
			m.Tick()
		case 3:
			m.Pause(id)
		case 4:
			m.Resume(id)
		case 5:
			m.Reorder(step%5, (step/5)%5)
		case 6:
			if step%21 == 6 {
				m.Reset(id)
			}
		}
		checkInvariants(t, m)
	}
}
