package notify

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/wav"
)

// fakeSpeaker swaps the speaker for a recorder for the duration of a test.
func fakeSpeaker(t *testing.T) *[]beep.Streamer {
	t.Helper()
	var played []beep.Streamer
	origInit, origPlay := speakerInit, speakerPlay
	speakerInit = func(beep.SampleRate, int) error { return nil }
	speakerPlay = func(s beep.Streamer) { played = append(played, s) }
	t.Cleanup(func() {
		speakerInit, speakerPlay = origInit, origPlay
	})
	return &played
}

func drain(s beep.Streamer) int {
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			return total
		}
	}
}

// ============================================================
// Bell / Multi / Func
// ============================================================

func TestBell(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf)
	if err := b.TimerFinished("Tea"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\a" {
		t.Fatalf("bell wrote %q, want BEL", buf.String())
	}
}

func TestMulti(t *testing.T) {
	var got []string
	record := func(tag string) Notifier {
		return Func(func(name string) error {
			got = append(got, tag+":"+name)
			return nil
		})
	}
	boom := errors.New("boom")
	failing := Func(func(string) error { return boom })

	m := Multi{record("a"), nil, failing, record("b")}
	err := m.TimerFinished("Tea")
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(got) != 2 || got[0] != "a:Tea" || got[1] != "b:Tea" {
		t.Fatalf("every notifier should be called, got %v", got)
	}
}

func TestMultiEmpty(t *testing.T) {
	if err := (Multi{}).TimerFinished("x"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

// ============================================================
// Sound
// ============================================================

func TestSoundSynthesized(t *testing.T) {
	played := fakeSpeaker(t)
	s := NewSound("", 0.5)

	if err := s.TimerFinished("Tea"); err != nil {
		t.Fatal(err)
	}
	if len(*played) != 1 {
		t.Fatalf("expected 1 playback, got %d", len(*played))
	}
	vol, ok := (*played)[0].(*effects.Volume)
	if !ok {
		t.Fatalf("expected *effects.Volume, got %T", (*played)[0])
	}
	if vol.Volume != -1 || vol.Base != 2 || vol.Silent {
		t.Fatalf("unexpected volume settings: %+v", vol)
	}

	want := 2*toneSampleRate.N(toneLength) + toneSampleRate.N(toneGap)
	if n := drain(vol); n != want {
		t.Fatalf("chime length = %d samples, want %d", n, want)
	}

	// Buffer is reused, audio is initialized once
	s.TimerFinished("Tea")
	if len(*played) != 2 {
		t.Fatalf("expected 2 playbacks, got %d", len(*played))
	}
}

func TestSoundSilent(t *testing.T) {
	played := fakeSpeaker(t)

	muted := NewSound("", 0)
	muted.TimerFinished("x")

	disabled := NewSound("", 1)
	disabled.SetEnabled(false)
	disabled.TimerFinished("x")

	if len(*played) != 0 {
		t.Fatalf("expected no playback, got %d", len(*played))
	}
}

func TestSoundVolumeClamped(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.7, 0.7},
		{1, 1},
		{3, 1},
	}
	for _, tt := range tests {
		s := NewSound("", tt.in)
		if got := s.Volume(); got != tt.want {
			t.Errorf("NewSound(%v).Volume() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWithVolume(t *testing.T) {
	tests := []struct {
		v    float64
		want float64
	}{
		{1, 0},
		{0.5, -1},
		{0.25, -2},
	}
	for _, tt := range tests {
		got := withVolume(beep.Silence(1), tt.v)
		if math.Abs(got.Volume-tt.want) > 1e-9 {
			t.Errorf("withVolume(%v).Volume = %v, want %v", tt.v, got.Volume, tt.want)
		}
	}
}

func TestSoundWavFile(t *testing.T) {
	played := fakeSpeaker(t)

	format := beep.Format{SampleRate: 22050, NumChannels: 1, Precision: 2}
	path := filepath.Join(t.TempDir(), "ding.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	length := format.SampleRate.N(100 * time.Millisecond)
	if err := wav.Encode(f, tone(format.SampleRate, 440, 100*time.Millisecond), format); err != nil {
		t.Fatal(err)
	}
	f.Close()

	var initRate beep.SampleRate
	speakerInit = func(sr beep.SampleRate, _ int) error {
		initRate = sr
		return nil
	}

	s := NewSound(path, 1)
	if err := s.TimerFinished("x"); err != nil {
		t.Fatal(err)
	}
	if initRate != 22050 {
		t.Fatalf("speaker initialized at %d, want 22050", initRate)
	}
	if n := drain((*played)[0]); n != length {
		t.Fatalf("played %d samples, want %d", n, length)
	}
}

func TestSoundMissingFile(t *testing.T) {
	fakeSpeaker(t)
	s := NewSound(filepath.Join(t.TempDir(), "nope.wav"), 1)
	if err := s.TimerFinished("x"); err == nil {
		t.Fatal("expected error for missing file")
	}
	// The failure is remembered
	if err := s.TimerFinished("x"); err == nil {
		t.Fatal("expected error on second call")
	}
}

func TestSoundSpeakerInitError(t *testing.T) {
	played := fakeSpeaker(t)
	speakerInit = func(beep.SampleRate, int) error { return errors.New("no device") }

	s := NewSound("", 1)
	if err := s.TimerFinished("x"); err == nil {
		t.Fatal("expected error when the speaker cannot be opened")
	}
	if len(*played) != 0 {
		t.Fatal("nothing should be played")
	}
}

// ============================================================
// Configured
// ============================================================

type fakeSettings map[string]any

func (f fakeSettings) GetBool(key string, fallback bool) bool {
	if v, ok := f[key].(bool); ok {
		return v
	}
	return fallback
}

func (f fakeSettings) GetFloat(key string, fallback float64) float64 {
	if v, ok := f[key].(float64); ok {
		return v
	}
	return fallback
}

func TestConfigured(t *testing.T) {
	played := fakeSpeaker(t)
	var buf bytes.Buffer
	settings := fakeSettings{"bell_enabled": true, "sound_enabled": true, "volume": 0.25}
	sound := NewSound("", 1)
	c := NewConfigured(settings, NewBell(&buf), sound)

	if err := c.TimerFinished("Tea"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\a" {
		t.Fatalf("bell should ring, got %q", buf.String())
	}
	if len(*played) != 1 {
		t.Fatalf("expected 1 playback, got %d", len(*played))
	}
	if sound.Volume() != 0.25 {
		t.Fatalf("volume = %v, want 0.25 from settings", sound.Volume())
	}

	// Settings are read on every call
	settings["bell_enabled"] = false
	settings["sound_enabled"] = false
	c.TimerFinished("Tea")
	if buf.Len() != 1 || len(*played) != 1 {
		t.Fatalf("disabled alerts should stay quiet: bell=%d plays=%d", buf.Len(), len(*played))
	}
}

func TestConfiguredDefaults(t *testing.T) {
	played := fakeSpeaker(t)
	var buf bytes.Buffer
	sound := NewSound("", 1)
	c := NewConfigured(fakeSettings{}, NewBell(&buf), sound)

	c.TimerFinished("x")
	if buf.Len() != 1 || len(*played) != 1 {
		t.Fatal("bell and sound should default to on")
	}
	if sound.Volume() != 0.7 {
		t.Fatalf("volume = %v, want default 0.7", sound.Volume())
	}
}

func TestConfiguredWithoutSound(t *testing.T) {
	var buf bytes.Buffer
	c := NewConfigured(fakeSettings{}, NewBell(&buf), nil)
	if err := c.TimerFinished("x"); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 1 {
		t.Fatal("bell should ring")
	}
}
