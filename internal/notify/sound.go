package notify

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

const (
	toneSampleRate = beep.SampleRate(44100)
	toneFrequency  = 880.0
	toneLength     = 250 * time.Millisecond
	toneGap        = 120 * time.Millisecond
)

// Replaced in tests, where no audio device is available.
var (
	speakerInit = speaker.Init
	speakerPlay = func(s beep.Streamer) { speaker.Play(s) }
)

// Sound plays a short chime through the speaker. The chime is read from a
// wav file when one is configured, otherwise two tones are synthesized.
type Sound struct {
	path string

	mu      sync.Mutex
	volume  float64
	enabled bool

	once    sync.Once
	buffer  *beep.Buffer
	initErr error
}

// NewSound prepares a chime at the given volume in [0, 1]. Audio is only
// initialized on the first notification.
func NewSound(path string, volume float64) *Sound {
	s := &Sound{path: path, enabled: true}
	s.SetVolume(volume)
	return s
}

func (s *Sound) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = math.Max(0, math.Min(1, v))
}

func (s *Sound) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

func (s *Sound) SetEnabled(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = on
}

func (s *Sound) TimerFinished(string) error {
	s.mu.Lock()
	volume, enabled := s.volume, s.enabled
	s.mu.Unlock()
	if !enabled || volume == 0 {
		return nil
	}

	s.once.Do(func() { s.initErr = s.load() })
	if s.initErr != nil {
		return s.initErr
	}

	speakerPlay(withVolume(s.buffer.Streamer(0, s.buffer.Len()), volume))
	return nil
}

func (s *Sound) load() error {
	var buf *beep.Buffer
	if s.path != "" {
		f, err := os.Open(s.path)
		if err != nil {
			return fmt.Errorf("open sound file: %w", err)
		}
		defer f.Close()

		streamer, format, err := wav.Decode(f)
		if err != nil {
			return fmt.Errorf("decode sound file: %w", err)
		}
		defer streamer.Close()

		buf = beep.NewBuffer(format)
		buf.Append(streamer)
	} else {
		buf = beep.NewBuffer(beep.Format{SampleRate: toneSampleRate, NumChannels: 2, Precision: 2})
		buf.Append(chime(toneSampleRate))
	}

	sr := buf.Format().SampleRate
	if err := speakerInit(sr, sr.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	s.buffer = buf
	return nil
}

// withVolume scales a stream linearly by v in (0, 1].
func withVolume(st beep.Streamer, v float64) *effects.Volume {
	return &effects.Volume{
		Streamer: st,
		Base:     2,
		Volume:   math.Log2(v),
		Silent:   v <= 0,
	}
}

func chime(sr beep.SampleRate) beep.Streamer {
	return beep.Seq(
		tone(sr, toneFrequency, toneLength),
		beep.Silence(sr.N(toneGap)),
		tone(sr, toneFrequency*1.5, toneLength),
	)
}

// tone is a sine wave that fades out linearly over d.
func tone(sr beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	total := sr.N(d)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= total {
			return 0, false
		}
		for i := range samples {
			if pos >= total {
				break
			}
			env := 1 - float64(pos)/float64(total)
			v := 0.5 * env * math.Sin(2*math.Pi*freq*float64(pos)/float64(sr))
			samples[i][0], samples[i][1] = v, v
			pos++
			n++
		}
		return n, true
	})
}
