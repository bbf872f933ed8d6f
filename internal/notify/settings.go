package notify

// Settings is the part of the settings store the notifiers consult.
type Settings interface {
	GetBool(key string, fallback bool) bool
	GetFloat(key string, fallback float64) float64
}

// Configured rings the bell and plays the sound according to the current
// bell_enabled, sound_enabled and volume settings, read on every call.
type Configured struct {
	settings Settings
	bell     Notifier
	sound    *Sound
}

func NewConfigured(s Settings, bell Notifier, sound *Sound) *Configured {
	return &Configured{settings: s, bell: bell, sound: sound}
}

func (c *Configured) TimerFinished(name string) error {
	var m Multi
	if c.bell != nil && c.settings.GetBool("bell_enabled", true) {
		m = append(m, c.bell)
	}
	if c.sound != nil {
		c.sound.SetEnabled(c.settings.GetBool("sound_enabled", true))
		c.sound.SetVolume(c.settings.GetFloat("volume", 0.7))
		m = append(m, c.sound)
	}
	return m.TimerFinished(name)
}
