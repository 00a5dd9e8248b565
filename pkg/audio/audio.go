// Package audio plays per-lane music cues. Playback problems are
// handled (and logged) here; they never reach the timer core.
package audio

// Player is the playback surface the lane controller talks to. Calls
// are fire-and-forget from the controller's point of view.
type Player interface {
	// PlayLooping starts looping playback of the given file, replacing
	// any cue that is currently playing.
	PlayLooping(path string) error
	// Stop silences any playing cue. Safe to call when idle.
	Stop()
	// Close releases the output device.
	Close() error
}

// Noop is a Player that discards everything. Used when no audio device
// is wanted (daemon --no-audio) and in tests.
type Noop struct{}

func (Noop) PlayLooping(string) error { return nil }
func (Noop) Stop()                    {}
func (Noop) Close() error             { return nil }
