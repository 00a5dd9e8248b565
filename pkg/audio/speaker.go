package audio

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var _ Player = &Speaker{}

// Speaker plays cues on the default audio output. The underlying
// device is opened lazily on the first cue, using that cue's sample
// rate; later cues with a different rate are resampled.
type Speaker struct {
	mu sync.Mutex

	initialized bool
	sampleRate  beep.SampleRate

	// current holds the decoder for the playing cue so its file can be
	// closed when the cue is replaced or stopped.
	current beep.StreamSeekCloser
}

// NewSpeaker returns a Speaker. No device is opened until the first
// PlayLooping call.
func NewSpeaker() *Speaker {
	return &Speaker{}
}

func (s *Speaker) PlayLooping(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open cue %s", path)
	}

	streamer, format, err := decode(path, f)
	if err != nil {
		_ = f.Close()
		return pkgerrors.Wrapf(err, "failed to decode cue %s", path)
	}

	if !s.initialized {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			_ = streamer.Close()
			return pkgerrors.Wrap(err, "failed to open audio output")
		}
		s.initialized = true
		s.sampleRate = format.SampleRate
		logrus.WithFields(logrus.Fields{
			"sampleRate": format.SampleRate,
		}).Debug("audio output opened")
	}

	loop := beep.Streamer(beep.Loop(-1, streamer))
	if format.SampleRate != s.sampleRate {
		loop = beep.Resample(4, format.SampleRate, s.sampleRate, loop)
	}

	// Replacing the playing cue: silence the mixer first, then drop the
	// old decoder.
	speaker.Clear()
	s.closeCurrentLocked()
	s.current = streamer
	speaker.Play(loop)

	logrus.Debugf("looping cue %s", path)
	return nil
}

func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Clear()
	s.closeCurrentLocked()
}

func (s *Speaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return nil
	}
	speaker.Clear()
	s.closeCurrentLocked()
	speaker.Close()
	s.initialized = false
	return nil
}

func (s *Speaker) closeCurrentLocked() {
	if s.current == nil {
		return
	}
	if err := s.current.Close(); err != nil {
		logrus.Warnf("failed to close cue: %v", err)
	}
	s.current = nil
}

func decode(path string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".wav":
		return wav.Decode(f)
	case ".flac":
		return flac.Decode(f)
	case ".ogg":
		return vorbis.Decode(f)
	default:
		return nil, beep.Format{}, pkgerrors.Errorf("unsupported audio format %q", filepath.Ext(path))
	}
}
