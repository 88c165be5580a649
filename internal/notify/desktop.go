package notify

import (
	"time"

	"github.com/gen2brain/beeep"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/pkg/logger"
)

// DesktopToaster shows OS-level notifications through beeep. The OS
// notification center owns dismissal, so Clear is best-effort only.
type DesktopToaster struct{}

func (DesktopToaster) Show(t Toast) {
	title := string(t.Kind) + ": " + t.Title
	if err := beeep.Notify(title, t.Body, ""); err != nil {
		logger.Warn().Err(err).Msg("Failed to show notification")
	}
}

func (DesktopToaster) Clear() {}

// LogToaster writes toasts to the log, for headless runs and tests.
type LogToaster struct{}

func (LogToaster) Show(t Toast) {
	logger.Info().
		Str("kind", string(t.Kind)).
		Str("body", t.Body).
		Dur("duration", t.Duration).
		Msg(t.Title)
}

func (LogToaster) Clear() {}

// BeepLoader plays cues as short system beeps.
type BeepLoader struct{}

type beepSound struct {
	freq     float64
	duration time.Duration
}

func (BeepLoader) Load(cue Cue) (Sound, error) {
	switch cue {
	case CueTaskDeleted:
		return &beepSound{freq: 330, duration: 180 * time.Millisecond}, nil
	default:
		return &beepSound{freq: beeep.DefaultFreq, duration: 120 * time.Millisecond}, nil
	}
}

func (s *beepSound) Play() error {
	return beeep.Beep(s.freq, int(s.duration.Milliseconds()))
}

func (s *beepSound) Release() {}
