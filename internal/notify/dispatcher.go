// Package notify turns reconciled realtime events into transient
// user-facing notifications and audio cues. Dispatch never feeds errors
// back into the reconciliation path: a broken toast backend or sound
// asset must not block task-list updates.
package notify

import (
	"fmt"
	"time"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/models"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/pkg/logger"
)

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastInfo    ToastKind = "info"
	ToastError   ToastKind = "error"
)

// Badge toasts stay visible longer than task toasts.
const (
	TaskToastDuration  = 4 * time.Second
	BadgeToastDuration = 7 * time.Second
)

type Toast struct {
	Kind     ToastKind
	Title    string
	Body     string
	Duration time.Duration
}

// Toaster displays auto-dismissing notifications. Show replaces nothing
// by itself; Clear dismisses whatever is currently visible.
type Toaster interface {
	Show(Toast)
	Clear()
}

// Cue names the short audio signals.
type Cue string

const (
	CueTaskCreated Cue = "task-created"
	CueTaskDeleted Cue = "task-deleted"
)

// Sound is one loaded playback instance. Release must be called once
// playback completes or reports already-finished; it is a resource
// cleanup contract, not a UI concern.
type Sound interface {
	Play() error
	Release()
}

// SoundLoader loads a cue for playback.
type SoundLoader interface {
	Load(Cue) (Sound, error)
}

// Dispatcher fans one reconciled event out to a toast and, for created
// and deleted, an audio cue.
type Dispatcher struct {
	toaster Toaster
	sounds  SoundLoader
}

func NewDispatcher(toaster Toaster, sounds SoundLoader) *Dispatcher {
	return &Dispatcher{toaster: toaster, sounds: sounds}
}

func (d *Dispatcher) TaskCreated(task models.Task) {
	d.toaster.Show(Toast{
		Kind:     ToastSuccess,
		Title:    "New task assigned",
		Body:     task.Name,
		Duration: TaskToastDuration,
	})
	d.playCue(CueTaskCreated)
}

func (d *Dispatcher) TaskUpdated(task models.Task) {
	d.toaster.Show(Toast{
		Kind:     ToastInfo,
		Title:    "Task updated",
		Body:     task.Name,
		Duration: TaskToastDuration,
	})
}

func (d *Dispatcher) TaskDeleted(taskID int) {
	d.toaster.Show(Toast{
		Kind:     ToastError,
		Title:    "Task removed",
		Body:     fmt.Sprintf("Task #%d", taskID),
		Duration: TaskToastDuration,
	})
	d.playCue(CueTaskDeleted)
}

// BadgeEarned clears any visible toast first so a task toast and a
// badge toast arriving close together never overlap.
func (d *Dispatcher) BadgeEarned(badge models.Badge) {
	d.toaster.Clear()
	d.toaster.Show(Toast{
		Kind:     ToastSuccess,
		Title:    "Badge earned!",
		Body:     badge.Name,
		Duration: BadgeToastDuration,
	})
}

// playCue is fire-and-forget: load/play failures are logged, the sound
// instance is always released.
func (d *Dispatcher) playCue(cue Cue) {
	if d.sounds == nil {
		return
	}
	sound, err := d.sounds.Load(cue)
	if err != nil {
		logger.Warn().Err(err).Str("cue", string(cue)).Msg("Failed to load sound")
		return
	}
	go func() {
		defer sound.Release()
		if err := sound.Play(); err != nil {
			logger.Warn().Err(err).Str("cue", string(cue)).Msg("Failed to play sound")
		}
	}()
}
