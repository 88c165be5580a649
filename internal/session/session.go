// Package session models one screen mount of the mobile app: the task
// list/map screen and the badge section. A session owns its REST
// snapshot and its realtime subscription; two simultaneously mounted
// sessions hold two independent connections. Unmount is an immediate
// cancellation signal: every asynchronous continuation checks the
// liveness flag before touching state, showing a toast or playing a
// sound, because the continuation may run after the screen is gone.
package session

import (
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/models"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/realtime"
)

// State is the per-mount lifecycle. No transition is retried
// automatically; a failed connect leaves the session in REST-only mode
// for the rest of the mount.
type State string

const (
	StateUnmounted     State = "unmounted"
	StateConnecting    State = "connecting"
	StateSubscribed    State = "subscribed"
	StateRESTOnly      State = "rest-only"
	StateUnsubscribing State = "unsubscribing"
)

// Credentials is what sessions need from the credential store.
type Credentials interface {
	CompanyCode() string
	CurrentUser() *models.User
}

// Dialer opens a fresh realtime transport connection. Sessions call it
// once per mount.
type Dialer func() (realtime.Transport, error)

// TaskAPI is the REST surface the task session consumes.
type TaskAPI interface {
	ListTasks() ([]models.Task, error)
	StartTask(id int) (*models.Task, error)
	CompleteTask(id int) (*models.Task, error)
	DeleteTask(id int) error
}

// BadgeAPI is the REST surface the badge session consumes.
type BadgeAPI interface {
	GetBadges() (*models.BadgesResponse, error)
	GetEarnedBadges() (*models.EarnedBadgesResponse, error)
}

// Notifier receives one call per reconciled event.
type Notifier interface {
	TaskCreated(models.Task)
	TaskUpdated(models.Task)
	TaskDeleted(taskID int)
	BadgeEarned(models.Badge)
}
