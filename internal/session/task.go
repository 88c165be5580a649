package session

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/broadcast"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/models"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/realtime"
	tasksync "github.com/JoseMokeni/lecoursier-mobile-app-user/internal/sync"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/pkg/logger"
)

// SortMode selects the displayed ordering. The canonical snapshot
// always stays createdAt-descending; due-date order is derived per
// read.
type SortMode int

const (
	SortByCreatedAt SortMode = iota
	SortByDueDate
)

// TaskSession is the task list/map screen: it owns the task snapshot,
// holds the active channel subscription for both the tasks and badges
// channels, and forwards badge-earned events to the in-process
// broadcaster for screens without a subscription of their own.
type TaskSession struct {
	api      TaskAPI
	creds    Credentials
	dial     Dialer
	notifier Notifier
	badges   *broadcast.BadgeBroadcaster

	alive atomic.Bool

	mu       sync.Mutex
	state    State
	snapshot tasksync.Snapshot
	sortMode SortMode
	fetchErr error

	conn *realtime.Client
}

func NewTaskSession(api TaskAPI, creds Credentials, dial Dialer, notifier Notifier, badges *broadcast.BadgeBroadcaster) *TaskSession {
	return &TaskSession{
		api:      api,
		creds:    creds,
		dial:     dial,
		notifier: notifier,
		badges:   badges,
		state:    StateUnmounted,
	}
}

// Alive reports whether the screen is still mounted. Every asynchronous
// continuation must check this before applying any effect.
func (s *TaskSession) Alive() bool {
	return s.alive.Load()
}

// Mount fetches the authoritative snapshot and then attaches the
// realtime subscription. A fetch failure is retained for the retry
// affordance and does not block mounting; a connect failure silently
// leaves the session REST-only for this mount, with no further
// attempts.
func (s *TaskSession) Mount() {
	s.alive.Store(true)
	s.refresh()
	s.connect()
}

// Unmount clears the liveness flag synchronously, then releases the
// subscription and connection. Handlers scheduled after this point
// observe Alive() == false and drop their effects.
func (s *TaskSession) Unmount() {
	s.alive.Store(false)

	s.mu.Lock()
	s.state = StateUnsubscribing
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if conn != nil {
		conn.Close()
	}

	s.mu.Lock()
	s.state = StateUnmounted
	s.mu.Unlock()
}

// Refresh re-runs the authoritative fetch. Subscription state is
// untouched either way.
func (s *TaskSession) Refresh() error {
	s.refresh()
	return s.Err()
}

func (s *TaskSession) refresh() {
	tasks, err := s.api.ListTasks()
	if !s.Alive() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch tasks")
		s.fetchErr = err
		return
	}
	s.fetchErr = nil
	s.snapshot = tasksync.Replace(tasks)
}

// connect resolves tenant and username and attaches the channel
// subscriptions. Missing credentials or a transport failure degrade to
// REST-only: logged, never surfaced to the user.
func (s *TaskSession) connect() {
	s.setState(StateConnecting)

	companyCode := s.creds.CompanyCode()
	user := s.creds.CurrentUser()
	if companyCode == "" || user == nil || user.Username == "" {
		logger.Warn().Msg("Missing tenant or username, staying REST-only")
		s.setState(StateRESTOnly)
		return
	}

	tasksChannel, err := realtime.ChannelName("tasks", companyCode, user.Username)
	if err != nil {
		logger.Warn().Err(err).Msg("Refusing realtime connect")
		s.setState(StateRESTOnly)
		return
	}
	badgesChannel, err := realtime.ChannelName("badges", companyCode, user.Username)
	if err != nil {
		logger.Warn().Err(err).Msg("Refusing realtime connect")
		s.setState(StateRESTOnly)
		return
	}

	transport, err := s.dial()
	if err != nil {
		logger.Warn().Err(err).Msg("Realtime connect failed, staying REST-only")
		s.setState(StateRESTOnly)
		return
	}
	conn := realtime.Dial(transport)

	if !s.Alive() {
		// Unmounted while dialing.
		conn.Close()
		return
	}

	taskSub, err := conn.Subscribe(tasksChannel)
	if err != nil {
		logger.Warn().Err(err).Str("channel", tasksChannel).Msg("Subscribe failed, staying REST-only")
		conn.Close()
		s.setState(StateRESTOnly)
		return
	}
	badgeSub, err := conn.Subscribe(badgesChannel)
	if err != nil {
		logger.Warn().Err(err).Str("channel", badgesChannel).Msg("Subscribe failed, staying REST-only")
		conn.Close()
		s.setState(StateRESTOnly)
		return
	}

	taskSub.Bind(realtime.EventTaskCreated, s.onTaskCreated)
	taskSub.Bind(realtime.EventTaskUpdated, s.onTaskUpdated)
	taskSub.Bind(realtime.EventTaskDeleted, s.onTaskDeleted)
	badgeSub.Bind(realtime.EventBadgeEarned, s.onBadgeEarned)

	s.mu.Lock()
	s.conn = conn
	s.state = StateSubscribed
	s.mu.Unlock()

	if !s.Alive() {
		// Unmount raced the subscribe; tear down what we just built.
		s.Unmount()
	}
}

func (s *TaskSession) onTaskCreated(data json.RawMessage) {
	var payload realtime.TaskPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.Task.ID == 0 {
		logger.Warn().Err(err).Msg("Dropping malformed task-created payload")
		return
	}
	if !s.Alive() {
		return
	}

	s.mu.Lock()
	s.snapshot = tasksync.ApplyCreated(s.snapshot, payload.Task)
	s.mu.Unlock()

	s.notifier.TaskCreated(payload.Task)
}

func (s *TaskSession) onTaskUpdated(data json.RawMessage) {
	var payload realtime.TaskPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.Task.ID == 0 {
		logger.Warn().Err(err).Msg("Dropping malformed task-updated payload")
		return
	}
	if !s.Alive() {
		return
	}

	s.mu.Lock()
	s.snapshot = tasksync.ApplyUpdated(s.snapshot, payload.Task)
	s.mu.Unlock()

	s.notifier.TaskUpdated(payload.Task)
}

func (s *TaskSession) onTaskDeleted(data json.RawMessage) {
	var payload realtime.TaskDeletedPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.TaskID == 0 {
		logger.Warn().Err(err).Msg("Dropping malformed task-deleted payload")
		return
	}
	if !s.Alive() {
		return
	}

	s.mu.Lock()
	s.snapshot = tasksync.ApplyDeleted(s.snapshot, payload.TaskID)
	s.mu.Unlock()

	s.notifier.TaskDeleted(payload.TaskID)
}

func (s *TaskSession) onBadgeEarned(data json.RawMessage) {
	var payload realtime.BadgeEarnedPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.Badge.Name == "" {
		logger.Warn().Err(err).Msg("Dropping malformed badge-earned payload")
		return
	}
	if !s.Alive() {
		return
	}

	s.notifier.BadgeEarned(payload.Badge)
	if s.badges != nil {
		s.badges.Emit(payload)
	}
}

// Start optimistically moves a task into progress, then asks the
// server. The local change is speculative; the next authoritative
// fetch or task-updated event overwrites it (eventual consistency, not
// strong).
func (s *TaskSession) Start(taskID int) error {
	s.applyLocal(taskID, func(t *models.Task) { t.Start() })

	updated, err := s.api.StartTask(taskID)
	if err != nil {
		return err
	}
	if s.Alive() && updated != nil {
		s.mu.Lock()
		s.snapshot = tasksync.ApplyUpdated(s.snapshot, *updated)
		s.mu.Unlock()
	}
	return nil
}

// Complete optimistically completes a task, then asks the server.
func (s *TaskSession) Complete(taskID int) error {
	s.applyLocal(taskID, func(t *models.Task) { t.Complete(nowUTC()) })

	updated, err := s.api.CompleteTask(taskID)
	if err != nil {
		return err
	}
	if s.Alive() && updated != nil {
		s.mu.Lock()
		s.snapshot = tasksync.ApplyUpdated(s.snapshot, *updated)
		s.mu.Unlock()
	}
	return nil
}

// Delete removes the task locally and server-side. The task-deleted
// event that echoes back is absorbed as a no-op.
func (s *TaskSession) Delete(taskID int) error {
	if err := s.api.DeleteTask(taskID); err != nil {
		return err
	}
	if s.Alive() {
		s.mu.Lock()
		s.snapshot = tasksync.ApplyDeleted(s.snapshot, taskID)
		s.mu.Unlock()
	}
	return nil
}

func (s *TaskSession) applyLocal(taskID int, mutate func(*models.Task)) {
	if !s.Alive() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if task, ok := s.snapshot.Get(taskID); ok {
		mutate(&task)
		s.snapshot = tasksync.ApplyUpdated(s.snapshot, task)
	}
}

// SetSortMode switches the displayed ordering.
func (s *TaskSession) SetSortMode(mode SortMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortMode = mode
}

// Tasks returns the displayed task list: a copy in the active sort
// order.
func (s *TaskSession) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sortMode == SortByDueDate {
		return tasksync.SortByDueDate(s.snapshot)
	}
	out := make([]models.Task, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// Err returns the retained fetch error, if the last fetch failed.
func (s *TaskSession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchErr
}

// State returns the current lifecycle state.
func (s *TaskSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *TaskSession) setState(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
}
