// Package sync holds the pure reconciliation rules that keep a locally
// held task collection consistent with server-pushed create/update/
// delete events. Every function returns a new slice and never mutates
// its input, so interleaving with an in-flight REST fetch is safe: the
// idempotent no-op rules absorb duplicate or stale deliveries and the
// next authoritative fetch wins wholesale.
package sync

import (
	"sort"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/models"
)

// Snapshot is the client-owned ordered task collection, keyed by task
// id with no duplicates. Canonical order is createdAt descending.
type Snapshot []models.Task

// Replace installs a REST fetch result as the new snapshot.
// Authoritative truth wins over any realtime event processed before the
// fetch completed.
func Replace(tasks []models.Task) Snapshot {
	snap := make(Snapshot, len(tasks))
	copy(snap, tasks)
	sortByCreatedAt(snap)
	return snap
}

// ApplyCreated appends the task and re-sorts. A task whose id is
// already present is a duplicate delivery or a race with a fetch; the
// event is a no-op.
func ApplyCreated(snap Snapshot, task models.Task) Snapshot {
	if snap.Contains(task.ID) {
		return snap
	}
	next := make(Snapshot, 0, len(snap)+1)
	next = append(next, snap...)
	next = append(next, task)
	sortByCreatedAt(next)
	return next
}

// ApplyUpdated replaces the entry with a matching id. An update for an
// unknown task is stale or out of order and is dropped; a later fetch
// reconciles it.
func ApplyUpdated(snap Snapshot, task models.Task) Snapshot {
	idx := snap.indexOf(task.ID)
	if idx < 0 {
		return snap
	}
	next := make(Snapshot, len(snap))
	copy(next, snap)
	next[idx] = task
	return next
}

// ApplyDeleted removes the entry with the given id. Absent id is a
// no-op, which also makes repeated deletes idempotent.
func ApplyDeleted(snap Snapshot, taskID int) Snapshot {
	idx := snap.indexOf(taskID)
	if idx < 0 {
		return snap
	}
	next := make(Snapshot, 0, len(snap)-1)
	next = append(next, snap[:idx]...)
	next = append(next, snap[idx+1:]...)
	return next
}

// Contains reports whether a task with the given id is present.
func (s Snapshot) Contains(taskID int) bool {
	return s.indexOf(taskID) >= 0
}

// Get returns the task with the given id, if present.
func (s Snapshot) Get(taskID int) (models.Task, bool) {
	idx := s.indexOf(taskID)
	if idx < 0 {
		return models.Task{}, false
	}
	return s[idx], true
}

func (s Snapshot) indexOf(taskID int) int {
	for i, t := range s {
		if t.ID == taskID {
			return i
		}
	}
	return -1
}

func sortByCreatedAt(snap Snapshot) {
	sort.SliceStable(snap, func(i, j int) bool {
		return snap[i].CreatedAt.After(snap[j].CreatedAt)
	})
}

// SortByDueDate derives the secondary view ordering: ascending due
// date, tasks without one last, otherwise stable. The canonical
// snapshot order is untouched; this is a view, not a persisted order.
func SortByDueDate(snap Snapshot) Snapshot {
	view := make(Snapshot, len(snap))
	copy(view, snap)
	sort.SliceStable(view, func(i, j int) bool {
		a, b := view[i].DueDate, view[j].DueDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return view
}
