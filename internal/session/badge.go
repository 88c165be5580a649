package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/broadcast"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/models"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/realtime"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/pkg/logger"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// BadgeSession is the badge section of the profile screen. It holds no
// channel subscription of its own: badge-earned events reach it through
// the in-process broadcaster, emitted by whichever screen owns the
// active subscription.
type BadgeSession struct {
	api    BadgeAPI
	badges *broadcast.BadgeBroadcaster

	alive       atomic.Bool
	unsubscribe func()

	mu       sync.Mutex
	earned   []models.EarnedBadge
	all      []models.BadgeWithProgress
	fetchErr error
}

func NewBadgeSession(api BadgeAPI, badges *broadcast.BadgeBroadcaster) *BadgeSession {
	return &BadgeSession{api: api, badges: badges}
}

func (s *BadgeSession) Alive() bool {
	return s.alive.Load()
}

// Mount fetches the earned badges and registers the broadcast listener.
func (s *BadgeSession) Mount() {
	s.alive.Store(true)
	s.refreshEarned()
	s.unsubscribe = s.badges.Subscribe(s.onBadgeEarned)
}

// Unmount clears liveness synchronously, then unregisters the listener.
// The unsubscribe func is idempotent, so a double unmount is harmless.
func (s *BadgeSession) Unmount() {
	s.alive.Store(false)
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

func (s *BadgeSession) refreshEarned() {
	resp, err := s.api.GetEarnedBadges()
	if !s.Alive() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch earned badges")
		s.fetchErr = err
		return
	}
	s.fetchErr = nil
	s.earned = resp.Data
}

// FetchAll loads every badge definition with progress, for the progress
// view.
func (s *BadgeSession) FetchAll() error {
	resp, err := s.api.GetBadges()
	if !s.Alive() {
		return nil
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch badge progress")
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = resp.Data
	return nil
}

// onBadgeEarned folds a broadcast badge-earned payload into both lists.
// Fields the event does not carry get display defaults.
func (s *BadgeSession) onBadgeEarned(payload realtime.BadgeEarnedPayload) {
	if !s.Alive() {
		return
	}

	badge := payload.Badge
	if badge.CategoryName == "" {
		badge.CategoryName = "General"
	}
	if badge.RarityName == "" {
		badge.RarityName = string(badge.Rarity)
	}
	badge.IsActive = true
	if badge.CreatedAt.IsZero() {
		badge.CreatedAt = nowUTC()
		badge.UpdatedAt = badge.CreatedAt
	}

	earnedAt, err := time.Parse(time.RFC3339, payload.EarnedAt)
	if err != nil {
		earnedAt = nowUTC()
	}
	full := models.NewProgress(1, 1)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.earned = append([]models.EarnedBadge{{
		Badge:    badge,
		EarnedAt: earnedAt,
		Progress: full,
	}}, s.earned...)

	for i := range s.all {
		if s.all[i].Badge.ID == badge.ID {
			s.all[i].Earned = true
			s.all[i].EarnedAt = &earnedAt
			p := full
			s.all[i].Progress = &p
		}
	}
}

// Earned returns the earned badges, newest first.
func (s *BadgeSession) Earned() []models.EarnedBadge {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.EarnedBadge, len(s.earned))
	copy(out, s.earned)
	return out
}

// All returns every badge with progress, when FetchAll has run.
func (s *BadgeSession) All() []models.BadgeWithProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.BadgeWithProgress, len(s.all))
	copy(out, s.all)
	return out
}

// Err returns the retained earned-badges fetch error.
func (s *BadgeSession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchErr
}
