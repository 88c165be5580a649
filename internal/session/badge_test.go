package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/broadcast"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/models"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/realtime"
)

type fakeBadgeAPI struct {
	earned    []models.EarnedBadge
	all       []models.BadgeWithProgress
	earnedErr error
	allErr    error
}

func (f *fakeBadgeAPI) GetBadges() (*models.BadgesResponse, error) {
	if f.allErr != nil {
		return nil, f.allErr
	}
	return &models.BadgesResponse{Data: f.all}, nil
}

func (f *fakeBadgeAPI) GetEarnedBadges() (*models.EarnedBadgesResponse, error) {
	if f.earnedErr != nil {
		return nil, f.earnedErr
	}
	return &models.EarnedBadgesResponse{Data: f.earned}, nil
}

func TestBadgeMountFetchesEarned(t *testing.T) {
	api := &fakeBadgeAPI{earned: []models.EarnedBadge{
		{Badge: models.Badge{ID: 1, Name: "First Delivery"}, EarnedAt: testBase},
	}}
	badges := broadcast.NewBadgeBroadcaster()
	s := NewBadgeSession(api, badges)

	s.Mount()
	defer s.Unmount()

	assert.NoError(t, s.Err())
	earned := s.Earned()
	assert.Len(t, earned, 1)
	assert.Equal(t, "First Delivery", earned[0].Badge.Name)
	assert.Equal(t, 1, badges.Len(), "listener registered")
}

func TestBadgeBroadcastPrependsWithDisplayDefaults(t *testing.T) {
	api := &fakeBadgeAPI{earned: []models.EarnedBadge{
		{Badge: models.Badge{ID: 1, Name: "First Delivery"}, EarnedAt: testBase},
	}}
	badges := broadcast.NewBadgeBroadcaster()
	s := NewBadgeSession(api, badges)
	s.Mount()
	defer s.Unmount()

	badges.Emit(realtime.BadgeEarnedPayload{
		Badge:    models.Badge{ID: 2, Name: "Courier", Rarity: models.BadgeRaritySilver},
		EarnedAt: testBase.Add(time.Hour).Format(time.RFC3339),
	})

	earned := s.Earned()
	assert.Len(t, earned, 2)
	assert.Equal(t, "Courier", earned[0].Badge.Name, "newest first")
	assert.Equal(t, "General", earned[0].Badge.CategoryName)
	assert.Equal(t, "silver", earned[0].Badge.RarityName)
	assert.True(t, earned[0].Badge.IsActive)
	assert.Equal(t, testBase.Add(time.Hour), earned[0].EarnedAt.UTC())
	assert.Equal(t, 100, earned[0].Progress.Percentage)
}

func TestBadgeBroadcastUnparsableEarnedAtFallsBackToNow(t *testing.T) {
	badges := broadcast.NewBadgeBroadcaster()
	s := NewBadgeSession(&fakeBadgeAPI{}, badges)
	s.Mount()
	defer s.Unmount()

	before := time.Now().UTC()
	badges.Emit(realtime.BadgeEarnedPayload{
		Badge:    models.Badge{ID: 2, Name: "Courier"},
		EarnedAt: "yesterday-ish",
	})

	earned := s.Earned()
	assert.Len(t, earned, 1)
	assert.False(t, earned[0].EarnedAt.Before(before))
}

func TestBadgeBroadcastMarksProgressRowEarned(t *testing.T) {
	api := &fakeBadgeAPI{all: []models.BadgeWithProgress{
		{Badge: models.Badge{ID: 2, Name: "Courier"}, Earned: false},
		{Badge: models.Badge{ID: 3, Name: "Road Warrior"}, Earned: false},
	}}
	badges := broadcast.NewBadgeBroadcaster()
	s := NewBadgeSession(api, badges)
	s.Mount()
	defer s.Unmount()
	assert.NoError(t, s.FetchAll())

	badges.Emit(realtime.BadgeEarnedPayload{
		Badge:    models.Badge{ID: 2, Name: "Courier"},
		EarnedAt: testBase.Format(time.RFC3339),
	})

	all := s.All()
	assert.True(t, all[0].Earned)
	assert.NotNil(t, all[0].EarnedAt)
	assert.NotNil(t, all[0].Progress)
	assert.Equal(t, 100, all[0].Progress.Percentage)
	assert.False(t, all[1].Earned, "other rows untouched")
}

func TestBadgeUnmountStopsBroadcastDeliveries(t *testing.T) {
	badges := broadcast.NewBadgeBroadcaster()
	s := NewBadgeSession(&fakeBadgeAPI{}, badges)
	s.Mount()
	s.Unmount()

	assert.Equal(t, 0, badges.Len(), "listener unregistered")

	badges.Emit(realtime.BadgeEarnedPayload{Badge: models.Badge{ID: 2, Name: "Courier"}})
	assert.Empty(t, s.Earned())
}

func TestBadgeUnmountedListenerCapturedBeforeUnmountDropsEvent(t *testing.T) {
	badges := broadcast.NewBadgeBroadcaster()
	s := NewBadgeSession(&fakeBadgeAPI{}, badges)
	s.Mount()

	// A delivery in flight holds the handler even as the screen goes
	// away; the liveness check must drop it.
	handler := s.onBadgeEarned
	s.Unmount()

	handler(realtime.BadgeEarnedPayload{Badge: models.Badge{ID: 2, Name: "Courier"}})
	assert.Empty(t, s.Earned())
}

func TestBadgeFetchErrorRetained(t *testing.T) {
	api := &fakeBadgeAPI{earnedErr: errors.New("network down")}
	s := NewBadgeSession(api, broadcast.NewBadgeBroadcaster())
	s.Mount()
	defer s.Unmount()

	assert.Error(t, s.Err())

	api.earnedErr = nil
	api.earned = []models.EarnedBadge{{Badge: models.Badge{ID: 1, Name: "First Delivery"}}}
	s.refreshEarned()
	assert.NoError(t, s.Err())
	assert.Len(t, s.Earned(), 1)
}

func TestBadgeDoubleUnmountIsHarmless(t *testing.T) {
	s := NewBadgeSession(&fakeBadgeAPI{}, broadcast.NewBadgeBroadcaster())
	s.Mount()
	s.Unmount()
	assert.NotPanics(t, func() { s.Unmount() })
}
