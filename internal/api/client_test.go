package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/models"
)

type fakeCreds struct {
	token       string
	companyCode string
	loggedOut   bool
}

func (f *fakeCreds) Token() string       { return f.token }
func (f *fakeCreds) CompanyCode() string { return f.companyCode }
func (f *fakeCreds) Logout() error {
	f.loggedOut = true
	f.token = ""
	return nil
}

func validCreds() *fakeCreds {
	return &fakeCreds{token: "jwt-token", companyCode: "acme"}
}

func TestRequestCarriesAuthAndTenantHeaders(t *testing.T) {
	var gotAuth, gotTenant, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotTenant = r.Header.Get("X-Tenant-ID")
		gotContentType = r.Header.Get("Content-Type")
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []models.Task{}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, validCreds())
	_, err := c.ListTasks()

	assert.NoError(t, err)
	assert.Equal(t, "Bearer jwt-token", gotAuth)
	assert.Equal(t, "acme", gotTenant)
	assert.Equal(t, "application/json", gotContentType)
}

func TestMissingCredentialsLogsOutWithoutRequest(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	creds := &fakeCreds{token: "", companyCode: "acme"}
	c := NewClient(srv.URL, creds)
	hookRan := false
	c.OnLogout(func() { hookRan = true })

	_, err := c.ListTasks()

	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.True(t, creds.loggedOut)
	assert.True(t, hookRan)
	assert.Zero(t, requests, "no request attempted without credentials")
}

func TestUnauthorizedResponseForcesLogout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	creds := validCreds()
	c := NewClient(srv.URL, creds)
	hookRan := false
	c.OnLogout(func() { hookRan = true })

	_, err := c.ListTasks()

	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.True(t, creds.loggedOut)
	assert.True(t, hookRan)
}

func TestErrorResponseSurfacesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "Task is already completed"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, validCreds())
	_, err := c.StartTask(7)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Task is already completed")
	assert.False(t, errors.Is(err, ErrAuthRequired))
}

func TestErrorResponseWithoutBodyFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, validCreds())
	_, err := c.ListTasks()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestListTasksDecodesDataEnvelope(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tasks", r.URL.Path)
		json.NewEncoder(w).Encode(models.TasksResponse{Data: []models.Task{
			{ID: 1, Name: "Deliver package", Status: models.TaskStatusPending, CreatedAt: created},
		}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, validCreds())
	tasks, err := c.ListTasks()

	assert.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, "Deliver package", tasks[0].Name)
}

func TestCompleteTaskPostsToLifecycleEndpoint(t *testing.T) {
	now := time.Now().UTC()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tasks/7/complete", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]models.Task{"data": {
			ID: 7, Status: models.TaskStatusCompleted, CompletedAt: &now,
		}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, validCreds())
	task, err := c.CompleteTask(7)

	assert.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, task.Status)
	assert.NotNil(t, task.CompletedAt)
}

func TestDeleteTaskUsesDeleteMethod(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/tasks/7", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, validCreds())
	assert.NoError(t, c.DeleteTask(7))
}

func TestUpdateDeviceTokenSendsTokenBody(t *testing.T) {
	var body map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/update-device-token", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]string{"message": "Device token updated"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, validCreds())
	assert.NoError(t, c.UpdateDeviceToken("expo-push-token"))
	assert.Equal(t, "expo-push-token", body["token"])
}

func TestGetBadgesDecodesMeta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/badges", r.URL.Path)
		resp := models.BadgesResponse{Data: []models.BadgeWithProgress{
			{Badge: models.Badge{ID: 1, Name: "First Delivery"}, Earned: true},
			{Badge: models.Badge{ID: 2, Name: "Courier"}},
		}}
		resp.Meta.TotalBadges = 2
		resp.Meta.EarnedBadges = 1
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, validCreds())
	resp, err := c.GetBadges()

	assert.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, 2, resp.Meta.TotalBadges)
	assert.Equal(t, 1, resp.Meta.EarnedBadges)
}
