package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/database"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/models"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/pkg/utils"
)

func createCourier(username, tenant, password string) models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := models.User{Username: username, TenantCode: tenant, Password: string(hash), Role: models.RoleUser}
	database.DB.Create(&user)
	return user
}

func loginRequest(body map[string]string, tenant string) *http.Request {
	req := jsonRequest("POST", "/api/login", body)
	if tenant != "" {
		req.Header.Set("X-Tenant-ID", tenant)
	}
	return req
}

func TestLoginReturnsTokenWithTenantClaims(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	user := createCourier("amine_login", "t_login", "password123")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = loginRequest(map[string]string{"username": "amine_login", "password": "password123"}, "t_login")

	Login(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.AuthResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, user.ID, response.User.ID)

	claims, err := utils.ValidateToken(response.Token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "amine_login", claims.Username)
	assert.Equal(t, "t_login", claims.TenantCode)

	// The password hash never serializes.
	assert.False(t, strings.Contains(w.Body.String(), user.Password))
}

func TestLoginRequiresTenantHeader(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	createCourier("amine_notenant", "t_notenant", "password123")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = loginRequest(map[string]string{"username": "amine_notenant", "password": "password123"}, "")

	Login(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	createCourier("amine_wrongpw", "t_wrongpw", "password123")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = loginRequest(map[string]string{"username": "amine_wrongpw", "password": "nope"}, "t_wrongpw")

	Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginScopesUsersByTenant(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	createCourier("amine_scope", "t_scope_a", "password123")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	// Same username, different tenant: must not match.
	c.Request = loginRequest(map[string]string{"username": "amine_scope", "password": "password123"}, "t_scope_b")

	Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateDeviceTokenStoresToken(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	user := createCourier("amine_device", "t_device", "password123")

	w := httptest.NewRecorder()
	c := authedContext(w, user)
	c.Request = jsonRequest("PUT", "/api/update-device-token", map[string]string{"token": "expo-push-token"})

	UpdateDeviceToken(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.User
	database.DB.First(&stored, user.ID)
	assert.Equal(t, "expo-push-token", stored.DeviceToken)
}

func TestUpdateDeviceTokenRequiresToken(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	user := createCourier("amine_devmissing", "t_devmissing", "password123")

	w := httptest.NewRecorder()
	c := authedContext(w, user)
	c.Request = jsonRequest("PUT", "/api/update-device-token", map[string]string{})

	UpdateDeviceToken(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
