// Package auth is the client-side credential store: it performs the
// tenant-scoped login and caches the token, user snapshot and company
// code on disk so the REST client and the realtime connector can
// resolve them later.
package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/models"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/pkg/logger"
)

const credentialsFile = "credentials.json"

type credentials struct {
	Token       string       `json:"token"`
	CompanyCode string       `json:"companyCode"`
	User        *models.User `json:"user"`
}

// Store caches auth state under the user config dir. All getters
// tolerate a missing or unreadable cache by returning zero values.
type Store struct {
	apiURL string
	dir    string
	http   *http.Client
}

func NewStore(apiURL string) (*Store, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("auth: resolving config dir: %w", err)
	}
	dir := filepath.Join(base, "lecoursier")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("auth: creating config dir: %w", err)
	}
	return &Store{apiURL: apiURL, dir: dir, http: &http.Client{}}, nil
}

// Login authenticates against POST /login with the tenant header and
// caches the returned token and user. Admin accounts cannot log in to
// the app.
func (s *Store) Login(companyCode, username, password string) (*models.User, error) {
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})

	req, err := http.NewRequest(http.MethodPost, s.apiURL+"/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", companyCode)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("auth: invalid credentials")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: login failed with status %d", resp.StatusCode)
	}

	var data models.AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("auth: decoding login response: %w", err)
	}

	if data.User.Role == models.RoleAdmin {
		return nil, fmt.Errorf("auth: admins cannot log in to the app")
	}

	if data.Token == "" {
		return nil, fmt.Errorf("auth: login response missing token")
	}

	creds := credentials{Token: data.Token, CompanyCode: companyCode, User: &data.User}
	if err := s.save(creds); err != nil {
		return nil, err
	}

	logger.Info().Str("username", username).Str("tenant", companyCode).Msg("Logged in")
	return &data.User, nil
}

// Token returns the cached auth token, or "" when not logged in.
func (s *Store) Token() string {
	return s.load().Token
}

// CompanyCode returns the cached tenant code, or "".
func (s *Store) CompanyCode() string {
	return s.load().CompanyCode
}

// CurrentUser returns the cached user snapshot, or nil.
func (s *Store) CurrentUser() *models.User {
	return s.load().User
}

func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// Logout clears the token and user but keeps the company code for
// convenience on the next login.
func (s *Store) Logout() error {
	creds := s.load()
	creds.Token = ""
	creds.User = nil
	return s.save(creds)
}

func (s *Store) path() string {
	return filepath.Join(s.dir, credentialsFile)
}

func (s *Store) load() credentials {
	var creds credentials
	raw, err := os.ReadFile(s.path())
	if err != nil {
		return creds
	}
	if err := json.Unmarshal(raw, &creds); err != nil {
		logger.Warn().Err(err).Msg("Corrupt credentials cache, ignoring")
		return credentials{}
	}
	return creds
}

func (s *Store) save(creds credentials) error {
	raw, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path(), raw, 0o600); err != nil {
		return fmt.Errorf("auth: writing credentials: %w", err)
	}
	return nil
}
