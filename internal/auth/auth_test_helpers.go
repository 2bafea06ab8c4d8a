package auth

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/database"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/utilities"
)

// GetTokens is a helper to obtain a token pair for a user by simulating a login API call.
func GetTokens(
	t *testing.T,
	db *database.DBinstanceStruct,
	email string,
	password string,
) (access string, refresh string, err error) {
	t.Helper()
	handler := NewLocalAuthHandler(db, NewInMemoryBlacklistStore(0))
	rec, resp, err := utilities.SimulateAPICall(handler.Login, http.MethodPost, "/auth/login/", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	if err != nil {
		return "", "", err
	}
	if rec.Code != http.StatusOK {
		return "", "", fmt.Errorf("login Failed: status %d, body: %s", rec.Code, rec.Body.String())
	}
	access, _ = resp["access"].(string)
	refresh, _ = resp["refresh"].(string)
	if access == "" {
		return "", "", fmt.Errorf("login Failed: no access token in response: %s", rec.Body.String())
	}
	return access, refresh, nil
}

// GetAccessToken is GetTokens returning the access token only
func GetAccessToken(t *testing.T, db *database.DBinstanceStruct, email, password string) (string, error) {
	t.Helper()
	access, _, err := GetTokens(t, db, email, password)
	return access, err
}
