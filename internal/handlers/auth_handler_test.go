package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"expiring-map-api/internal/auth"
	"expiring-map-api/internal/models"
	"expiring-map-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLoginRouter(t *testing.T) (*gin.Engine, *gorm.DB, *auth.TokenIssuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	tokens := auth.NewTokenIssuer("secret", "iss", "aud", time.Hour)

	h := &AuthHandler{DB: db, Tokens: tokens}
	r := gin.New()
	r.POST("/api/login", h.Login)
	return r, db, tokens
}

func postLogin(r *gin.Engine, payload map[string]string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin_CreatesUserIfNotExists(t *testing.T) {
	r, db, tokens := newLoginRouter(t)

	w := postLogin(r, map[string]string{"username": "newuser", "password": "sha256-from-fe"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "User registered", resp.Message)

	claims, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	require.Equal(t, resp.UserID, claims.UserID)

	var stored models.User
	require.NoError(t, db.Where("username = ?", "newuser").First(&stored).Error)
	require.NotEqual(t, "sha256-from-fe", stored.PasswordHash)
}

func TestLogin_ExistingUser(t *testing.T) {
	r, _, _ := newLoginRouter(t)

	first := postLogin(r, map[string]string{"username": "alice", "password": "pw"})
	require.Equal(t, http.StatusOK, first.Code)

	w := postLogin(r, map[string]string{"username": "alice", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Login successful", resp.Message)

	w = postLogin(r, map[string]string{"username": "alice", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_BadRequest(t *testing.T) {
	r, _, _ := newLoginRouter(t)
	w := postLogin(r, map[string]string{"username": "alice"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}
