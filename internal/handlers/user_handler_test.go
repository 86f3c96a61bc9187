package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"expiring-map-api/internal/auth"
	"expiring-map-api/internal/middleware"
	"expiring-map-api/internal/models"
	"expiring-map-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestGetAllUsers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	// Seed some users
	require.NoError(t, db.Create(&models.User{ID: "u-2", Username: "bob", PasswordHash: "x"}).Error)
	require.NoError(t, db.Create(&models.User{ID: "u-1", Username: "alice", PasswordHash: "x"}).Error)

	tokens := auth.NewTokenIssuer("secret", "iss", "aud", time.Hour)
	h := &UserHandler{DB: db}
	r := gin.New()
	r.Use(middleware.JWTAuthMiddleware(tokens))
	r.GET("/api/users", h.GetAllUsers)

	token, _ := tokens.GenerateToken("u-1", "alice")
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Users []UserResponse `json:"users"`
		Count int            `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	require.Equal(t, "alice", resp.Users[0].Username)
	require.NotContains(t, w.Body.String(), "password")
}
