package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"schedulsy-api/internal/auth"
	"schedulsy-api/internal/config"
	"schedulsy-api/internal/database"
	"schedulsy-api/internal/middleware"
	"schedulsy-api/internal/models"
	"schedulsy-api/internal/testutil"
	"schedulsy-api/internal/tracker"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	router   *gin.Engine
	users    *database.UserRepository
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenIssuer
	provider *auth.Provider
	stores   *tracker.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	cfg := config.Config{
		JWTSecret:   "test-secret",
		JWTIssuer:   "schedulsy-api",
		JWTAudience: "schedulsy-clients",
		SessionTTL:  time.Hour,
	}
	env := &testEnv{
		users:  database.NewUserRepository(db),
		hasher: auth.NewPasswordHasher(bcrypt.MinCost),
		tokens: auth.NewTokenIssuer(cfg),
		stores: tracker.NewManager(database.NewTaskBackendFactory(db), time.Hour),
	}
	env.provider = auth.NewProvider(env.tokens, env.users)

	authHandler := NewAuthHandler(env.users, env.hasher, env.tokens, env.provider, env.stores)
	sessionHandler := NewSessionHandler(env.stores)
	taskHandler := NewTaskHandler(env.stores)
	userHandler := NewUserHandler(env.users)

	r := gin.New()
	r.POST("/api/register", authHandler.Register)
	r.POST("/api/login", authHandler.Login)
	protected := r.Group("/api")
	protected.Use(middleware.SessionGate(env.provider))
	protected.POST("/logout", authHandler.Logout)
	protected.GET("/me", userHandler.GetProfile)
	protected.GET("/session", sessionHandler.GetSession)
	protected.GET("/dashboard", sessionHandler.GetDashboard)
	protected.GET("/tasks", taskHandler.GetTasks)
	protected.GET("/tasks/:id", taskHandler.GetTaskByID)
	protected.POST("/tasks", taskHandler.CreateTask)
	protected.PATCH("/tasks/:id/toggle", taskHandler.ToggleTask)
	protected.DELETE("/tasks/:id", taskHandler.DeleteTask)
	protected.GET("/metrics", taskHandler.GetMetrics)
	env.router = r

	return env
}

// signIn seeds a user and returns a token for a fresh session.
func (e *testEnv) signIn(t *testing.T, id, email, name string) string {
	t.Helper()
	hash, err := e.hasher.Hash("password123")
	require.NoError(t, err)
	_ = e.users.Create(context.Background(), &models.User{ID: id, Email: email, Name: name, Password: hash})

	token, _, err := e.tokens.GenerateToken(id, email)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}
