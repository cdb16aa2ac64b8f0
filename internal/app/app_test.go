package app_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"go-hostel-leave/internal/app"
	"go-hostel-leave/internal/shared/apperror"
	"go-hostel-leave/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	os.Exit(m.Run())
}

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

type leaveBody struct {
	ID             string   `json:"id"`
	Status         string   `json:"status"`
	ParentApproval bool     `json:"parent_approval"`
	AdminApproval  bool     `json:"admin_approval"`
	FinalApproval  bool     `json:"final_approval"`
	RejectedBy     []string `json:"rejected_by"`
}

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:        "test",
		Port:          "0",
		Store:         config.StoreMemory,
		JWTSecret:     "app-test-secret",
		LeaveCacheTTL: time.Minute,
		DemoPassword:  "password123",
	}
}

func buildRouter(t *testing.T) *gin.Engine {
	t.Helper()
	r := gin.New()
	cleanup, err := app.BuildApp(r, memoryConfig(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return r
}

func call(t *testing.T, r *gin.Engine, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func login(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	code, env := call(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, code)

	var data struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.AccessToken)
	return data.AccessToken
}

func decodeLeave(t *testing.T, env envelope) leaveBody {
	t.Helper()
	var l leaveBody
	require.NoError(t, json.Unmarshal(env.Data, &l))
	return l
}

func TestBuildApp_Healthz(t *testing.T) {
	r := buildRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"store":"memory"`)
}

func TestBuildApp_UnsupportedStore(t *testing.T) {
	cfg := memoryConfig()
	cfg.Store = "floppy"

	cleanup, err := app.BuildApp(gin.New(), cfg, zap.NewNop())

	assert.Error(t, err)
	assert.Nil(t, cleanup)
}

func TestBuildApp_DualApprovalFlow(t *testing.T) {
	r := buildRouter(t)

	student := login(t, r, "student@example.com")
	parent := login(t, r, "parent@example.com")
	admin := login(t, r, "admin@example.com")

	code, env := call(t, r, http.MethodPost, "/api/v1/leaves", student, gin.H{
		"category":  "home_leave",
		"from_date": "2026-03-10",
		"to_date":   "2026-03-12",
		"reason":    "family visit",
	})
	require.Equal(t, http.StatusCreated, code)
	created := decodeLeave(t, env)
	assert.Equal(t, "pending", created.Status)
	path := "/api/v1/leaves/" + created.ID

	// students hold no decide permission
	code, env = call(t, r, http.MethodPut, path, student, gin.H{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	code, env = call(t, r, http.MethodPut, path, parent, gin.H{"status": "approved"})
	require.Equal(t, http.StatusOK, code)
	afterParent := decodeLeave(t, env)
	assert.Equal(t, "pending", afterParent.Status)
	assert.True(t, afterParent.ParentApproval)
	assert.False(t, afterParent.FinalApproval)

	code, env = call(t, r, http.MethodPut, path, admin, gin.H{"status": "approved"})
	require.Equal(t, http.StatusOK, code)
	final := decodeLeave(t, env)
	assert.Equal(t, "approved", final.Status)
	assert.True(t, final.FinalApproval)
	assert.Empty(t, final.RejectedBy)

	code, env = call(t, r, http.MethodGet, path, student, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "approved", decodeLeave(t, env).Status)

	code, env = call(t, r, http.MethodGet, path+"/decisions", admin, nil)
	require.Equal(t, http.StatusOK, code)
	var history []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Len(t, history, 2)

	code, _ = call(t, r, http.MethodDelete, path, parent, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = call(t, r, http.MethodDelete, path, admin, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = call(t, r, http.MethodGet, path, admin, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestBuildApp_RejectionIsFinal(t *testing.T) {
	r := buildRouter(t)

	student := login(t, r, "student@example.com")
	admin := login(t, r, "admin@example.com")

	code, env := call(t, r, http.MethodPost, "/api/v1/leaves", student, gin.H{
		"category":  "medical_leave",
		"from_date": "2026-04-01",
		"to_date":   "2026-04-01",
		"from_time": "09:00",
		"to_time":   "12:00",
		"reason":    "dentist",
	})
	require.Equal(t, http.StatusCreated, code)
	id := decodeLeave(t, env).ID

	code, env = call(t, r, http.MethodPut, "/api/v1/leaves/"+id, admin, gin.H{"status": "rejected"})
	require.Equal(t, http.StatusOK, code)
	got := decodeLeave(t, env)
	assert.Equal(t, "rejected", got.Status)
	assert.False(t, got.FinalApproval)
	assert.Equal(t, []string{"admin"}, got.RejectedBy)
}

func TestBuildApp_RequiresAuth(t *testing.T) {
	r := buildRouter(t)

	code, _ := call(t, r, http.MethodGet, "/api/v1/leaves", "", nil)

	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestBuildApp_DeactivatedStudentCannotLogin(t *testing.T) {
	r := buildRouter(t)

	student := login(t, r, "student@example.com")
	admin := login(t, r, "admin@example.com")

	code, _ := call(t, r, http.MethodGet, "/api/v1/users", student, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env := call(t, r, http.MethodGet, "/api/v1/users?role=student", admin, nil)
	require.Equal(t, http.StatusOK, code)
	var users []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &users))
	require.Len(t, users, 1)

	code, _ = call(t, r, http.MethodPatch, "/api/v1/users/"+users[0].ID+"/status", admin, gin.H{"is_active": false})
	require.Equal(t, http.StatusOK, code)

	code, _ = call(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "student@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestBuildApp_ListLeavesWithHugePageSize(t *testing.T) {
	r := buildRouter(t)
	admin := login(t, r, "admin@example.com")

	code, env := call(t, r, http.MethodGet, "/api/v1/leaves?page=2&page_size=9223372036854775807", admin, nil)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Ok)
}
