package leave_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"go-hostel-leave/internal/leave"
	leaveerrors "go-hostel-leave/internal/leave/errors"
	leaveMock "go-hostel-leave/internal/leave/mock"
	"go-hostel-leave/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	os.Exit(m.Run())
}

type envelope struct {
	Ok   bool            `json:"ok"`
	Data json.RawMessage `json:"data"`
	Meta *struct {
		Total    int64 `json:"total"`
		Page     int   `json:"page"`
		PageSize int   `json:"pageSize"`
	} `json:"meta"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func withActor(actor leave.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", actor.ID.String())
		c.Set("user_name", actor.Name)
		c.Set("role", string(actor.Role))
		c.Next()
	}
}

func setupRouter(svc leave.Service, actor leave.Actor) *gin.Engine {
	h := leave.NewHandler(svc)
	r := gin.New()
	g := r.Group("/leaves", withActor(actor))
	g.POST("", h.Create)
	g.GET("", h.GetAll)
	g.GET("/:id", h.GetByID)
	g.GET("/:id/decisions", h.History)
	g.PUT("/:id", h.Decide)
	g.DELETE("/:id", h.Delete)
	return r
}

func perform(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLeaveHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	actor := student()

	t.Run("success", func(t *testing.T) {
		svc := leaveMock.NewMockService(ctrl)
		svc.EXPECT().
			Create(gomock.Any(), actor, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ leave.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, "medical_leave", req.Category)
				assert.Equal(t, "09:30", req.FromTime)
				return leave.LeaveResponse{ID: uuid.New().String(), Status: "pending", Category: req.Category}, nil
			})

		body := `{"category":"medical_leave","from_date":"2026-03-10","to_date":"2026-03-10","from_time":"09:30","reason":"clinic"}`
		w := perform(setupRouter(svc, actor), http.MethodPost, "/leaves", body)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w)
		assert.True(t, env.Ok)
		assert.Contains(t, string(env.Data), `"status":"pending"`)
	})

	t.Run("validation error", func(t *testing.T) {
		svc := leaveMock.NewMockService(ctrl)
		svc.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		w := perform(setupRouter(svc, actor), http.MethodPost, "/leaves", `{"category":"holiday"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w)
		assert.False(t, env.Ok)
		assert.Equal(t, apperror.CodeInvalidInput, env.Error.Code)
	})

	t.Run("bad time format is caught at binding", func(t *testing.T) {
		svc := leaveMock.NewMockService(ctrl)
		svc.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		body := `{"category":"other","from_date":"2026-03-10","to_date":"2026-03-10","from_time":"9:30","reason":"x"}`
		w := perform(setupRouter(svc, actor), http.MethodPost, "/leaves", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("service error", func(t *testing.T) {
		svc := leaveMock.NewMockService(ctrl)
		svc.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(leave.LeaveResponse{}, leaveerrors.ErrOnlyStudentsCreate)

		body := `{"category":"other","from_date":"2026-03-10","to_date":"2026-03-11","reason":"x"}`
		w := perform(setupRouter(svc, actor), http.MethodPost, "/leaves", body)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, apperror.CodeForbidden, decodeEnvelope(t, w).Error.Code)
	})

	t.Run("missing caller identity", func(t *testing.T) {
		svc := leaveMock.NewMockService(ctrl)
		h := leave.NewHandler(svc)
		r := gin.New()
		r.POST("/leaves", h.Create)

		w := perform(r, http.MethodPost, "/leaves", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveHandler_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	actor := approver(leave.RoleAdmin)

	t.Run("paginates and forwards filters", func(t *testing.T) {
		svc := leaveMock.NewMockService(ctrl)
		items := make([]leave.LeaveResponse, 5)
		for i := range items {
			items[i] = leave.LeaveResponse{ID: uuid.New().String()}
		}
		svc.EXPECT().
			List(gomock.Any(), actor, leave.ListFilter{Status: "pending"}).
			Return(items, nil)

		w := perform(setupRouter(svc, actor), http.MethodGet, "/leaves?status=pending&page=2&page_size=2", "")

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		var got []leave.LeaveResponse
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, items[2:4], got)
		require.NotNil(t, env.Meta)
		assert.Equal(t, int64(5), env.Meta.Total)
		assert.Equal(t, 2, env.Meta.Page)
	})

	t.Run("invalid status filter", func(t *testing.T) {
		svc := leaveMock.NewMockService(ctrl)
		svc.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, leaveerrors.ErrInvalidStatusFilter)

		w := perform(setupRouter(svc, actor), http.MethodGet, "/leaves?status=done", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveHandler_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	actor := student()
	id := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := leaveMock.NewMockService(ctrl)
		svc.EXPECT().GetByID(gomock.Any(), actor, id).Return(leave.LeaveResponse{ID: id}, nil)

		w := perform(setupRouter(svc, actor), http.MethodGet, "/leaves/"+id, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), id)
	})

	t.Run("not found", func(t *testing.T) {
		svc := leaveMock.NewMockService(ctrl)
		svc.EXPECT().GetByID(gomock.Any(), actor, id).Return(leave.LeaveResponse{}, leaveerrors.ErrLeaveNotFound)

		w := perform(setupRouter(svc, actor), http.MethodGet, "/leaves/"+id, "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperror.CodeNotFound, decodeEnvelope(t, w).Error.Code)
	})

	t.Run("internal error is not leaked", func(t *testing.T) {
		svc := leaveMock.NewMockService(ctrl)
		svc.EXPECT().GetByID(gomock.Any(), actor, id).Return(leave.LeaveResponse{}, errors.New("pq: connection refused"))

		w := perform(setupRouter(svc, actor), http.MethodGet, "/leaves/"+id, "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestLeaveHandler_History(t *testing.T) {
	ctrl := gomock.NewController(t)
	actor := approver(leave.RoleParent)
	id := uuid.New().String()

	svc := leaveMock.NewMockService(ctrl)
	svc.EXPECT().History(gomock.Any(), actor, id).Return([]leave.DecisionResponse{
		{LeaveID: id, Role: "admin", Decision: "rejected"},
	}, nil)

	w := perform(setupRouter(svc, actor), http.MethodGet, "/leaves/"+id+"/decisions", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var got []leave.DecisionResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &got))
	assert.Len(t, got, 1)
	assert.Equal(t, "rejected", got[0].Decision)
}

func TestLeaveHandler_Decide(t *testing.T) {
	ctrl := gomock.NewController(t)
	actor := approver(leave.RoleParent)
	id := uuid.New().String()

	t.Run("approve", func(t *testing.T) {
		svc := leaveMock.NewMockService(ctrl)
		svc.EXPECT().
			Decide(gomock.Any(), actor, id, leave.DecisionApprove).
			Return(leave.LeaveResponse{ID: id, Status: "pending", ParentApproval: true}, nil)

		w := perform(setupRouter(svc, actor), http.MethodPut, "/leaves/"+id, `{"status":"approved"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"parent_approval":true`)
	})

	t.Run("pending is not a decision", func(t *testing.T) {
		svc := leaveMock.NewMockService(ctrl)
		svc.EXPECT().Decide(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		w := perform(setupRouter(svc, actor), http.MethodPut, "/leaves/"+id, `{"status":"pending"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeInvalidInput, decodeEnvelope(t, w).Error.Code)
	})

	t.Run("missing status", func(t *testing.T) {
		svc := leaveMock.NewMockService(ctrl)

		w := perform(setupRouter(svc, actor), http.MethodPut, "/leaves/"+id, `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("concurrent update", func(t *testing.T) {
		svc := leaveMock.NewMockService(ctrl)
		svc.EXPECT().
			Decide(gomock.Any(), actor, id, leave.DecisionReject).
			Return(leave.LeaveResponse{}, leaveerrors.ErrLeaveConflict)

		w := perform(setupRouter(svc, actor), http.MethodPut, "/leaves/"+id, `{"status":"rejected"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestLeaveHandler_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	actor := approver(leave.RoleAdmin)
	id := uuid.New().String()

	svc := leaveMock.NewMockService(ctrl)
	svc.EXPECT().Delete(gomock.Any(), actor, id).Return(nil)

	w := perform(setupRouter(svc, actor), http.MethodDelete, "/leaves/"+id, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted":true`)
}
