package leave

import (
	"net/http"
	"strconv"

	leaveerrors "go-hostel-leave/internal/leave/errors"
	"go-hostel-leave/internal/shared/apperror"
	"go-hostel-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// actorFromContext reads the caller set by AuthMiddleware.
func actorFromContext(c *gin.Context) (Actor, error) {
	id, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		return Actor{}, leaveerrors.ErrInvalidActorID
	}
	role, err := ParseRole(c.GetString("role"))
	if err != nil {
		return Actor{}, err
	}
	return Actor{ID: id, Name: c.GetString("user_name"), Role: role}, nil
}

func (h *Handler) Create(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.logger.Debug("http create leave", zap.String("requester_id", actor.ID.String()))

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create leave validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	filter := ListFilter{
		Status:      c.Query("status"),
		RequesterID: c.Query("requester_id"),
	}
	h.logger.Debug("http list leaves",
		zap.String("role", string(actor.Role)),
		zap.String("status", filter.Status),
	)

	resp, err := h.service.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) History(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.History(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// Decide handles PUT /leaves/:id with {"status": "approved"|"rejected"}.
func (h *Handler) Decide(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	id := c.Param("id")
	h.logger.Debug("http decide leave",
		zap.String("leave_id", id),
		zap.String("role", string(actor.Role)),
	)

	var req DecideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	decision, err := ParseDecision(req.Status)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Decide(c.Request.Context(), actor, id, decision)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
