package leave

import (
	"net/http"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{svc: service, logger: l}
}

func writeError(c *gin.Context, err error) {
	he := apperror.ToHTTP(err)
	response.Error(c, he.Status, he.Code, he.Detail)
}

func (h *Handler) Submit(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperror.MapValidationError(err))
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)

	res, err := h.svc.Submit(ctx, userID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res)
}

func (h *Handler) List(c *gin.Context) {
	userID := c.GetString("user_id")
	canReadAll := c.GetBool("can_read_all")

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)

	res, err := h.svc.List(ctx, userID, canReadAll)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Balance(c *gin.Context) {
	userID := c.GetString("user_id")

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)

	res, err := h.svc.Balance(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Review(c *gin.Context) {
	reviewerID := c.GetString("user_id")
	id := c.Param("id")

	var req ReviewLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperror.MapValidationError(err))
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)

	res, err := h.svc.Review(ctx, reviewerID, id, req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res)
}
