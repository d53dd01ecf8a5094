package demo

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
	l := zap.L().Named("demo.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("demo.handler")
	}
	return &Handler{svc: service, logger: l}
}

func (h *Handler) Init(c *gin.Context) {
	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)

	res, err := h.svc.Init(ctx)
	if err != nil {
		he := apperror.ToHTTP(err)
		response.Error(c, he.Status, he.Code, he.Detail)
		return
	}

	response.Success(c, http.StatusOK, res)
}
