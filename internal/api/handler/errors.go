package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/qs3c/boost_stream_server/internal/pkg/response"
	"github.com/qs3c/boost_stream_server/internal/service"
)

// renderError 把业务错误映射为统一响应
func renderError(c *gin.Context, err error) {
	var quotaErr *service.QuotaExceededError
	var conflictErr *service.ConflictError

	switch {
	case errors.As(err, &quotaErr):
		response.QuotaError(c, "", gin.H{
			"policy":              quotaErr.Policy,
			"daily_limit_hours":   quotaErr.Limit,
			"current_usage_hours": quotaErr.Used,
			"remaining_hours":     quotaErr.Remaining,
			"requested_hours":     quotaErr.Requested,
		})
	case errors.As(err, &conflictErr):
		response.ConflictError(c, "", gin.H{
			"conflicting_stream": gin.H{
				"id":              conflictErr.StreamID,
				"title":           conflictErr.Title,
				"scheduled_start": conflictErr.ScheduledStart.UTC().Format(time.RFC3339),
			},
		})
	case errors.Is(err, service.ErrNoActiveSubscription):
		response.NoSubscriptionError(c, err.Error())
	case errors.Is(err, service.ErrInvalidStateTransition),
		errors.Is(err, service.ErrInvalidPaymentState),
		errors.Is(err, service.ErrPlanInUse):
		response.StateError(c, err.Error())
	case errors.Is(err, service.ErrStreamNotFound),
		errors.Is(err, service.ErrStreamerNotFound),
		errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrSubscriptionNotFound),
		errors.Is(err, service.ErrPaymentNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrInvalidStream),
		errors.Is(err, service.ErrInvalidPlan),
		errors.Is(err, service.ErrInvalidSubscription),
		errors.Is(err, service.ErrInvalidPayment),
		errors.Is(err, service.ErrInvalidRange):
		response.ParamError(c, err.Error())
	case errors.Is(err, service.ErrDuplicatePayment),
		errors.Is(err, service.ErrStreamerExists):
		response.DuplicateError(c, err.Error())
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		response.ServerError(c, "")
	}
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.ParamError(c, "无效的ID")
		return 0, false
	}
	return id, true
}
