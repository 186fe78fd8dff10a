package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"spendly/internal/notifier"
	"spendly/internal/services"
)

// NotifierRunner runs one budget notification pass. Satisfied by
// *notifier.Notifier.
type NotifierRunner interface {
	Run(ctx context.Context, now time.Time) (*notifier.Result, error)
}

// NotificationHandler serves the test push endpoint and the internal job
// trigger used to run the notifier on demand.
type NotificationHandler struct {
	notificationService services.NotificationServicer
	runner              NotifierRunner
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService services.NotificationServicer, runner NotifierRunner) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, runner: runner}
}

// SendTest sends a test push to the caller's device
// @Summary     Send test notification
// @Description Send a test push notification to the authenticated user's registered device
// @Tags        notifications
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "Notification sent"
// @Failure     400 {object} ErrorResponse "No push token registered"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Push provider failure"
// @Router      /notifications/test [post]
func (h *NotificationHandler) SendTest(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.notificationService.SendTestNotification(c.Request.Context(), userID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Test notification sent"})
}

// RunNotifier triggers one notification pass immediately
// @Summary     Run notification job
// @Description Run one budget notification pass for the current wall-clock time. Intended for schedulers and operators; authenticated by the X-API-Key header.
// @Tags        jobs
// @Accept      json
// @Produce     json
// @Param       X-API-Key header string true "Job API key"
// @Success     200 {object} map[string]interface{} "Run result"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Run failed"
// @Router      /jobs/notifications/run [post]
func (h *NotificationHandler) RunNotifier(c *gin.Context) {
	result, err := h.runner.Run(c.Request.Context(), time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	errs := make([]string, 0, len(result.Errors))
	for i := range result.Errors {
		errs = append(errs, result.Errors[i].Error())
	}

	c.JSON(http.StatusOK, gin.H{
		"scanned":  result.Scanned,
		"sent":     result.Sent,
		"skipped":  result.Skipped,
		"errors":   errs,
		"duration": result.Duration.String(),
	})
}
