package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edumirror/mirror-api/internal/service"
	appErrors "github.com/edumirror/mirror-api/pkg/errors"
	"github.com/edumirror/mirror-api/pkg/response"
)

// SyncHandler exposes course sync endpoints.
type SyncHandler struct {
	service *service.SyncService
}

// NewSyncHandler constructs a sync handler.
func NewSyncHandler(svc *service.SyncService) *SyncHandler {
	return &SyncHandler{service: svc}
}

// SyncCourse queues a snapshot sync for one course.
func (h *SyncHandler) SyncCourse(c *gin.Context) {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		response.Error(c, err)
		return
	}
	statuses, err := h.service.Enqueue(c.Request.Context(), service.SyncRequest{CourseIDs: []int64{courseID}})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, statuses[0])
}

// SyncBatch queues snapshot syncs for a batch of courses.
func (h *SyncHandler) SyncBatch(c *gin.Context) {
	var req service.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	statuses, err := h.service.Enqueue(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, statuses)
}

// Status reports the last known sync status of one course.
func (h *SyncHandler) Status(c *gin.Context) {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.service.Status(courseID))
}
