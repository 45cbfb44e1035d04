package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edumirror/mirror-api/internal/service"
	"github.com/edumirror/mirror-api/pkg/response"
)

// TabHandler exposes routed tab reads.
type TabHandler struct {
	service *service.TabService
}

// NewTabHandler constructs a tab handler.
func NewTabHandler(svc *service.TabService) *TabHandler {
	return &TabHandler{service: svc}
}

// List returns the tabs of a course.
func (h *TabHandler) List(c *gin.Context) {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		response.Error(c, err)
		return
	}
	tabs, err := h.service.List(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tabs)
}
