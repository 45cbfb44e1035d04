package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edumirror/mirror-api/internal/service"
	"github.com/edumirror/mirror-api/pkg/response"
)

// FrontPageHandler exposes routed front-page reads.
type FrontPageHandler struct {
	service *service.FrontPageService
}

// NewFrontPageHandler constructs a front page handler.
func NewFrontPageHandler(svc *service.FrontPageService) *FrontPageHandler {
	return &FrontPageHandler{service: svc}
}

// Get returns the front page of a course.
func (h *FrontPageHandler) Get(c *gin.Context) {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		response.Error(c, err)
		return
	}
	page, err := h.service.Get(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page)
}
