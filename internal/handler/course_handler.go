package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edumirror/mirror-api/internal/service"
	"github.com/edumirror/mirror-api/pkg/response"
)

// CourseHandler exposes routed course reads.
type CourseHandler struct {
	service *service.CourseService
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// Get returns one course.
func (h *CourseHandler) Get(c *gin.Context) {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.service.Get(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}
