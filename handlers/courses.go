package handlers

import (
	"net/http"

	"coachbook/services/booking"

	"github.com/gin-gonic/gin"
)

// ListCourses returns the course catalog with base prices and qualifying
// questions.
func ListCourses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"courses": booking.GetCoursesMap()})
}

// GetCourse returns one course by id.
func GetCourse(c *gin.Context) {
	course, err := booking.GetCourseByID(c.Param("courseID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}
	c.JSON(http.StatusOK, course)
}
