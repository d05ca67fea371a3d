package booking

import (
	"fmt"

	"coachbook/models"
)

// Course catalogue. CRUD for courses lives in the catalog service; the
// booking core only needs the pricing and qualifying-question data, so it is
// kept as a static map here. Prices are pence.
var coursesMap = map[string]models.Course{
	"foundation": {
		ID:            "foundation",
		Name:          "Foundation Programme",
		DurationWeeks: 8,
		BasePrices: map[string]int64{
			models.TrainingOneToOne: 40000,
			models.TrainingGroup:    22000,
		},
		QualifyingQuestions: []string{
			"What is your current experience level?",
			"What do you want to achieve in 8 weeks?",
		},
	},
	"advanced": {
		ID:            "advanced",
		Name:          "Advanced Programme",
		DurationWeeks: 8,
		BasePrices: map[string]int64{
			models.TrainingOneToOne: 52000,
			models.TrainingGroup:    30000,
		},
		QualifyingQuestions: []string{
			"Which programme have you completed before?",
			"What is your current weekly training volume?",
			"Do you have any injuries we should know about?",
		},
	},
	"masterclass": {
		ID:            "masterclass",
		Name:          "Masterclass",
		DurationWeeks: 8,
		BasePrices: map[string]int64{
			models.TrainingOneToOne: 68000,
			models.TrainingGroup:    38000,
		},
		QualifyingQuestions: []string{
			"How many years have you been training?",
			"What competition level are you targeting?",
		},
	},
}

// GetCoursesMap returns the static map of all courses.
func GetCoursesMap() map[string]models.Course {
	return coursesMap
}

// GetCourseByID looks up a course.
func GetCourseByID(courseID string) (models.Course, error) {
	course, ok := coursesMap[courseID]
	if !ok {
		return models.Course{}, fmt.Errorf("course with ID %s not found", courseID)
	}
	return course, nil
}
