package models

// Course describes a coaching programme a customer can book onto. Base prices
// are per training type and expressed in pence; 1v1 and group rates are
// independent per course.
type Course struct {
	ID                  string           `json:"id"`
	Name                string           `json:"name"`
	DurationWeeks       int              `json:"durationWeeks"`
	BasePrices          map[string]int64 `json:"basePrices"` // training type -> pence
	QualifyingQuestions []string         `json:"qualifyingQuestions"`
}

// BasePriceFor returns the course base price for the given training type.
func (c Course) BasePriceFor(trainingType string) (int64, bool) {
	p, ok := c.BasePrices[trainingType]
	return p, ok
}
