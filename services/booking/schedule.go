package booking

import "time"

// sessionTemplate is one recurring weekly coaching window.
type sessionTemplate struct {
	Weekday  time.Weekday
	Start    string // "15:04"
	Capacity int
}

// weeklySchedule is the recurring timetable slots are generated from. Slots
// exist only as long as this template says so; nothing is persisted for a
// slot until a hold is placed against it.
var weeklySchedule = []sessionTemplate{
	{Weekday: time.Monday, Start: "10:00", Capacity: 4},
	{Weekday: time.Monday, Start: "14:00", Capacity: 4},
	{Weekday: time.Monday, Start: "18:00", Capacity: 6},
	{Weekday: time.Tuesday, Start: "14:00", Capacity: 4},
	{Weekday: time.Tuesday, Start: "18:00", Capacity: 6},
	{Weekday: time.Wednesday, Start: "10:00", Capacity: 4},
	{Weekday: time.Wednesday, Start: "18:00", Capacity: 6},
	{Weekday: time.Thursday, Start: "14:00", Capacity: 4},
	{Weekday: time.Thursday, Start: "18:00", Capacity: 6},
	{Weekday: time.Friday, Start: "10:00", Capacity: 4},
	{Weekday: time.Friday, Start: "14:00", Capacity: 4},
	{Weekday: time.Saturday, Start: "09:00", Capacity: 8},
	{Weekday: time.Saturday, Start: "11:00", Capacity: 8},
}

// templateFor returns the template for a weekday and start time, if scheduled.
func templateFor(weekday time.Weekday, start string) (sessionTemplate, bool) {
	for _, tpl := range weeklySchedule {
		if tpl.Weekday == weekday && tpl.Start == start {
			return tpl, true
		}
	}
	return sessionTemplate{}, false
}

// templatesFor returns all templates scheduled on a weekday.
func templatesFor(weekday time.Weekday) []sessionTemplate {
	var out []sessionTemplate
	for _, tpl := range weeklySchedule {
		if tpl.Weekday == weekday {
			out = append(out, tpl)
		}
	}
	return out
}
