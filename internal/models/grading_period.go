package models

import "time"

// GradingPeriod is shared across courses through CourseGradingPeriod rows.
type GradingPeriod struct {
	ID        int64      `db:"id" json:"id"`
	Title     string     `db:"title" json:"title"`
	StartDate *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate   *time.Time `db:"end_date" json:"end_date,omitempty"`
}

// CourseGradingPeriod joins courses to grading periods.
type CourseGradingPeriod struct {
	CourseID        int64 `db:"course_id" json:"course_id"`
	GradingPeriodID int64 `db:"grading_period_id" json:"grading_period_id"`
}
