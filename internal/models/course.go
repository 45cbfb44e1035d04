package models

import "time"

// Course mirrors one LMS course row. Embedded collections are populated only
// on the network payload fetched for a sync snapshot; the local store keeps
// them in their own tables.
type Course struct {
	ID                               int64      `db:"id" json:"id"`
	Name                             string     `db:"name" json:"name"`
	CourseCode                       string     `db:"course_code" json:"course_code"`
	TermID                           *int64     `db:"term_id" json:"-"`
	RestrictEnrollmentsToCourseDates bool       `db:"restrict_enrollments_to_course_dates" json:"restrict_enrollments_to_course_dates"`
	AccessRestrictedByDate           bool       `db:"access_restricted_by_date" json:"access_restricted_by_date"`
	SyncedAt                         *time.Time `db:"synced_at" json:"-"`

	Term           *Term           `db:"-" json:"term,omitempty"`
	Enrollments    []Enrollment    `db:"-" json:"enrollments,omitempty"`
	GradingPeriods []GradingPeriod `db:"-" json:"grading_periods,omitempty"`
	Sections       []Section       `db:"-" json:"sections,omitempty"`
}
