package models

import "time"

// FrontPage is the course home wiki page, mirrored so the course landing
// content stays readable offline. One row per course.
type FrontPage struct {
	CourseID  int64      `db:"course_id" json:"-"`
	URL       string     `db:"url" json:"url"`
	Title     string     `db:"title" json:"title"`
	Body      string     `db:"body" json:"body"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
