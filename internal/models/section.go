package models

// Section is a course section.
type Section struct {
	ID       int64  `db:"id" json:"id"`
	CourseID int64  `db:"course_id" json:"course_id"`
	Name     string `db:"name" json:"name"`
}
