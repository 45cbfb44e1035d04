package models

// Tab is one navigation tab of a course. The server issues string tab ids
// ("assignments", "grades", ...), unique per course, so the row key is
// (id, course_id).
type Tab struct {
	ID         string `db:"id" json:"id"`
	CourseID   int64  `db:"course_id" json:"-"`
	Label      string `db:"label" json:"label"`
	Position   int    `db:"position" json:"position"`
	Hidden     bool   `db:"hidden" json:"hidden"`
	IsExternal bool   `db:"is_external" json:"is_external"`
}
