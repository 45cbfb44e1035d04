package models

// EnrollmentState represents the lifecycle of an enrollment.
type EnrollmentState string

// Possible enrollment states.
const (
	EnrollmentStateActive   EnrollmentState = "active"
	EnrollmentStateInvited  EnrollmentState = "invited"
	EnrollmentStateInactive EnrollmentState = "inactive"
)

// Enrollment ties a user to a course. AssociatedUserID is set for observer
// enrollments and points at the observed student.
type Enrollment struct {
	ID               int64           `db:"id" json:"id"`
	CourseID         int64           `db:"course_id" json:"course_id"`
	UserID           int64           `db:"user_id" json:"user_id"`
	AssociatedUserID *int64          `db:"associated_user_id" json:"associated_user_id,omitempty"`
	ObservedUserID   *int64          `db:"observed_user_id" json:"-"`
	Role             string          `db:"role" json:"role"`
	State            EnrollmentState `db:"enrollment_state" json:"enrollment_state"`

	User         *User   `db:"-" json:"user,omitempty"`
	ObservedUser *User   `db:"-" json:"observed_user,omitempty"`
	Grades       *Grades `db:"-" json:"grades,omitempty"`
}

// Grades is the grade snapshot embedded in an enrollment payload, persisted
// keyed by the enrollment id.
type Grades struct {
	EnrollmentID int64    `db:"enrollment_id" json:"-"`
	CurrentScore *float64 `db:"current_score" json:"current_score,omitempty"`
	FinalScore   *float64 `db:"final_score" json:"final_score,omitempty"`
	CurrentGrade *string  `db:"current_grade" json:"current_grade,omitempty"`
	FinalGrade   *string  `db:"final_grade" json:"final_grade,omitempty"`
}
