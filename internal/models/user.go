package models

// User mirrors an LMS user referenced by enrollments.
type User struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	ShortName string `db:"short_name" json:"short_name"`
	LoginID   string `db:"login_id" json:"login_id"`
	AvatarURL string `db:"avatar_url" json:"avatar_url"`
}
