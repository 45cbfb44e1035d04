package models

import "time"

// SyncState describes where a course's sync currently stands.
type SyncState string

// Possible sync states.
const (
	SyncStateIdle    SyncState = "idle"
	SyncStateQueued  SyncState = "queued"
	SyncStateRunning SyncState = "running"
	SyncStateSuccess SyncState = "success"
	SyncStateFailed  SyncState = "failed"
)

// SyncStatus is the externally visible status of one course's sync.
type SyncStatus struct {
	CourseID   int64      `json:"course_id"`
	State      SyncState  `json:"state"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// AccountSettings carries the account-level flags fetched from the LMS. Only
// offline mode matters to this service.
type AccountSettings struct {
	OfflineModeEnabled bool `json:"offline_mode_enabled"`
}
