package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edumirror/mirror-api/internal/models"
	appErrors "github.com/edumirror/mirror-api/pkg/errors"
	"github.com/edumirror/mirror-api/pkg/jobs"
)

type syncEngine interface {
	SyncCourse(ctx context.Context, courseID int64) error
}

type jobQueue interface {
	Enqueue(job jobs.Job) error
}

// SyncRequest triggers mirroring for a batch of courses.
type SyncRequest struct {
	CourseIDs []int64 `json:"course_ids" validate:"required,min=1,dive,gt=0"`
}

// SyncService drives course snapshot syncs and tracks their status. Retries
// are the queue's concern; the service only records outcomes.
type SyncService struct {
	engine    syncEngine
	queue     jobQueue
	validator *validator.Validate
	logger    *zap.Logger

	mu       sync.RWMutex
	statuses map[int64]models.SyncStatus
	metrics  *MetricsService
}

// NewSyncService creates a new sync service instance.
func NewSyncService(engine syncEngine, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *SyncService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{
		engine:    engine,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		statuses:  make(map[int64]models.SyncStatus),
	}
}

// SetQueue attaches the job queue. Called once during wiring; the queue's
// handler is RunJob, so the dependency is necessarily circular.
func (s *SyncService) SetQueue(q jobQueue) {
	s.queue = q
}

// Enqueue validates the request and queues one job per course.
func (s *SyncService) Enqueue(ctx context.Context, req SyncRequest) ([]models.SyncStatus, error) {
	if err := s.validator.StructCtx(ctx, req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sync request")
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "sync queue not configured")
	}

	statuses := make([]models.SyncStatus, 0, len(req.CourseIDs))
	for _, courseID := range req.CourseIDs {
		job := jobs.Job{ID: uuid.NewString(), CourseID: courseID}
		if err := s.queue.Enqueue(job); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "enqueue sync job")
		}
		status := s.setState(courseID, models.SyncStateQueued, nil, "")
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// RunJob executes one queued sync. It is the handler attached to the queue.
func (s *SyncService) RunJob(ctx context.Context, job jobs.Job) error {
	started := time.Now().UTC()
	s.setState(job.CourseID, models.SyncStateRunning, &started, "")

	err := s.engine.SyncCourse(ctx, job.CourseID)
	finished := time.Now().UTC()
	s.metrics.ObserveSync(time.Since(started), err == nil)

	if err != nil {
		s.mu.Lock()
		status := s.statuses[job.CourseID]
		status.State = models.SyncStateFailed
		status.FinishedAt = &finished
		status.Error = appErrors.FromError(err).Code
		s.statuses[job.CourseID] = status
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	status := s.statuses[job.CourseID]
	status.State = models.SyncStateSuccess
	status.FinishedAt = &finished
	status.Error = ""
	s.statuses[job.CourseID] = status
	s.mu.Unlock()
	return nil
}

// Status reports the last known sync status of a course.
func (s *SyncService) Status(courseID int64) models.SyncStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if status, ok := s.statuses[courseID]; ok {
		return status
	}
	return models.SyncStatus{CourseID: courseID, State: models.SyncStateIdle}
}

func (s *SyncService) setState(courseID int64, state models.SyncState, startedAt *time.Time, errCode string) models.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := s.statuses[courseID]
	status.CourseID = courseID
	status.State = state
	status.Error = errCode
	if startedAt != nil {
		status.StartedAt = startedAt
		status.FinishedAt = nil
	}
	s.statuses[courseID] = status
	return status
}
