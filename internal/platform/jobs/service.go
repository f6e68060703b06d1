package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"laportal/internal/platform/querier"
)

const (
	JobSPXImport   = "spx_import"
	JobApplyLabels = "seller_apply_labels"
)

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type RunFunc func(context.Context) (any, error)

// RunStore persists job_runs rows.
type RunStore interface {
	Start(ctx context.Context, jobType, requestedBy string) (string, error)
	Finish(ctx context.Context, runID, status string, details []byte) error
}

type Service struct {
	Runs  RunStore
	queue chan job
	wg    sync.WaitGroup
}

type job struct {
	Type        string
	RequestedBy string
	Run         RunFunc
}

func New(runs RunStore) *Service {
	return &Service{Runs: runs, queue: make(chan job, 128)}
}

func (s *Service) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.worker(ctx)
	}()
}

// Wait blocks until the worker exits after ctx cancellation.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) Enqueue(jobType, requestedBy string, run RunFunc) bool {
	select {
	case s.queue <- job{Type: jobType, RequestedBy: requestedBy, Run: run}:
		return true
	default:
		slog.Warn("job queue full", "jobType", jobType)
		return false
	}
}

// RunNow executes run synchronously but still records the run.
func (s *Service) RunNow(ctx context.Context, jobType, requestedBy string, run RunFunc) (any, error) {
	return s.runJob(ctx, job{Type: jobType, RequestedBy: requestedBy, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if s.Runs != nil {
		id, err := s.Runs.Start(ctx, j.Type, j.RequestedBy)
		if err != nil {
			slog.Warn("job run insert failed", "jobType", j.Type, "err", err)
		}
		runID = id
	}

	details, err := j.Run(ctx)
	status := StatusCompleted
	if err != nil {
		status = StatusFailed
		details = map[string]any{"error": err.Error(), "partial": details}
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if updErr := s.Runs.Finish(ctx, runID, status, detailsJSON); updErr != nil {
			slog.Warn("job run update failed", "runId", runID, "err", updErr)
		}
	}
	if err != nil {
		return nil, err
	}
	return details, nil
}

type PGRunStore struct {
	DB querier.Querier
}

func NewPGRunStore(db querier.Querier) *PGRunStore {
	return &PGRunStore{DB: db}
}

func (p *PGRunStore) Start(ctx context.Context, jobType, requestedBy string) (string, error) {
	var requester any
	if requestedBy != "" {
		requester = requestedBy
	}
	var id string
	err := p.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status, requested_by)
    VALUES ($1,$2,$3)
    RETURNING id
  `, jobType, StatusRunning, requester).Scan(&id)
	return id, err
}

func (p *PGRunStore) Finish(ctx context.Context, runID, status string, details []byte) error {
	_, err := p.DB.Exec(ctx, `
    UPDATE job_runs
    SET status = $1, details_json = $2, completed_at = now()
    WHERE id = $3
  `, status, details, runID)
	return err
}
