package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HarelItay/leaders-alumni-association/internal/directory"
	"github.com/HarelItay/leaders-alumni-association/internal/storage"
)

// JobType identifies dataset import jobs in the queue.
const JobType = "profile_import"

// JobStore abstracts the storage operations the Worker needs.
// Implemented by storage.Store.
type JobStore interface {
	ClaimNextJob(types []string) (*storage.Job, error)
	CompleteJob(id string) error
	FailJob(id string, errMsg string) error
	SaveProfile(p directory.Profile) error
}

// Reloader refreshes the in-memory directory snapshot after an import.
// Implemented by directory.Directory.
type Reloader interface {
	Reload() error
}

// Worker processes profile_import jobs from the SQLite job queue.
type Worker struct {
	store    JobStore
	reloader Reloader
	poll     time.Duration
	logger   *slog.Logger
}

// NewWorker creates a Worker with the given dependencies.
// If pollInterval is <= 0, it defaults to 500ms.
func NewWorker(store JobStore, reloader Reloader, pollInterval time.Duration) *Worker {
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	return &Worker{
		store:    store,
		reloader: reloader,
		poll:     pollInterval,
		logger:   slog.Default(),
	}
}

// Run polls for jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		done, err := w.RunOnce(ctx)
		if err != nil {
			w.logger.Error("worker iteration failed", "error", err)
		}
		if done {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.poll):
		}
	}
}

// RunOnce claims and processes a single profile_import job.
// Returns true if a job was processed (regardless of success/failure).
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	job, err := w.store.ClaimNextJob([]string{JobType})
	if err != nil {
		return false, fmt.Errorf("claiming job: %w", err)
	}
	if job == nil {
		return false, nil
	}

	if err := w.processJob(ctx, job); err != nil {
		w.logger.Warn("import job failed", "job_id", job.ID, "error", err)
		if failErr := w.store.FailJob(job.ID, err.Error()); failErr != nil {
			w.logger.Error("failed to mark job as failed", "job_id", job.ID, "error", failErr)
		}
		return true, nil
	}

	if err := w.store.CompleteJob(job.ID); err != nil {
		return true, fmt.Errorf("completing job %s: %w", job.ID, err)
	}
	return true, nil
}

// importPayload carries either a dataset file path or inline content.
// Format is optional for paths (detected from the extension) and required
// for inline content.
type importPayload struct {
	Path    string `json:"path,omitempty"`
	Content string `json:"content,omitempty"`
	Format  string `json:"format,omitempty"`
}

// EnqueueFile queues an import of a dataset file. Returns the job ID.
func EnqueueFile(store interface{ EnqueueJob(storage.Job) error }, path string) (string, error) {
	payload, err := json.Marshal(importPayload{Path: path})
	if err != nil {
		return "", fmt.Errorf("marshalling payload: %w", err)
	}
	job := storage.Job{
		ID:          uuid.New().String(),
		Type:        JobType,
		PayloadJSON: string(payload),
	}
	if err := store.EnqueueJob(job); err != nil {
		return "", fmt.Errorf("enqueueing import: %w", err)
	}
	return job.ID, nil
}

// EnqueueContent queues an import of inline dataset content. Returns the job ID.
func EnqueueContent(store interface{ EnqueueJob(storage.Job) error }, content, format string) (string, error) {
	payload, err := json.Marshal(importPayload{Content: content, Format: format})
	if err != nil {
		return "", fmt.Errorf("marshalling payload: %w", err)
	}
	job := storage.Job{
		ID:          uuid.New().String(),
		Type:        JobType,
		PayloadJSON: string(payload),
	}
	if err := store.EnqueueJob(job); err != nil {
		return "", fmt.Errorf("enqueueing import: %w", err)
	}
	return job.ID, nil
}

func (w *Worker) processJob(ctx context.Context, job *storage.Job) error {
	var payload importPayload
	if err := json.Unmarshal([]byte(job.PayloadJSON), &payload); err != nil {
		return fmt.Errorf("parsing payload: %w", err)
	}

	profiles, err := w.loadProfiles(payload)
	if err != nil {
		return err
	}

	for i := range profiles {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if profiles[i].ID == "" {
			profiles[i].ID = uuid.New().String()
		}
		if err := w.store.SaveProfile(profiles[i]); err != nil {
			return fmt.Errorf("saving profile %s: %w", profiles[i].ID, err)
		}
	}

	if err := w.reloader.Reload(); err != nil {
		return fmt.Errorf("reloading directory: %w", err)
	}

	w.logger.Info("imported profiles", "job_id", job.ID, "count", len(profiles))
	return nil
}

func (w *Worker) loadProfiles(payload importPayload) ([]directory.Profile, error) {
	switch {
	case payload.Path != "":
		data, err := os.ReadFile(payload.Path)
		if err != nil {
			return nil, fmt.Errorf("reading dataset %s: %w", payload.Path, err)
		}
		format := directory.Format(payload.Format)
		if format == "" {
			format, err = directory.DetectFormat(payload.Path)
			if err != nil {
				return nil, err
			}
		}
		return directory.Parse(bytes.NewReader(data), format)
	case payload.Content != "":
		if payload.Format == "" {
			return nil, fmt.Errorf("inline content requires a format")
		}
		return directory.Parse(strings.NewReader(payload.Content), directory.Format(payload.Format))
	default:
		return nil, fmt.Errorf("payload has neither path nor content")
	}
}
