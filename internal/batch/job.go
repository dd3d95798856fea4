package batch

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the current state of a job.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job pairs one source subtitle file with its destination path.
type Job struct {
	ID          string    `json:"id"`
	SourcePath  string    `json:"source_path"`
	DestPath    string    `json:"dest_path"`
	FileName    string    `json:"file_name"`
	Status      JobStatus `json:"status"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	StartedAt   time.Time `json:"started_at,omitempty"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// NewJob creates a pending job for one source/destination pair.
func NewJob(sourcePath, destPath, fileName string) *Job {
	return &Job{
		ID:         uuid.New().String()[:8],
		SourcePath: sourcePath,
		DestPath:   destPath,
		FileName:   fileName,
		Status:     StatusPending,
		CreatedAt:  time.Now(),
	}
}
