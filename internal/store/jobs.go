/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package store

import (
	"math"

	"github.com/ChenM0M/Vecho/internal/events"
	"github.com/ChenM0M/Vecho/internal/gateway"
	"github.com/ChenM0M/Vecho/internal/models"
	"github.com/ChenM0M/Vecho/internal/telemetry"
)

// workerJobTypes maps the worker's job_type vocabulary onto the local
// one. Unknown types fall back to transcription, the most common job.
var workerJobTypes = map[string]models.JobType{
	"import":        models.JobImport,
	"transcription": models.JobTranscription,
	"transcribe":    models.JobTranscription,
	"optimize":      models.JobOptimize,
	"summary":       models.JobSummary,
	"summarize":     models.JobSummary,
	"download":      models.JobDownload,
	"export":        models.JobExport,
	"subtitle":      models.JobSubtitle,
}

// workerJobStatuses maps the worker's status vocabulary onto the local
// one. Anything unrecognized is treated as cancelled so a half-dead
// worker cannot leave a job spinning forever.
var workerJobStatuses = map[string]models.JobStatus{
	"queued":     models.JobPending,
	"pending":    models.JobPending,
	"running":    models.JobProcessing,
	"processing": models.JobProcessing,
	"succeeded":  models.JobCompleted,
	"completed":  models.JobCompleted,
	"failed":     models.JobFailed,
	"cancelled":  models.JobCancelled,
}

// AddProcessingJob registers a locally initiated job before the worker
// emits its first progress event for it. The table is newest-first and
// bounded.
func (s *Store) AddProcessingJob(id string, mediaID string, jobType models.JobType) models.ProcessingJob {
	now := s.now()
	if id == "" {
		id = s.newID("job")
	}
	job := models.ProcessingJob{
		ID:        id,
		MediaID:   mediaID,
		Type:      jobType,
		Status:    models.JobPending,
		StartedAt: &now,
	}

	s.mu.Lock()
	s.jobs = append([]models.ProcessingJob{job}, s.jobs...)
	if len(s.jobs) > s.jobLimit {
		s.jobs = s.jobs[:s.jobLimit]
	}
	s.recountActiveJobsLocked()
	s.mu.Unlock()

	s.publish(events.EventJobsUpdated, job.ID)
	return job
}

// UpdateJobProgress bumps a job's progress locally. An empty status
// leaves the current status alone.
func (s *Store) UpdateJobProgress(id string, progress int, status models.JobStatus) bool {
	s.mu.Lock()
	idx := s.jobIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	job := &s.jobs[idx]
	job.Progress = clampProgress(progress)
	if status != "" {
		s.transitionJobLocked(job, status, "")
	}
	s.recountActiveJobsLocked()
	s.mu.Unlock()

	s.publish(events.EventJobsUpdated, id)
	return true
}

// ApplyJobProgress reconciles one worker progress event into the job
// table: update by job id when known, insert otherwise. Replaying the
// same terminal event is idempotent. Jobs live only in memory, so this
// never schedules a save.
func (s *Store) ApplyJobProgress(evt gateway.JobProgressEvent) {
	telemetry.JobEventsTotal.Inc()

	status, ok := workerJobStatuses[evt.Status]
	if !ok {
		s.logger.Warn().Str("job", evt.JobID).Str("status", evt.Status).Msg("unknown job status from worker")
		status = models.JobCancelled
	}
	progress := clampProgress(int(math.Round(evt.Progress * 100)))

	s.mu.Lock()
	idx := s.jobIndexLocked(evt.JobID)
	if idx < 0 {
		jobType, ok := workerJobTypes[evt.JobType]
		if !ok {
			jobType = models.JobTranscription
		}
		now := s.now()
		job := models.ProcessingJob{
			ID:        evt.JobID,
			MediaID:   evt.MediaID,
			Type:      jobType,
			Status:    models.JobPending,
			StartedAt: &now,
		}
		s.jobs = append([]models.ProcessingJob{job}, s.jobs...)
		if len(s.jobs) > s.jobLimit {
			s.jobs = s.jobs[:s.jobLimit]
		}
		idx = 0
	}
	job := &s.jobs[idx]
	job.Progress = progress
	if evt.Message != "" {
		job.Message = evt.Message
	}
	s.transitionJobLocked(job, status, evt.Message)
	s.recountActiveJobsLocked()
	s.mu.Unlock()

	s.publish(events.EventJobsUpdated, evt.JobID)
}

// transitionJobLocked applies a status change. CompletedAt latches on
// the first terminal transition and never moves on replays; Error is
// set only for failures.
func (s *Store) transitionJobLocked(job *models.ProcessingJob, status models.JobStatus, message string) {
	wasTerminal := job.Status.Terminal()
	job.Status = status
	if status.Terminal() {
		if !wasTerminal || job.CompletedAt == nil {
			now := s.now()
			job.CompletedAt = &now
		}
		job.Progress = clampTerminalProgress(status, job.Progress)
	}
	if status == models.JobFailed {
		if message != "" {
			job.Error = message
		} else if job.Error == "" {
			job.Error = "job failed"
		}
	} else {
		job.Error = ""
	}
}

// clampTerminalProgress pins completed jobs at 100.
func clampTerminalProgress(status models.JobStatus, progress int) int {
	if status == models.JobCompleted {
		return 100
	}
	return progress
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func (s *Store) jobIndexLocked(id string) int {
	for i := range s.jobs {
		if s.jobs[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) recountActiveJobsLocked() {
	active := 0
	for i := range s.jobs {
		if !s.jobs[i].Status.Terminal() {
			active++
		}
	}
	telemetry.JobsActive.Set(float64(active))
}

// ClearFinishedJobs removes terminal jobs from the table.
func (s *Store) ClearFinishedJobs() int {
	s.mu.Lock()
	kept := make([]models.ProcessingJob, 0, len(s.jobs))
	removed := 0
	for _, j := range s.jobs {
		if j.Status.Terminal() {
			removed++
			continue
		}
		kept = append(kept, j)
	}
	s.jobs = kept
	s.mu.Unlock()

	if removed > 0 {
		s.publish(events.EventJobsUpdated, nil)
	}
	return removed
}
