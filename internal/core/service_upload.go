package core

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/scoreload/internal/logging"
	"github.com/google/uuid"
)

// ProcessUpload runs one file through parse, normalize and reconcile.
//
// Every row is normalized before the first write, so a bad row commits
// nothing. Reconciliation is sequential in file order; if a write fails,
// the rows before it stay committed and only the summary is dropped.
// Once a slot is acquired the run ignores ctx cancellation and finishes.
func (s *Service) ProcessUpload(ctx context.Context, fileName string, data []byte) (*UploadResult, error) {
	format, err := FormatFromFilename(fileName)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx = context.WithoutCancel(ctx)
	start := time.Now()
	uploadID := uuid.NewString()
	log := logging.WithFields(ctx, "upload_id", uploadID, "file", fileName, "format", format)
	log.Info("upload started", "bytes", len(data))

	phase := PhaseReceived
	fail := func(err error, committed int) (*UploadResult, error) {
		log.Warn("upload failed",
			"phase", phase,
			"committed", committed,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		s.recordUpload(ctx, UploadLogEntry{
			ID:             uploadID,
			FileName:       fileName,
			Format:         format,
			ProcessedCount: committed,
			Status:         PhaseFailed,
			Error:          err.Error(),
		})
		return nil, err
	}

	rows, err := ParseFile(data, format)
	if err != nil {
		return fail(err, 0)
	}
	phase = PhaseParsed
	log.Debug("file parsed", "rows", len(rows))

	records, err := NormalizeRows(rows)
	if err != nil {
		return fail(err, 0)
	}
	phase = PhaseNormalized

	stored, err := s.reconciler.UpsertAll(ctx, records)
	if err != nil {
		return fail(err, len(stored))
	}
	phase = PhaseCompleted

	result := &UploadResult{
		UploadID:       uploadID,
		FileName:       fileName,
		Format:         format,
		ProcessedCount: len(stored),
		Records:        stored,
		Message:        fmt.Sprintf("Successfully processed %d students", len(stored)),
		Duration:       time.Since(start),
	}

	log.Info("upload completed",
		"rows", result.ProcessedCount,
		"duration_ms", result.Duration.Milliseconds(),
	)
	s.recordUpload(ctx, UploadLogEntry{
		ID:             uploadID,
		FileName:       fileName,
		Format:         format,
		ProcessedCount: result.ProcessedCount,
		Status:         PhaseCompleted,
	})

	return result, nil
}

// recordUpload writes the upload log entry. The log is advisory; a failure
// here never changes the upload outcome.
func (s *Service) recordUpload(ctx context.Context, entry UploadLogEntry) {
	if s.uploadLog == nil {
		return
	}
	if err := s.uploadLog.RecordUpload(ctx, entry); err != nil {
		logging.FromContext(ctx).Warn("record upload failed", "upload_id", entry.ID, "error", err)
	}
}
