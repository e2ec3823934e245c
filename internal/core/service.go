package core

import (
	"context"

	"github.com/JonMunkholm/scoreload/internal/config"
)

// Service is the entry point for uploads and direct record edits.
// It holds no per-upload state; the Store is the only source of truth.
type Service struct {
	store      Store
	uploadLog  UploadLog
	reconciler *Reconciler
	limiter    *UploadLimiter
}

// NewService wires a Service. uploadLog may be nil to skip upload history.
func NewService(store Store, uploadLog UploadLog, cfg *config.Config) *Service {
	return &Service{
		store:      store,
		uploadLog:  uploadLog,
		reconciler: NewReconciler(store),
		limiter:    NewUploadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
	}
}

// UploadLimiterStatus reports upload slot usage.
func (s *Service) UploadLimiterStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// WaitForUploads blocks until in-flight uploads finish or ctx ends.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// Ping reports whether the backing store is reachable. Stores that cannot
// be pinged are assumed healthy.
func (s *Service) Ping(ctx context.Context) error {
	if p, ok := s.store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}
