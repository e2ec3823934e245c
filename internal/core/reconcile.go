package core

import (
	"context"
	"fmt"
)

// Reconciler applies canonical records to a Store.
type Reconciler struct {
	store Store
}

// NewReconciler returns a Reconciler writing to store.
func NewReconciler(store Store) *Reconciler {
	return &Reconciler{store: store}
}

// Upsert validates rec and writes it keyed by student_id. The write is a
// single atomic store call; a re-upload overwrites rather than duplicates.
func (r *Reconciler) Upsert(ctx context.Context, rec StudentRecord) (StoredRecord, error) {
	if err := ValidateRecord(rec); err != nil {
		return StoredRecord{}, err
	}
	stored, err := r.store.UpsertByKey(ctx, rec)
	if err != nil {
		return StoredRecord{}, fmt.Errorf("reconcile %q: %w", rec.StudentID, err)
	}
	return stored, nil
}

// UpsertAll reconciles records one at a time in order and stops at the
// first failure. Records before the failing one stay written; the returned
// slice holds them so callers can log what was committed.
func (r *Reconciler) UpsertAll(ctx context.Context, records []StudentRecord) ([]StoredRecord, error) {
	stored := make([]StoredRecord, 0, len(records))
	for _, rec := range records {
		s, err := r.Upsert(ctx, rec)
		if err != nil {
			return stored, err
		}
		stored = append(stored, s)
	}
	return stored, nil
}
