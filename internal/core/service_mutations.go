package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/scoreload/internal/logging"
)

// CreateStudent inserts a single record outside of an upload. The
// percentage is always computed here; any value on rec is ignored.
// A taken student_id fails with ErrDuplicateStudent.
func (s *Service) CreateStudent(ctx context.Context, rec StudentRecord) (StoredRecord, error) {
	rec.Percentage = ComputePercentage(rec.MarksObtained, rec.TotalMarks)
	if err := ValidateRecord(rec); err != nil {
		return StoredRecord{}, err
	}

	stored, err := s.store.Create(ctx, rec)
	if err != nil {
		return StoredRecord{}, fmt.Errorf("create student %q: %w", rec.StudentID, err)
	}

	logging.FromContext(ctx).Info("student created", "id", stored.ID, "student_id", stored.StudentID)
	return stored, nil
}

// UpdateStudent overwrites the editable fields of the record with id and
// recomputes its percentage.
func (s *Service) UpdateStudent(ctx context.Context, id string, fields StudentFields) (StoredRecord, error) {
	if err := ValidateFields(fields); err != nil {
		return StoredRecord{}, err
	}

	pct := ComputePercentage(fields.MarksObtained, fields.TotalMarks)
	stored, err := s.store.Update(ctx, id, fields, pct)
	if err != nil {
		return StoredRecord{}, fmt.Errorf("update student %s: %w", id, err)
	}

	logging.FromContext(ctx).Info("student updated", "id", stored.ID, "student_id", stored.StudentID)
	return stored, nil
}

// DeleteStudent removes the record with id. ErrNotFound if there is none.
func (s *Service) DeleteStudent(ctx context.Context, id string) (StoredRecord, error) {
	deleted, err := s.store.DeleteByKey(ctx, id)
	if err != nil {
		return StoredRecord{}, fmt.Errorf("delete student %s: %w", id, err)
	}

	logging.FromContext(ctx).Info("student deleted", "id", deleted.ID, "student_id", deleted.StudentID)
	return deleted, nil
}
