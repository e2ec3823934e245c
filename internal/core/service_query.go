package core

import (
	"context"
	"fmt"
	"strings"

	db "github.com/JonMunkholm/scoreload/internal/database"
)

// ParseSort builds a SortSpec from query parameters. An empty column
// falls back to DefaultSort; dir is "asc" or "desc" (default desc).
func ParseSort(column, dir string) (SortSpec, error) {
	column = strings.ToLower(strings.TrimSpace(column))
	if column == "" {
		return DefaultSort, nil
	}
	if !db.StudentSortColumns[column] {
		return SortSpec{}, fmt.Errorf("%w: column %q", ErrInvalidSort, column)
	}

	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "desc":
		return SortSpec{Column: column, Desc: true}, nil
	case "asc":
		return SortSpec{Column: column}, nil
	default:
		return SortSpec{}, fmt.Errorf("%w: direction %q", ErrInvalidSort, dir)
	}
}

// ListStudents returns every stored record in sort order.
func (s *Service) ListStudents(ctx context.Context, sort SortSpec) ([]StoredRecord, error) {
	if sort.Column == "" {
		sort = DefaultSort
	}
	if !db.StudentSortColumns[sort.Column] {
		return nil, fmt.Errorf("%w: column %q", ErrInvalidSort, sort.Column)
	}

	records, err := s.store.ListAll(ctx, sort)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return records, nil
}

func (s *Service) GetStudent(ctx context.Context, id string) (StoredRecord, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return StoredRecord{}, fmt.Errorf("get student %s: %w", id, err)
	}
	return rec, nil
}

// FindStudent looks a record up by its external student_id.
func (s *Service) FindStudent(ctx context.Context, studentID string) (StoredRecord, error) {
	rec, ok, err := s.store.FindByKey(ctx, studentID)
	if err != nil {
		return StoredRecord{}, fmt.Errorf("find student %q: %w", studentID, err)
	}
	if !ok {
		return StoredRecord{}, ErrNotFound
	}
	return rec, nil
}

// ListUploads returns the most recent upload log entries, newest first.
func (s *Service) ListUploads(ctx context.Context, limit int) ([]UploadLogEntry, error) {
	if s.uploadLog == nil {
		return []UploadLogEntry{}, nil
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	entries, err := s.uploadLog.ListUploads(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	return entries, nil
}
