package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	db "github.com/JonMunkholm/scoreload/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres SQLSTATE codes the store translates.
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
	pgNotNull         = "23502"
)

// PostgresStore implements Store and UploadLog on a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	q    *db.Queries
}

// NewPostgresStore wraps pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, q: db.New(pool)}
}

// Ping checks the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) FindByKey(ctx context.Context, studentID string) (StoredRecord, bool, error) {
	row, err := s.q.GetStudentByStudentID(ctx, studentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return StoredRecord{}, false, nil
	}
	if err != nil {
		return StoredRecord{}, false, fmt.Errorf("find student %q: %w", studentID, err)
	}
	return toStoredRecord(row), true, nil
}

func (s *PostgresStore) UpsertByKey(ctx context.Context, rec StudentRecord) (StoredRecord, error) {
	row, err := s.q.UpsertStudent(ctx, db.UpsertStudentParams{
		StudentID:     rec.StudentID,
		StudentName:   rec.StudentName,
		TotalMarks:    rec.TotalMarks,
		MarksObtained: rec.MarksObtained,
		Percentage:    float64(rec.Percentage),
	})
	if err != nil {
		return StoredRecord{}, translatePgError(rec.StudentID, fmt.Errorf("upsert student %q: %w", rec.StudentID, err))
	}
	return toStoredRecord(row), nil
}

func (s *PostgresStore) DeleteByKey(ctx context.Context, id string) (StoredRecord, error) {
	pgID, ok := parseRecordID(id)
	if !ok {
		return StoredRecord{}, ErrNotFound
	}
	row, err := s.q.DeleteStudent(ctx, pgID)
	if errors.Is(err, pgx.ErrNoRows) {
		return StoredRecord{}, ErrNotFound
	}
	if err != nil {
		return StoredRecord{}, fmt.Errorf("delete student %s: %w", id, err)
	}
	return toStoredRecord(row), nil
}

func (s *PostgresStore) ListAll(ctx context.Context, sort SortSpec) ([]StoredRecord, error) {
	rows, err := s.q.ListStudents(ctx, sort.Column, sort.Desc)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	out := make([]StoredRecord, len(rows))
	for i, row := range rows {
		out[i] = toStoredRecord(row)
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (StoredRecord, error) {
	pgID, ok := parseRecordID(id)
	if !ok {
		return StoredRecord{}, ErrNotFound
	}
	row, err := s.q.GetStudent(ctx, pgID)
	if errors.Is(err, pgx.ErrNoRows) {
		return StoredRecord{}, ErrNotFound
	}
	if err != nil {
		return StoredRecord{}, fmt.Errorf("get student %s: %w", id, err)
	}
	return toStoredRecord(row), nil
}

func (s *PostgresStore) Create(ctx context.Context, rec StudentRecord) (StoredRecord, error) {
	row, err := s.q.InsertStudent(ctx, db.InsertStudentParams{
		StudentID:     rec.StudentID,
		StudentName:   rec.StudentName,
		TotalMarks:    rec.TotalMarks,
		MarksObtained: rec.MarksObtained,
		Percentage:    float64(rec.Percentage),
	})
	if err != nil {
		return StoredRecord{}, translatePgError(rec.StudentID, fmt.Errorf("create student %q: %w", rec.StudentID, err))
	}
	return toStoredRecord(row), nil
}

func (s *PostgresStore) Update(ctx context.Context, id string, fields StudentFields, pct Percentage) (StoredRecord, error) {
	pgID, ok := parseRecordID(id)
	if !ok {
		return StoredRecord{}, ErrNotFound
	}
	row, err := s.q.UpdateStudent(ctx, db.UpdateStudentParams{
		ID:            pgID,
		StudentName:   fields.StudentName,
		TotalMarks:    fields.TotalMarks,
		MarksObtained: fields.MarksObtained,
		Percentage:    float64(pct),
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return StoredRecord{}, ErrNotFound
	}
	if err != nil {
		return StoredRecord{}, translatePgError("", fmt.Errorf("update student %s: %w", id, err))
	}
	return toStoredRecord(row), nil
}

func (s *PostgresStore) RecordUpload(ctx context.Context, entry UploadLogEntry) error {
	pgID, ok := parseRecordID(entry.ID)
	if !ok {
		return fmt.Errorf("record upload: invalid id %q", entry.ID)
	}
	err := s.q.InsertUpload(ctx, db.InsertUploadParams{
		ID:             pgID,
		FileName:       entry.FileName,
		Format:         string(entry.Format),
		ProcessedCount: int32(entry.ProcessedCount),
		Status:         string(entry.Status),
		Error:          pgtype.Text{String: entry.Error, Valid: entry.Error != ""},
	})
	if err != nil {
		return fmt.Errorf("record upload %s: %w", entry.ID, err)
	}
	return nil
}

func (s *PostgresStore) ListUploads(ctx context.Context, limit int) ([]UploadLogEntry, error) {
	rows, err := s.q.ListUploads(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	out := make([]UploadLogEntry, len(rows))
	for i, row := range rows {
		out[i] = UploadLogEntry{
			ID:             uuid.UUID(row.ID.Bytes).String(),
			FileName:       row.FileName,
			Format:         Format(row.Format),
			ProcessedCount: int(row.ProcessedCount),
			Status:         UploadPhase(row.Status),
			Error:          row.Error.String,
			CreatedAt:      row.CreatedAt.Time,
		}
	}
	return out, nil
}

func toStoredRecord(row db.Student) StoredRecord {
	return StoredRecord{
		ID: uuid.UUID(row.ID.Bytes).String(),
		StudentRecord: StudentRecord{
			StudentID:     row.StudentID,
			StudentName:   row.StudentName,
			TotalMarks:    row.TotalMarks,
			MarksObtained: row.MarksObtained,
			Percentage:    Percentage(row.Percentage),
		},
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

// parseRecordID converts a persisted id. Malformed ids cannot exist in the
// table, so callers treat them as not found.
func parseRecordID(id string) (pgtype.UUID, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, false
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, true
}

// translatePgError maps constraint violations onto the core taxonomy.
func translatePgError(studentID string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %v", ErrDuplicateStudent, err)
	case pgCheckViolation, pgNotNull:
		return &PersistenceValidationError{StudentID: studentID, Fields: []string{violatedField(pgErr)}}
	}
	return err
}

// violatedField names the column behind a constraint error. Check
// constraints follow the students_<column>_check convention.
func violatedField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	name := strings.TrimPrefix(pgErr.ConstraintName, "students_")
	return strings.TrimSuffix(name, "_check")
}
