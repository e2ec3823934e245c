package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Callers match with errors.Is; messages are stable and
// shown to users as-is.
var (
	ErrEmptyInput            = errors.New("empty file: no data found in file")
	ErrInvalidRow            = errors.New("invalid data format. Required: Student_ID, Student_Name, Total_Marks, Marks_Obtained")
	ErrPersistenceValidation = errors.New("student validation failed")
	ErrNotFound              = errors.New("student not found")
	ErrUnsupportedFormat     = errors.New("unsupported file format: only Excel (.xlsx, .xls) and CSV files are allowed")
	ErrDuplicateStudent      = errors.New("duplicate key: a student with this student_id already exists")
	ErrInvalidSort           = errors.New("invalid sort")
)

// InvalidRowError reports the first row that could not be normalized.
// Error() is always the fixed ErrInvalidRow text; Line is for logs.
type InvalidRowError struct {
	Line int // 1-based data row, header excluded
}

func (e *InvalidRowError) Error() string { return ErrInvalidRow.Error() }

func (e *InvalidRowError) Is(target error) bool { return target == ErrInvalidRow }

// PersistenceValidationError is raised when a record fails the checks run
// just before it is written.
type PersistenceValidationError struct {
	StudentID string
	Fields    []string // offending canonical field names
}

func (e *PersistenceValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrPersistenceValidation.Error(), strings.Join(e.Fields, ", "))
}

func (e *PersistenceValidationError) Is(target error) bool {
	return target == ErrPersistenceValidation
}
