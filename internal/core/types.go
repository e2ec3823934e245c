package core

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Format identifies how an uploaded buffer is decoded.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// RawRow is one data row keyed by header. Values are string or float64.
type RawRow map[string]any

// Percentage is a score percentage rounded to two decimals.
// It may be NaN or ±Inf when total marks is zero; those encode as JSON null.
type Percentage float64

// IsFinite reports whether p is a real number.
func (p Percentage) IsFinite() bool {
	f := float64(p)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (p Percentage) MarshalJSON() ([]byte, error) {
	if !p.IsFinite() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(p), 'f', -1, 64)), nil
}

func (p *Percentage) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = Percentage(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*p = Percentage(f)
	return nil
}

// StudentRecord is the canonical, fully typed form of one score row.
// It never carries a persisted id; the store assigns that.
type StudentRecord struct {
	StudentID     string     `json:"student_id" validate:"required"`
	StudentName   string     `json:"student_name" validate:"required"`
	TotalMarks    int64      `json:"total_marks" validate:"gte=0"`
	MarksObtained int64      `json:"marks_obtained" validate:"gte=0"`
	Percentage    Percentage `json:"percentage"`
}

// StudentFields are the editable fields of a stored record.
// student_id is the external key and cannot be changed through an update.
type StudentFields struct {
	StudentName   string `json:"student_name" validate:"required"`
	TotalMarks    int64  `json:"total_marks" validate:"gte=0"`
	MarksObtained int64  `json:"marks_obtained" validate:"gte=0"`
}

// StoredRecord is a StudentRecord as persisted, with id and timestamps
// owned by the store.
type StoredRecord struct {
	ID string `json:"_id"`
	StudentRecord
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SortSpec orders a listing. Column is a canonical field name.
type SortSpec struct {
	Column string
	Desc   bool
}

// DefaultSort lists newest records first.
var DefaultSort = SortSpec{Column: "created_at", Desc: true}

// UploadPhase is the pipeline state of one upload.
type UploadPhase string

const (
	PhaseReceived   UploadPhase = "received"
	PhaseParsed     UploadPhase = "parsed"
	PhaseNormalized UploadPhase = "normalized"
	PhaseReconciled UploadPhase = "reconciled"
	PhaseCompleted  UploadPhase = "completed"
	PhaseFailed     UploadPhase = "failed"
)

// UploadResult summarizes a completed upload.
type UploadResult struct {
	UploadID       string         `json:"uploadId"`
	FileName       string         `json:"fileName"`
	Format         Format         `json:"format"`
	ProcessedCount int            `json:"processedCount"`
	Records        []StoredRecord `json:"students"`
	Message        string         `json:"message"`
	Duration       time.Duration  `json:"-"`
}

// UploadLogEntry is one row of the upload log.
type UploadLogEntry struct {
	ID             string      `json:"id"`
	FileName       string      `json:"fileName"`
	Format         Format      `json:"format"`
	ProcessedCount int         `json:"processedCount"`
	Status         UploadPhase `json:"status"`
	Error          string      `json:"error,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
}
