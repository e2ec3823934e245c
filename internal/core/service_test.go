package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/JonMunkholm/scoreload/internal/config"
)

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	store := newMemStore()
	cfg := &config.Config{Upload: config.UploadConfig{MaxConcurrent: 2, MaxWaitTime: time.Second}}
	return NewService(store, store, cfg), store
}

const scoresCSV = "Student_ID,Student_Name,Total_Marks,Marks_Obtained\nS501,Asha,100,85\nS502,Ben,100,92\n"

func TestProcessUpload_InsertsInFileOrder(t *testing.T) {
	svc, store := newTestService(t)

	result, err := svc.ProcessUpload(context.Background(), "scores.csv", []byte(scoresCSV))
	if err != nil {
		t.Fatalf("ProcessUpload() unexpected error: %v", err)
	}

	if result.ProcessedCount != 2 {
		t.Errorf("ProcessedCount = %d, want 2", result.ProcessedCount)
	}
	if result.Message != "Successfully processed 2 students" {
		t.Errorf("Message = %q", result.Message)
	}
	if result.Format != FormatCSV {
		t.Errorf("Format = %q, want csv", result.Format)
	}
	if len(result.Records) != 2 || result.Records[0].StudentID != "S501" || result.Records[1].StudentID != "S502" {
		t.Fatalf("Records = %+v, want S501 then S502", result.Records)
	}
	if got := result.Records[0].Percentage; got != 85 {
		t.Errorf("S501 percentage = %v, want 85", got)
	}
	if got := result.Records[1].Percentage; got != 92 {
		t.Errorf("S502 percentage = %v, want 92", got)
	}
	if store.count() != 2 {
		t.Errorf("store count = %d, want 2", store.count())
	}
}

func TestProcessUpload_ReuploadOverwrites(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	if _, err := svc.ProcessUpload(ctx, "scores.csv", []byte(scoresCSV)); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	before, _ := store.byKey("S501")

	update := "Student_ID,Student_Name,Total_Marks,Marks_Obtained\nS501,Asha,100,90\n"
	result, err := svc.ProcessUpload(ctx, "update.csv", []byte(update))
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}

	after, _ := store.byKey("S501")
	if store.count() != 2 {
		t.Errorf("store count = %d, want 2", store.count())
	}
	if after.ID != before.ID {
		t.Errorf("ID = %q, want %q", after.ID, before.ID)
	}
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", after.CreatedAt, before.CreatedAt)
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want after %v", after.UpdatedAt, before.UpdatedAt)
	}
	if after.MarksObtained != 90 || after.Percentage != 90 {
		t.Errorf("after = %+v, want marks 90 and percentage 90", after.StudentRecord)
	}
	if result.ProcessedCount != 1 {
		t.Errorf("ProcessedCount = %d, want 1", result.ProcessedCount)
	}
}

func TestProcessUpload_Idempotent(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.ProcessUpload(ctx, "scores.csv", []byte(scoresCSV)); err != nil {
			t.Fatalf("upload %d: %v", i, err)
		}
	}
	if store.count() != 2 {
		t.Errorf("store count = %d, want 2", store.count())
	}
}

func TestProcessUpload_DuplicateKeysInFileLastWins(t *testing.T) {
	svc, store := newTestService(t)

	data := "ID,Name,MaxMarks,Score\nS1,Ann,100,40\nS1,Ann,100,70\n"
	result, err := svc.ProcessUpload(context.Background(), "dupes.csv", []byte(data))
	if err != nil {
		t.Fatalf("ProcessUpload() unexpected error: %v", err)
	}

	if result.ProcessedCount != 2 {
		t.Errorf("ProcessedCount = %d, want 2", result.ProcessedCount)
	}
	got, _ := store.byKey("S1")
	if store.count() != 1 || got.MarksObtained != 70 {
		t.Errorf("store = %d records, S1 marks %d; want 1 record with 70", store.count(), got.MarksObtained)
	}
}

func TestProcessUpload_XLSX(t *testing.T) {
	svc, store := newTestService(t)

	data := xlsxFixture(t, [][]any{
		{"StudentID", "StudentName", "TotalMarks", "MarksObtained"},
		{501, "Asha", 200, 150},
	})
	result, err := svc.ProcessUpload(context.Background(), "scores.xlsx", data)
	if err != nil {
		t.Fatalf("ProcessUpload() unexpected error: %v", err)
	}
	if result.ProcessedCount != 1 {
		t.Errorf("ProcessedCount = %d, want 1", result.ProcessedCount)
	}
	got, ok := store.byKey("501")
	if !ok {
		t.Fatal("student 501 not stored")
	}
	if got.Percentage != 75 {
		t.Errorf("Percentage = %v, want 75", got.Percentage)
	}
}

func TestProcessUpload_InvalidRowCommitsNothing(t *testing.T) {
	svc, store := newTestService(t)

	data := "Student_ID,Student_Name,Total_Marks,Marks_Obtained\nS1,Ann,100,50\nS2,,100,60\nS3,Cat,100,70\n"
	result, err := svc.ProcessUpload(context.Background(), "bad.csv", []byte(data))

	if result != nil {
		t.Errorf("result = %+v, want nil", result)
	}
	if !errors.Is(err, ErrInvalidRow) {
		t.Fatalf("error = %v, want ErrInvalidRow", err)
	}
	if store.count() != 0 {
		t.Errorf("store count = %d, want 0", store.count())
	}
	if store.upsertCalls != 0 {
		t.Errorf("upsertCalls = %d, want 0", store.upsertCalls)
	}
}

func TestProcessUpload_PersistenceFailureKeepsEarlierRows(t *testing.T) {
	svc, store := newTestService(t)

	data := "ID,Name,MaxMarks,Score\nS1,Ann,100,50\nS2,Bob,100,-5\nS3,Cat,100,70\n"
	result, err := svc.ProcessUpload(context.Background(), "neg.csv", []byte(data))

	if result != nil {
		t.Errorf("result = %+v, want nil", result)
	}
	if !errors.Is(err, ErrPersistenceValidation) {
		t.Fatalf("error = %v, want ErrPersistenceValidation", err)
	}
	if _, ok := store.byKey("S1"); !ok {
		t.Error("S1 should stay committed")
	}
	if _, ok := store.byKey("S2"); ok {
		t.Error("S2 should not be stored")
	}
	if _, ok := store.byKey("S3"); ok {
		t.Error("S3 should not be attempted")
	}
}

func TestProcessUpload_StoreErrorKeepsEarlierRows(t *testing.T) {
	svc, store := newTestService(t)
	store.failUpsert["S502"] = errors.New("connection reset by peer")

	_, err := svc.ProcessUpload(context.Background(), "scores.csv", []byte(scoresCSV))
	if err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("error = %v, want store error", err)
	}
	if store.count() != 1 {
		t.Errorf("store count = %d, want 1", store.count())
	}
}

func TestProcessUpload_Errors(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		data     string
		wantErr  error
	}{
		{name: "unsupported extension", fileName: "scores.txt", data: scoresCSV, wantErr: ErrUnsupportedFormat},
		{name: "header only", fileName: "empty.csv", data: "Student_ID,Student_Name\n", wantErr: ErrEmptyInput},
		{name: "zero bytes", fileName: "empty.csv", data: "", wantErr: ErrEmptyInput},
		{name: "unknown headers", fileName: "odd.csv", data: "Roll,FullName\n1,Ann\n", wantErr: ErrInvalidRow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t)
			_, err := svc.ProcessUpload(context.Background(), tt.fileName, []byte(tt.data))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if store.count() != 0 {
				t.Errorf("store count = %d, want 0", store.count())
			}
		})
	}
}

func TestProcessUpload_RecordsUploadLog(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.ProcessUpload(ctx, "scores.csv", []byte(scoresCSV)); err != nil {
		t.Fatalf("upload: %v", err)
	}
	_, _ = svc.ProcessUpload(ctx, "empty.csv", []byte("ID\n"))

	entries, err := svc.ListUploads(ctx, 10)
	if err != nil {
		t.Fatalf("ListUploads() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Status != PhaseFailed || entries[0].Error == "" {
		t.Errorf("newest entry = %+v, want failed with error", entries[0])
	}
	if entries[1].Status != PhaseCompleted || entries[1].ProcessedCount != 2 {
		t.Errorf("oldest entry = %+v, want completed with 2 rows", entries[1])
	}
}

func TestProcessUpload_ConcurrentUploads(t *testing.T) {
	svc, store := newTestService(t)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.ProcessUpload(context.Background(), "scores.csv", []byte(scoresCSV)); err != nil {
				t.Errorf("ProcessUpload() error: %v", err)
			}
		}()
	}
	wg.Wait()

	if store.count() != 2 {
		t.Errorf("store count = %d, want 2", store.count())
	}
	if got := svc.UploadLimiterStatus().Active; got != 0 {
		t.Errorf("active uploads = %d, want 0", got)
	}
}

func TestCreateStudent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	got, err := svc.CreateStudent(ctx, StudentRecord{StudentID: "S9", StudentName: "Ida", TotalMarks: 3, MarksObtained: 2, Percentage: 1})
	if err != nil {
		t.Fatalf("CreateStudent() unexpected error: %v", err)
	}
	if got.Percentage != 66.67 {
		t.Errorf("Percentage = %v, want 66.67", got.Percentage)
	}
	if got.ID == "" {
		t.Error("ID is empty")
	}

	_, err = svc.CreateStudent(ctx, StudentRecord{StudentID: "S9", StudentName: "Ida", TotalMarks: 3, MarksObtained: 2})
	if !errors.Is(err, ErrDuplicateStudent) {
		t.Errorf("duplicate CreateStudent() error = %v, want ErrDuplicateStudent", err)
	}

	_, err = svc.CreateStudent(ctx, StudentRecord{StudentID: "S10", TotalMarks: 3, MarksObtained: 2})
	if !errors.Is(err, ErrPersistenceValidation) {
		t.Errorf("nameless CreateStudent() error = %v, want ErrPersistenceValidation", err)
	}
}

func TestUpdateStudent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateStudent(ctx, StudentRecord{StudentID: "S1", StudentName: "Ann", TotalMarks: 100, MarksObtained: 50})
	if err != nil {
		t.Fatalf("CreateStudent(): %v", err)
	}

	got, err := svc.UpdateStudent(ctx, created.ID, StudentFields{StudentName: "Ann B", TotalMarks: 80, MarksObtained: 60})
	if err != nil {
		t.Fatalf("UpdateStudent() unexpected error: %v", err)
	}
	if got.StudentID != "S1" || got.StudentName != "Ann B" || got.Percentage != 75 {
		t.Errorf("UpdateStudent() = %+v", got.StudentRecord)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", created.CreatedAt, got.CreatedAt)
	}

	_, err = svc.UpdateStudent(ctx, "missing", StudentFields{StudentName: "X", TotalMarks: 1})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateStudent(missing) error = %v, want ErrNotFound", err)
	}

	_, err = svc.UpdateStudent(ctx, created.ID, StudentFields{StudentName: "Ann", TotalMarks: 10, MarksObtained: -1})
	if !errors.Is(err, ErrPersistenceValidation) {
		t.Errorf("UpdateStudent(negative) error = %v, want ErrPersistenceValidation", err)
	}
}

func TestDeleteStudent(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	result, err := svc.ProcessUpload(ctx, "scores.csv", []byte(scoresCSV))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	id := result.Records[0].ID

	deleted, err := svc.DeleteStudent(ctx, id)
	if err != nil {
		t.Fatalf("DeleteStudent() unexpected error: %v", err)
	}
	if deleted.StudentID != "S501" {
		t.Errorf("deleted = %q, want S501", deleted.StudentID)
	}
	if store.count() != 1 {
		t.Errorf("store count = %d, want 1", store.count())
	}

	if _, err := svc.DeleteStudent(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteStudent() error = %v, want ErrNotFound", err)
	}

	// A deleted student_id can be uploaded again as a fresh record.
	if _, err := svc.ProcessUpload(ctx, "scores.csv", []byte(scoresCSV)); err != nil {
		t.Fatalf("re-upload: %v", err)
	}
	again, _ := store.byKey("S501")
	if again.ID == id {
		t.Errorf("re-uploaded S501 reused deleted id %q", id)
	}
}

func TestListStudents(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.ProcessUpload(ctx, "scores.csv", []byte(scoresCSV)); err != nil {
		t.Fatalf("upload: %v", err)
	}

	got, err := svc.ListStudents(ctx, SortSpec{})
	if err != nil {
		t.Fatalf("ListStudents() unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].StudentID != "S502" {
		t.Errorf("default order = %v, want newest (S502) first", got)
	}

	got, err = svc.ListStudents(ctx, SortSpec{Column: "student_id"})
	if err != nil {
		t.Fatalf("ListStudents() unexpected error: %v", err)
	}
	if got[0].StudentID != "S501" {
		t.Errorf("student_id asc first = %q, want S501", got[0].StudentID)
	}

	if _, err := svc.ListStudents(ctx, SortSpec{Column: "password"}); !errors.Is(err, ErrInvalidSort) {
		t.Errorf("ListStudents(bad column) error = %v, want ErrInvalidSort", err)
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		column, dir string
		want        SortSpec
		wantErr     bool
	}{
		{column: "", dir: "", want: DefaultSort},
		{column: "percentage", dir: "asc", want: SortSpec{Column: "percentage"}},
		{column: "Percentage", dir: "DESC", want: SortSpec{Column: "percentage", Desc: true}},
		{column: "student_name", dir: "", want: SortSpec{Column: "student_name", Desc: true}},
		{column: "id; drop table", dir: "asc", wantErr: true},
		{column: "percentage", dir: "sideways", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseSort(tt.column, tt.dir)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidSort) {
				t.Errorf("ParseSort(%q, %q) error = %v, want ErrInvalidSort", tt.column, tt.dir, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseSort(%q, %q) = %+v, %v; want %+v", tt.column, tt.dir, got, err, tt.want)
		}
	}
}

func TestFindStudent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.FindStudent(ctx, "S501"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindStudent() before upload error = %v, want ErrNotFound", err)
	}
	if _, err := svc.ProcessUpload(ctx, "scores.csv", []byte(scoresCSV)); err != nil {
		t.Fatalf("upload: %v", err)
	}
	got, err := svc.FindStudent(ctx, "S501")
	if err != nil || got.StudentName != "Asha" {
		t.Errorf("FindStudent() = %+v, %v", got, err)
	}
}
