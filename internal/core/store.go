package core

import "context"

// Store is the durable record store, keyed externally by student_id and
// internally by the persisted id it assigns. Each call is atomic on its own;
// nothing spans more than one record.
type Store interface {
	// FindByKey looks a record up by student_id.
	FindByKey(ctx context.Context, studentID string) (StoredRecord, bool, error)

	// UpsertByKey inserts rec, or overwrites the record with the same
	// student_id keeping its id and created_at.
	UpsertByKey(ctx context.Context, rec StudentRecord) (StoredRecord, error)

	// DeleteByKey removes the record with persisted id and returns it.
	DeleteByKey(ctx context.Context, id string) (StoredRecord, error)

	// ListAll returns every record in the given order.
	ListAll(ctx context.Context, sort SortSpec) ([]StoredRecord, error)

	Get(ctx context.Context, id string) (StoredRecord, error)

	// Create inserts rec and fails with ErrDuplicateStudent if its
	// student_id is taken.
	Create(ctx context.Context, rec StudentRecord) (StoredRecord, error)

	// Update overwrites the editable fields of the record with persisted id.
	Update(ctx context.Context, id string, fields StudentFields, pct Percentage) (StoredRecord, error)
}

// UploadLog records upload attempts for the history view.
type UploadLog interface {
	RecordUpload(ctx context.Context, entry UploadLogEntry) error
	ListUploads(ctx context.Context, limit int) ([]UploadLogEntry, error)
}
