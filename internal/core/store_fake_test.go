package core

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// memStore is an in-memory Store and UploadLog for tests.
type memStore struct {
	mu      sync.Mutex
	byID    map[string]StoredRecord
	keyToID map[string]string
	nextID  int
	now     time.Time

	upsertCalls int
	failUpsert  map[string]error // student_id -> error returned by UpsertByKey

	uploads []UploadLogEntry
}

func newMemStore() *memStore {
	return &memStore{
		byID:       make(map[string]StoredRecord),
		keyToID:    make(map[string]string),
		now:        time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		failUpsert: make(map[string]error),
	}
}

// tick advances the fake clock by a second and returns it.
func (m *memStore) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

func (m *memStore) FindByKey(_ context.Context, studentID string) (StoredRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.keyToID[studentID]
	if !ok {
		return StoredRecord{}, false, nil
	}
	return m.byID[id], true, nil
}

func (m *memStore) UpsertByKey(_ context.Context, rec StudentRecord) (StoredRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertCalls++
	if err, ok := m.failUpsert[rec.StudentID]; ok {
		return StoredRecord{}, err
	}

	now := m.tick()
	if id, ok := m.keyToID[rec.StudentID]; ok {
		stored := m.byID[id]
		stored.StudentRecord = rec
		stored.UpdatedAt = now
		m.byID[id] = stored
		return stored, nil
	}
	return m.insertLocked(rec, now), nil
}

func (m *memStore) insertLocked(rec StudentRecord, now time.Time) StoredRecord {
	m.nextID++
	stored := StoredRecord{
		ID:            fmt.Sprintf("id-%d", m.nextID),
		StudentRecord: rec,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.byID[stored.ID] = stored
	m.keyToID[rec.StudentID] = stored.ID
	return stored
}

func (m *memStore) DeleteByKey(_ context.Context, id string) (StoredRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byID[id]
	if !ok {
		return StoredRecord{}, ErrNotFound
	}
	delete(m.byID, id)
	delete(m.keyToID, stored.StudentID)
	return stored, nil
}

func (m *memStore) ListAll(_ context.Context, sort SortSpec) ([]StoredRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]StoredRecord, 0, len(m.byID))
	for _, r := range m.byID {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b StoredRecord) int {
		var c int
		switch sort.Column {
		case "student_id":
			c = cmp.Compare(a.StudentID, b.StudentID)
		case "percentage":
			c = cmp.Compare(a.Percentage, b.Percentage)
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if sort.Desc {
			c = -c
		}
		return c
	})
	return out, nil
}

func (m *memStore) Get(_ context.Context, id string) (StoredRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byID[id]
	if !ok {
		return StoredRecord{}, ErrNotFound
	}
	return stored, nil
}

func (m *memStore) Create(_ context.Context, rec StudentRecord) (StoredRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.keyToID[rec.StudentID]; ok {
		return StoredRecord{}, ErrDuplicateStudent
	}
	return m.insertLocked(rec, m.tick()), nil
}

func (m *memStore) Update(_ context.Context, id string, fields StudentFields, pct Percentage) (StoredRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byID[id]
	if !ok {
		return StoredRecord{}, ErrNotFound
	}
	stored.StudentName = fields.StudentName
	stored.TotalMarks = fields.TotalMarks
	stored.MarksObtained = fields.MarksObtained
	stored.Percentage = pct
	stored.UpdatedAt = m.tick()
	m.byID[id] = stored
	return stored, nil
}

func (m *memStore) RecordUpload(_ context.Context, entry UploadLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.CreatedAt = m.tick()
	m.uploads = append(m.uploads, entry)
	return nil
}

func (m *memStore) ListUploads(_ context.Context, limit int) ([]UploadLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := slices.Clone(m.uploads)
	slices.Reverse(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

func (m *memStore) byKey(studentID string) (StoredRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.keyToID[studentID]
	if !ok {
		return StoredRecord{}, false
	}
	return m.byID[id], true
}
