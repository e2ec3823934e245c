// Package core turns uploaded score sheets into stored student records.
//
// The package holds all domain logic and no HTTP code; the web package and
// tests drive it through [Service].
//
// # Upload Pipeline
//
// [Service.ProcessUpload] runs four stages on one in-memory file:
//
//  1. [ParseFile] decodes CSV, XLSX or XLS into header-keyed [RawRow] values.
//  2. [Resolve] finds each canonical field under any of its header aliases.
//  3. [NormalizeRows] coerces every row into a [StudentRecord] and computes
//     its percentage. One bad row rejects the file before anything is written.
//  4. [Reconciler.UpsertAll] writes records in file order, keyed by
//     student_id. A re-upload overwrites instead of duplicating.
//
// There is no transaction across rows. If a write fails at row k, rows
// before k stay committed and the upload reports an error.
//
// # Concurrency
//
// Uploads share an [UploadLimiter]. Two uploads that touch the same
// student_id are not ordered; the later upsert wins.
//
// # Error Handling
//
// Sentinels ([ErrEmptyInput], [ErrInvalidRow], [ErrPersistenceValidation],
// [ErrNotFound]) are matched with errors.Is. [MapError] turns any error into
// a [UserMessage] with a support code:
//
//   - DB001-DB007: database errors (duplicates, connections)
//   - VAL001-VAL004: row and request validation
//   - FILE001-FILE005: file size, format and content
//   - UPL002-UPL005: upload capacity and cancellation
//   - STU001: unknown student
package core
