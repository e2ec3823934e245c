package database

// list.go holds the student listing query. sqlc cannot generate ORDER BY
// from a parameter, so the sort column is chosen from a fixed allow-list
// and spliced into the statement.

import (
	"context"
	"fmt"
)

// StudentSortColumns lists the columns ListStudents may order by.
var StudentSortColumns = map[string]bool{
	"student_id":     true,
	"student_name":   true,
	"total_marks":    true,
	"marks_obtained": true,
	"percentage":     true,
	"created_at":     true,
	"updated_at":     true,
}

const listStudentsBase = `SELECT id, student_id, student_name, total_marks, marks_obtained, percentage, created_at, updated_at
FROM students`

// ListStudents returns every student ordered by column. Ties fall back to
// the primary key so paging on the client stays stable.
func (q *Queries) ListStudents(ctx context.Context, column string, desc bool) ([]Student, error) {
	if !StudentSortColumns[column] {
		return nil, fmt.Errorf("unsupported sort column %q", column)
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	query := fmt.Sprintf("%s ORDER BY %s %s, id %s", listStudentsBase, column, dir, dir)

	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Student
	for rows.Next() {
		var i Student
		if err := rows.Scan(
			&i.ID,
			&i.StudentID,
			&i.StudentName,
			&i.TotalMarks,
			&i.MarksObtained,
			&i.Percentage,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
