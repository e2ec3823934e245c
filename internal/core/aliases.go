package core

// Field is one of the four canonical columns of a score row.
type Field string

const (
	FieldStudentID     Field = "student_id"
	FieldStudentName   Field = "student_name"
	FieldTotalMarks    Field = "total_marks"
	FieldMarksObtained Field = "marks_obtained"
)

// CanonicalFields lists the canonical fields in display order.
var CanonicalFields = []Field{FieldStudentID, FieldStudentName, FieldTotalMarks, FieldMarksObtained}

// fieldAliases holds the accepted headers per field, highest priority first.
// Matching is exact: no case folding, no trimming beyond what the parser did.
var fieldAliases = map[Field][]string{
	FieldStudentID:     {"Student_ID", "student_id", "StudentID", "ID"},
	FieldStudentName:   {"Student_Name", "student_name", "StudentName", "Name"},
	FieldTotalMarks:    {"Total_Marks", "total_marks", "TotalMarks", "MaxMarks"},
	FieldMarksObtained: {"Marks_Obtained", "marks_obtained", "MarksObtained", "Score"},
}

// Resolve returns the value of the first alias of f present in row.
// A header whose value is the empty string counts as absent, so a blank
// Student_ID cell falls through to student_id, StudentID, ID.
func Resolve(row RawRow, f Field) (any, bool) {
	for _, alias := range fieldAliases[f] {
		v, ok := row[alias]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}
		return v, true
	}
	return nil, false
}
