package core

// NormalizeRow resolves and coerces one RawRow into a StudentRecord.
// line is the 1-based data row number used in the error.
func NormalizeRow(row RawRow, line int) (StudentRecord, error) {
	id, _ := Resolve(row, FieldStudentID)
	name, _ := Resolve(row, FieldStudentName)
	totalRaw, _ := Resolve(row, FieldTotalMarks)
	obtainedRaw, _ := Resolve(row, FieldMarksObtained)

	total, totalOK := parseIntPrefix(totalRaw)
	obtained, obtainedOK := parseIntPrefix(obtainedRaw)

	studentID := cellString(id)
	studentName := cellString(name)

	if studentID == "" || studentName == "" || !totalOK || !obtainedOK {
		return StudentRecord{}, &InvalidRowError{Line: line}
	}

	return StudentRecord{
		StudentID:     studentID,
		StudentName:   studentName,
		TotalMarks:    total,
		MarksObtained: obtained,
		Percentage:    ComputePercentage(obtained, total),
	}, nil
}

// NormalizeRows normalizes every row before anything is written.
// The first bad row fails the whole batch.
func NormalizeRows(rows []RawRow) ([]StudentRecord, error) {
	records := make([]StudentRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := NormalizeRow(row, i+1)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
