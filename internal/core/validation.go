package core

// validation.go runs the record checks at the storage boundary. Rows have
// already been normalized by this point; these checks catch records that
// are well-formed but not storable, such as negative marks.

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			return name
		})
	})
	return validate
}

// ValidateRecord checks rec against its struct tags. A failure is a
// *PersistenceValidationError naming every offending field.
func ValidateRecord(rec StudentRecord) error {
	return validateStruct(rec, rec.StudentID)
}

// ValidateFields checks the editable fields sent with a direct update.
func ValidateFields(fields StudentFields) error {
	return validateStruct(fields, "")
}

func validateStruct(v any, studentID string) error {
	err := recordValidator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate student %q: %w", studentID, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return &PersistenceValidationError{StudentID: studentID, Fields: fields}
}
