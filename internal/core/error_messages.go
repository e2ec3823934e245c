package core

// error_messages.go maps technical errors to messages with a support code.
//
// # Error Codes Reference
//
// Users can quote the code to support staff for faster diagnosis.
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: A student with this ID already exists
//	        Action: Edit the existing student instead of creating a new one
//	        Patterns: "duplicate key"
//
//	DB002 - Unique constraint: This value must be unique but already exists
//	        Patterns: "unique constraint", "violates unique"
//
//	DB004 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused"
//
//	DB005 - Connection reset: Database connection was interrupted
//	        Patterns: "connection reset"
//
//	DB006 - Timeout: Operation timed out
//	        Patterns: "timeout"
//
//	DB007 - Deadlock: Database was busy with conflicting operations
//	        Patterns: "deadlock"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid row: A row is missing a required column or value
//	         Action: Every row needs Student_ID, Student_Name, Total_Marks and Marks_Obtained
//	         Patterns: "invalid data format"
//
//	VAL002 - Rejected record: A student could not be saved
//	         Action: Check that names are present and marks are not negative
//	         Patterns: "student validation failed"
//
//	VAL003 - Invalid sort: The list cannot be ordered that way
//	         Patterns: "invalid sort"
//
//	VAL004 - Invalid body: The request body is not valid JSON
//	         Patterns: "invalid request body"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the upload size limit
//	          Patterns: "file too large", "request body too large"
//
//	FILE002 - Unsupported format: Only .csv, .xlsx and .xls are accepted
//	          Patterns: "unsupported file format"
//
//	FILE003 - Unreadable file: The file could not be read
//	          Patterns: "invalid csv", "invalid spreadsheet"
//
//	FILE004 - No file: No file was selected
//	          Patterns: "no file provided"
//
//	FILE005 - Empty file: The uploaded file has no data rows
//	          Patterns: "empty file"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - System busy: Too many uploads in progress
//	         Patterns: "too many uploads"
//
//	UPL004 - Request cancelled
//	         Patterns: "context canceled"
//
//	UPL005 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # Student Errors (STU001-STU099)
//
//	STU001 - Not found: The student no longer exists
//	         Patterns: "student not found"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the application logs for the
// original technical error.
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.

import "strings"

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is ordered: the first pattern contained in the lowercased
// error text wins.
var errorPatterns = []errorPattern{
	// Validation
	{
		pattern: "invalid data format",
		msg: UserMessage{
			Message: "Invalid data format. Required: Student_ID, Student_Name, Total_Marks, Marks_Obtained",
			Action:  "Check that every row has all four columns filled in",
			Code:    "VAL001",
		},
	},
	{
		pattern: "student validation failed",
		msg: UserMessage{
			Message: "A student record was rejected",
			Action:  "Check that names are present and marks are not negative",
			Code:    "VAL002",
		},
	},
	{
		pattern: "invalid sort",
		msg: UserMessage{
			Message: "The list cannot be sorted that way",
			Action:  "Sort by a student column with dir asc or desc",
			Code:    "VAL003",
		},
	},
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "The request body is not valid",
			Action:  "Send a JSON object with the student fields",
			Code:    "VAL004",
		},
	},

	// Student
	{
		pattern: "student not found",
		msg: UserMessage{
			Message: "Student not found",
			Action:  "Refresh the list; the student may have been deleted",
			Code:    "STU001",
		},
	},

	// Database constraints
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A student with this ID already exists",
			Action:  "Edit the existing student instead of creating a new one",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Check for duplicate student IDs",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "A duplicate value was found",
			Action:  "Check for duplicate student IDs",
			Code:    "DB002",
		},
	},

	// Database connection
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try uploading a smaller file or try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},

	// Files
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the upload size limit",
			Action:  "Split the file into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the upload size limit",
			Action:  "Split the file into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unsupported file format",
		msg: UserMessage{
			Message: "Only Excel (.xlsx, .xls) and CSV files are allowed",
			Action:  "Save the file as .csv or .xlsx and upload again",
			Code:    "FILE002",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "The file could not be read",
			Action:  "Ensure the file is comma-separated and saved as UTF-8",
			Code:    "FILE003",
		},
	},
	{
		pattern: "invalid spreadsheet",
		msg: UserMessage{
			Message: "The file could not be read",
			Action:  "Open the file in Excel and save it again",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "Empty file: no data found in file",
			Action:  "Please upload a file with a header row and data rows",
			Code:    "FILE005",
		},
	},

	// Uploads
	{
		pattern: "too many uploads",
		msg: UserMessage{
			Message: "System is busy processing other uploads",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try uploading a smaller file or check your connection",
			Code:    "UPL005",
		},
	},

	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. If no
// pattern matches, the ERR000 fallback is returned.
//
// Example:
//
//	msg := MapError(ErrEmptyInput)
//	// msg.Code == "FILE005"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}
