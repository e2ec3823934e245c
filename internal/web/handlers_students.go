package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/scoreload/internal/core"
	"github.com/go-chi/chi/v5"
)

// maxJSONBody caps the size of a student create or update body.
const maxJSONBody = 64 << 10

// studentListResponse is the body of GET /api/students.
type studentListResponse struct {
	Students   []core.StoredRecord `json:"students"`
	TotalCount int                 `json:"totalCount"`
}

// studentInput is the JSON body of a create or update. Percentage is never
// accepted from the client.
type studentInput struct {
	StudentID     string `json:"student_id"`
	StudentName   string `json:"student_name"`
	TotalMarks    int64  `json:"total_marks"`
	MarksObtained int64  `json:"marks_obtained"`
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	sort, err := core.ParseSort(r.URL.Query().Get("sort"), r.URL.Query().Get("dir"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	students, err := s.service.ListStudents(r.Context(), sort)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, studentListResponse{Students: students, TotalCount: len(students)})
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	student, err := s.service.GetStudent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

// handleGetStudentByKey looks a record up by its external student_id,
// the key uploads reconcile on.
func (s *Server) handleGetStudentByKey(w http.ResponseWriter, r *http.Request) {
	student, err := s.service.FindStudent(r.Context(), chi.URLParam(r, "studentID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var in studentInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}

	student, err := s.service.CreateStudent(r.Context(), core.StudentRecord{
		StudentID:     in.StudentID,
		StudentName:   in.StudentName,
		TotalMarks:    in.TotalMarks,
		MarksObtained: in.MarksObtained,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Student created successfully",
		"student": student,
	})
}

// handleUpdateStudent replaces the editable fields. student_id in the body
// is ignored; the record is addressed by its persisted id.
func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	var in studentInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}

	student, err := s.service.UpdateStudent(r.Context(), chi.URLParam(r, "id"), core.StudentFields{
		StudentName:   in.StudentName,
		TotalMarks:    in.TotalMarks,
		MarksObtained: in.MarksObtained,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, student)
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	if _, err := s.service.DeleteStudent(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Student deleted successfully"})
}

// handleHealth pings the database and reports upload slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"uploads": s.service.UploadLimiterStatus(),
	}
	if err := s.service.Ping(r.Context()); err != nil {
		status["status"] = "unavailable"
		status["error"] = core.MapError(err).Message
		writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// decodeJSON reads a single JSON object into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
