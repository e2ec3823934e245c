package web

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/scoreload/internal/core"
	"github.com/JonMunkholm/scoreload/internal/logging"
)

// uploadResponse is the body of a successful upload.
type uploadResponse struct {
	Message        string              `json:"message"`
	ProcessedCount int                 `json:"processedCount"`
	Students       []core.StoredRecord `json:"students"`
	UploadID       string              `json:"uploadId"`
}

// handleUpload accepts one multipart "file", spools it to a temp file and
// runs it through the import pipeline.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	// Room for the multipart envelope around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			s.respondError(w, r, core.ErrFileTooLarge)
			return
		}
		s.respondError(w, r, errNoFile)
		return
	}
	defer file.Close()

	if _, err := core.FormatFromFilename(header.Filename); err != nil {
		s.respondError(w, r, err)
		return
	}

	spool, err := core.NewSpool(s.cfg.Upload.TempDir, header.Filename, file, maxSize)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer func() {
		if err := spool.Close(); err != nil {
			logging.FromContext(r.Context()).Warn("spool cleanup failed", "path", spool.Path(), "error", err)
		}
	}()

	data, err := spool.Bytes()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.service.ProcessUpload(r.Context(), spool.Name(), data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Message:        result.Message,
		ProcessedCount: result.ProcessedCount,
		Students:       result.Records,
		UploadID:       result.UploadID,
	})
}

// handleListUploads returns recent upload attempts, newest first.
func (s *Server) handleListUploads(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 50)

	entries, err := s.service.ListUploads(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"uploads":    entries,
		"totalCount": len(entries),
	})
}

// handleUploadQueueStatus reports upload slot usage so callers can back off
// before hitting UPL002.
func (s *Server) handleUploadQueueStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.UploadLimiterStatus())
}
