package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tharindu-jay/policyscan/internal/export"
	"github.com/tharindu-jay/policyscan/internal/record"
)

// handleProcessDocument accepts a multipart PDF upload under the "document"
// field, runs extraction (served from the content-hash cache when possible)
// and starts a fresh review session for the file. On failure the previous
// session, if any, is left untouched.
func (s *Server) handleProcessDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, StageProcessing, fmt.Errorf("parse upload: %w", err))
		return
	}
	file, header, err := r.FormFile("document")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, StageProcessing, fmt.Errorf("missing document field: %w", err))
		return
	}
	defer func() { _ = file.Close() }()

	pdf, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, StageProcessing, fmt.Errorf("read upload: %w", err))
		return
	}
	if err := s.validatePDF(pdf); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, StageProcessing, err)
		return
	}

	rec, err := s.extractor.Extract(r.Context(), pdf)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, StageProcessing, err)
		return
	}

	s.sessions.Begin(header.Filename, rec)
	s.logger.Info("document.processed", "file", header.Filename, "bytes", len(pdf))
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Snapshot()
	if !ok {
		s.writeError(w, http.StatusNotFound, StageReview, fmt.Errorf("no document processed yet"))
		return
	}
	writeJSON(w, http.StatusOK, sess.Record)
}

// handlePatchRecord applies a batch of flat field edits given as a name/value
// object. Unknown field names reject the whole batch.
func (s *Server) handlePatchRecord(w http.ResponseWriter, r *http.Request) {
	var edits map[string]string
	if err := json.NewDecoder(r.Body).Decode(&edits); err != nil {
		s.writeError(w, http.StatusBadRequest, StageReview, fmt.Errorf("decode edits: %w", err))
		return
	}
	for name := range edits {
		if _, ok := (&record.FlatRecord{}).Field(name); !ok {
			s.writeError(w, http.StatusBadRequest, StageReview, fmt.Errorf("unknown field: %q", name))
			return
		}
	}
	for name, value := range edits {
		if err := s.sessions.SetField(name, value); err != nil {
			s.writeError(w, http.StatusConflict, StageReview, err)
			return
		}
	}
	sess, _ := s.sessions.Snapshot()
	writeJSON(w, http.StatusOK, sess.Record)
}

func (s *Server) handlePatchProposer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date      string `json:"date"`
		Signature string `json:"signature"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, StageReview, fmt.Errorf("decode proposer: %w", err))
		return
	}
	if err := s.sessions.SetProposer(body.Date, body.Signature); err != nil {
		s.writeError(w, http.StatusConflict, StageReview, err)
		return
	}
	sess, _ := s.sessions.Snapshot()
	writeJSON(w, http.StatusOK, sess.Record.Proposer)
}

func (s *Server) handleAddCover(w http.ResponseWriter, r *http.Request) {
	var cover record.CoverEntry
	if err := json.NewDecoder(r.Body).Decode(&cover); err != nil {
		s.writeError(w, http.StatusBadRequest, StageReview, fmt.Errorf("decode cover: %w", err))
		return
	}
	if err := s.sessions.AddCover(cover); err != nil {
		s.writeError(w, http.StatusConflict, StageReview, err)
		return
	}
	sess, _ := s.sessions.Snapshot()
	writeJSON(w, http.StatusOK, sess.Record.Covers)
}

func (s *Server) handleUpdateCover(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, StageReview, fmt.Errorf("bad cover index: %w", err))
		return
	}
	var cover record.CoverEntry
	if err := json.NewDecoder(r.Body).Decode(&cover); err != nil {
		s.writeError(w, http.StatusBadRequest, StageReview, fmt.Errorf("decode cover: %w", err))
		return
	}
	if err := s.sessions.UpdateCover(index, cover); err != nil {
		s.writeError(w, http.StatusBadRequest, StageReview, err)
		return
	}
	sess, _ := s.sessions.Snapshot()
	writeJSON(w, http.StatusOK, sess.Record.Covers)
}

func (s *Server) handleRemoveCover(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, StageReview, fmt.Errorf("bad cover index: %w", err))
		return
	}
	if err := s.sessions.RemoveCover(index); err != nil {
		s.writeError(w, http.StatusBadRequest, StageReview, err)
		return
	}
	sess, _ := s.sessions.Snapshot()
	writeJSON(w, http.StatusOK, sess.Record.Covers)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Snapshot()
	if !ok {
		s.writeError(w, http.StatusNotFound, StageReview, fmt.Errorf("no active session"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"file_name": sess.FileName,
		"step":      sess.Step,
	})
}

func (s *Server) handleSetStep(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Step int `json:"step"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, StageReview, fmt.Errorf("decode step: %w", err))
		return
	}
	if err := s.sessions.SetStep(body.Step); err != nil {
		s.writeError(w, http.StatusBadRequest, StageReview, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"step": body.Step})
}

func (s *Server) handleResetSession(w http.ResponseWriter, _ *http.Request) {
	s.sessions.Reset()
	w.WriteHeader(http.StatusNoContent)
}

// handleExport serializes the current record into the workbook and returns it
// as a download. The artifact is cached on the session until the next edit.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Snapshot()
	if !ok {
		s.writeError(w, http.StatusNotFound, StageExport, fmt.Errorf("no document processed yet"))
		return
	}

	data, ok := s.sessions.Artifact()
	if !ok {
		var err error
		data, err = s.exporter.ExportXLSX(sess.Record)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, StageExport, err)
			return
		}
		s.sessions.SetArtifact(data)
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
