// Package server exposes the review workflow over HTTP: upload and process a
// document, read and edit the extracted record across the wizard steps, and
// download the exported workbook.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tharindu-jay/policyscan/internal/export"
	"github.com/tharindu-jay/policyscan/internal/extract"
	"github.com/tharindu-jay/policyscan/internal/pdfcheck"
	"github.com/tharindu-jay/policyscan/internal/session"
)

// Stage names used in error payloads so the caller can tell which phase
// failed without parsing the cause text.
const (
	StageProcessing = "processing"
	StageExport     = "export"
	StageReview     = "review"
)

type Server struct {
	extractor *extract.Service
	exporter  *export.Service
	sessions  *session.Manager
	logger    *slog.Logger

	maxUploadBytes int64
	validatePDF    func([]byte) error
}

func New(extractor *extract.Service, exporter *export.Service, sessions *session.Manager, maxUploadBytes int64, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = 20 << 20
	}
	return &Server{
		extractor:      extractor,
		exporter:       exporter,
		sessions:       sessions,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
		validatePDF:    pdfcheck.Validate,
	}
}

// Routes builds the API router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/documents", s.handleProcessDocument)

		r.Get("/record", s.handleGetRecord)
		r.Patch("/record", s.handlePatchRecord)
		r.Patch("/record/proposer", s.handlePatchProposer)

		r.Post("/record/covers", s.handleAddCover)
		r.Put("/record/covers/{index}", s.handleUpdateCover)
		r.Delete("/record/covers/{index}", s.handleRemoveCover)

		r.Get("/session", s.handleGetSession)
		r.Post("/session/step", s.handleSetStep)
		r.Delete("/session", s.handleResetSession)

		r.Post("/export", s.handleExport)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

// errorPayload names the failed stage and carries the underlying cause text.
type errorPayload struct {
	Stage string `json:"stage"`
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, stage string, err error) {
	s.logger.Warn("http.request_failed", "stage", stage, "status", status, "error", err)
	writeJSON(w, status, errorPayload{Stage: stage, Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
