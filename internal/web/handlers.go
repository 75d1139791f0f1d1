package web

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/database"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/errors"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/job"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/report"
)

type generateRequest struct {
	Group string `json:"group"`
	Days  int    `json:"days"`
}

type errorResponse struct {
	Code       string `json:"code,omitempty"`
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: errors.Summary(err)}
	var zErr *errors.Error
	if stderrors.As(err, &zErr) {
		resp.Code = zErr.Code
		resp.Suggestion = zErr.Suggestion
	}
	writeJSON(w, status, resp)
}

// handleHealth handles /healthz requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	io.WriteString(w, "ok")
}

// handleRuns handles /api/runs requests
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "history is disabled"})
		return
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil {
			limit = parsed
		}
	}

	runs, err := s.history.ListRuns(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, runs)
}

// handleRun handles /api/runs/{id} requests
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "history is disabled"})
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid run id"})
		return
	}

	run, err := s.history.GetRun(id)
	if stderrors.Is(err, database.ErrRunNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("run %d not found", id)})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, run)
}

// handleGenerate handles POST /api/reports and answers with the PDF
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var body generateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}
	if body.Days == 0 {
		body.Days = s.defaultDays
	}

	dir, err := os.MkdirTemp("", "zbxreport-")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer os.RemoveAll(dir)

	name := report.DefaultFilename(body.Group)
	req := job.Request{
		Group:  body.Group,
		Days:   body.Days,
		Output: filepath.Join(dir, name),
	}

	res, err := s.runner.Run(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	f, err := os.Open(res.Output)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if _, err := io.Copy(w, f); err != nil {
		s.logger.Warnf("Failed to send report: %v", err)
	}
}

// statusFor maps a job error to an HTTP status
func statusFor(err error) int {
	switch {
	case stderrors.Is(err, job.ErrBusy):
		return http.StatusConflict
	case errors.IsCode(err, errors.ErrConfig):
		return http.StatusBadRequest
	case errors.IsCode(err, errors.ErrData):
		return http.StatusNotFound
	case errors.IsCode(err, errors.ErrAPI):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
