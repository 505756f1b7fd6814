package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shreyas6123/stock-portfolio-dashboard/internal/domain"
	"github.com/shreyas6123/stock-portfolio-dashboard/internal/ports"
)

// maxUploadBytes caps ledger uploads; far above any realistic personal ledger.
const maxUploadBytes = 10 << 20

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.svc.TradeCount(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), err, "Failed to count ledger records")
		writeError(w, http.StatusInternalServerError, "failed to read ledger")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "trades": count})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.Summary(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), err, "Failed to compute summary")
		writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleGrowth(w http.ResponseWriter, r *http.Request) {
	series, err := s.svc.Growth(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), err, "Failed to compute growth series")
		writeError(w, http.StatusInternalServerError, "failed to compute growth series")
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleAllocation(w http.ResponseWriter, r *http.Request) {
	allocs, err := s.svc.Allocations(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), err, "Failed to compute allocations")
		writeError(w, http.StatusInternalServerError, "failed to compute allocations")
		return
	}
	writeJSON(w, http.StatusOK, allocs)
}

func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Quotes())
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := s.svc.Trades(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), err, "Failed to load trades")
		writeError(w, http.StatusInternalServerError, "failed to load trades")
		return
	}
	if trades == nil {
		trades = []domain.Trade{}
	}
	writeJSON(w, http.StatusOK, trades)
}

// handleImport accepts a CSV ledger either as a multipart "file" field or as
// the raw request body.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := s.uploadReader(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer body.Close()

	report, err := s.svc.ImportLedger(r.Context(), body)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, report)
	case errors.Is(err, ports.ErrEmptyLedger), errors.Is(err, ports.ErrMalformedLedger):
		// Client-side problem: echo the per-row rejections so the upload
		// widget can show what went wrong.
		writeJSON(w, http.StatusBadRequest, report)
	default:
		s.logger.Error(r.Context(), err, "Ledger import failed")
		writeError(w, http.StatusInternalServerError, "failed to import ledger")
	}
}

func (s *Server) uploadReader(r *http.Request) (io.ReadCloser, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)
	ct := r.Header.Get("Content-Type")
	if len(ct) >= 19 && ct[:19] == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("%w: multipart upload must carry a \"file\" field", ports.ErrInvalidRequest)
		}
		return file, nil
	}
	return r.Body, nil
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.ClearLedger(r.Context()); err != nil {
		s.logger.Error(r.Context(), err, "Failed to clear ledger")
		writeError(w, http.StatusInternalServerError, "failed to clear ledger")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
