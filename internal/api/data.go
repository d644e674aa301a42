package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nerrad567/devicelink/internal/fault"
	"github.com/nerrad567/devicelink/internal/telemetry"
)

// handleAppendSample stores one reading posted by a device. The body is
// either {"value": n} or a bare number.
func (s *Server) handleAppendSample(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeFault(w, r, fault.Invalid("body", "is too large"))
			return
		}
		s.writeFault(w, r, err)
		return
	}

	value, err := telemetry.ParseValue(payload)
	if err != nil {
		s.writeFault(w, r, err)
		return
	}

	id, err := s.telemetry.Append(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "arduId"), value)
	if err != nil {
		s.writeFault(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, idData{ID: id})
}

func (s *Server) handleListSamples(w http.ResponseWriter, r *http.Request) {
	samples, err := s.telemetry.ReadAll(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "arduId"))
	if err != nil {
		s.writeFault(w, r, err)
		return
	}

	if samples == nil {
		samples = []telemetry.Sample{}
	}
	writeOK(w, http.StatusOK, samples)
}

func (s *Server) handleClearSamples(w http.ResponseWriter, r *http.Request) {
	if err := s.telemetry.Clear(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "arduId")); err != nil {
		s.writeFault(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, nil)
}
