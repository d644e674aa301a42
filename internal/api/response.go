package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/nerrad567/devicelink/internal/fault"
)

const (
	statusOK = "OK"
	statusKO = "KO"
)

// envelope is the body of every API response.
type envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// idData is the payload of responses that return a new resource id.
type idData struct {
	ID string `json:"id"`
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeOK writes a success envelope. data may be nil.
func writeOK(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Status: statusOK, Data: data})
}

// writeKO writes a failure envelope carrying message.
func writeKO(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Status: statusKO, Error: message})
}

// writeFault maps a service error to a response. Classified errors are 400
// with their human-readable message; anything else is logged and hidden
// behind a 500.
func (s *Server) writeFault(w http.ResponseWriter, r *http.Request, err error) {
	if fault.Kind(err) != nil {
		writeKO(w, http.StatusBadRequest, fault.Message(err))
		return
	}

	s.logger.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
		"request_id", r.Context().Value(ctxKeyRequestID),
	)
	writeKO(w, http.StatusInternalServerError, "internal server error")
}

// decodeBody decodes a JSON request body into v. An empty body leaves v
// untouched.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fault.Invalid("body", "is too large")
	}
	return fault.Invalid("body", "is not valid JSON")
}
