package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleControl switches the device's stream on or off and relays its reply.
func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	reply, err := s.dispatcher.ControlStream(r.Context(),
		chi.URLParam(r, "userId"), chi.URLParam(r, "arduId"), r.URL.Query().Get("q"))
	if err != nil {
		s.writeFault(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, reply)
}

// handleSetPin drives one of the device's pins and relays its reply.
func (s *Server) handleSetPin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	reply, err := s.dispatcher.SetPin(r.Context(),
		chi.URLParam(r, "userId"), chi.URLParam(r, "arduId"), q.Get("q"), q.Get("pin"))
	if err != nil {
		s.writeFault(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, reply)
}
