package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nerrad567/devicelink/internal/device"
)

// deviceRequest is the body of device create and update calls.
type deviceRequest struct {
	Address string `json:"ip"`
	Port    string `json:"port"`
}

// handleListDevices lists the account's devices, or searches them by
// address when ?q= is present.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	var (
		devices []device.Device
		err     error
	)
	userID := chi.URLParam(r, "userId")
	if q := r.URL.Query(); q.Has("q") {
		devices, err = s.registry.Find(r.Context(), userID, q.Get("q"))
	} else {
		devices, err = s.registry.List(r.Context(), userID)
	}
	if err != nil {
		s.writeFault(w, r, err)
		return
	}

	if devices == nil {
		devices = []device.Device{}
	}
	writeOK(w, http.StatusOK, devices)
}

func (s *Server) handleAddDevice(w http.ResponseWriter, r *http.Request) {
	var req deviceRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeFault(w, r, err)
		return
	}

	id, err := s.registry.Add(r.Context(), chi.URLParam(r, "userId"), req.Address, req.Port)
	if err != nil {
		s.writeFault(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, idData{ID: id})
}

func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	dev, err := s.registry.Get(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "arduId"))
	if err != nil {
		s.writeFault(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, dev)
}

func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	var req deviceRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeFault(w, r, err)
		return
	}

	err := s.registry.Update(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "arduId"), req.Address, req.Port)
	if err != nil {
		s.writeFault(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, nil)
}

func (s *Server) handleRemoveDevice(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Remove(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "arduId")); err != nil {
		s.writeFault(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, nil)
}
