package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nerrad567/devicelink/internal/auth"
)

// createUserRequest is the body of POST /api/users.
type createUserRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// credentialsRequest carries an email/password pair.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// updateUserRequest is the body of PATCH /api/users/{userId}. Email and
// Password are the current credentials; the remaining fields are changes.
type updateUserRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Name        *string `json:"name"`
	Surname     *string `json:"surname"`
	NewEmail    *string `json:"new_email"`
	NewPassword *string `json:"new_password"`
	PictureURL  *string `json:"picture_url"`
}

// loginResponse is returned by POST /api/auth.
type loginResponse struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

// handleCreateUser registers an account.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeFault(w, r, err)
		return
	}

	if _, err := s.accounts.Create(r.Context(), req.Name, req.Surname, req.Email, req.Password); err != nil {
		s.writeFault(w, r, err)
		return
	}

	writeOK(w, http.StatusCreated, nil)
}

// handleLogin exchanges credentials for a session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeFault(w, r, err)
		return
	}

	id, err := s.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeFault(w, r, err)
		return
	}

	token, err := auth.GenerateAccessToken(id, s.secCfg.JWT.Secret, s.secCfg.JWT.AccessTokenTTL)
	if err != nil {
		s.writeFault(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, loginResponse{ID: id, Token: token})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	profile, err := s.accounts.Profile(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		s.writeFault(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeFault(w, r, err)
		return
	}

	upd := auth.AccountUpdate{
		Name:       req.Name,
		Surname:    req.Surname,
		Email:      req.NewEmail,
		Password:   req.NewPassword,
		PictureURL: req.PictureURL,
	}
	err := s.accounts.UpdateVerified(r.Context(), chi.URLParam(r, "userId"), req.Email, req.Password, upd)
	if err != nil {
		s.writeFault(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, nil)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeFault(w, r, err)
		return
	}

	if err := s.accounts.Unregister(r.Context(), chi.URLParam(r, "userId"), req.Email, req.Password); err != nil {
		s.writeFault(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, nil)
}
