package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/nexusauth/internal/common"
	"github.com/dmitrijs2005/nexusauth/internal/server/models"
	"github.com/dmitrijs2005/nexusauth/internal/validation"
)

const maxBodyBytes = 1 << 20

// Service is the business layer behind the endpoint. It is satisfied by
// *services.AuthService.
type Service interface {
	Register(ctx context.Context, form validation.Registration) (*models.Profile, error)
	Login(ctx context.Context, usernameOrEmail, password string) (*models.Profile, error)
	Verify(ctx context.Context, token string) error
	GetUserData(ctx context.Context, username string) (*models.Profile, error)
	Ping(ctx context.Context) string
}

// request is the union of every action's fields.
type request struct {
	Action string `json:"action"`
	Token  string `json:"token"`
	validation.Registration
}

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// decodeRequest reads a JSON object with at least one member. Anything else
// (empty body, null, arrays, {} or wrongly typed fields) is
// common.ErrInvalidInput.
func decodeRequest(r *http.Request) (*request, error) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return nil, common.ErrInvalidInput
	}
	body = bytes.TrimSpace(body)

	var members map[string]json.RawMessage
	if err := json.Unmarshal(body, &members); err != nil || len(members) == 0 {
		return nil, common.ErrInvalidInput
	}

	var req request
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, common.ErrInvalidInput
	}
	return &req, nil
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := decodeRequest(r)
	if err != nil {
		s.fail(ctx, w, "", err)
		return
	}

	switch req.Action {
	case actionTest:
		writeJSON(w, http.StatusOK, response{Success: true, Message: s.svc.Ping(ctx)})

	case actionRegister:
		profile, err := s.svc.Register(ctx, req.Registration)
		if err != nil {
			s.fail(ctx, w, req.Action, err)
			return
		}
		writeJSON(w, http.StatusOK, response{Success: true, Message: msgRegistered, Data: profile})

	case actionLogin:
		profile, err := s.svc.Login(ctx, req.Username, req.Password)
		if err != nil {
			s.fail(ctx, w, req.Action, err)
			return
		}
		writeJSON(w, http.StatusOK, response{Success: true, Message: msgLoggedIn, Data: profile})

	case actionVerify:
		if err := s.svc.Verify(ctx, req.Token); err != nil {
			s.fail(ctx, w, req.Action, err)
			return
		}
		writeJSON(w, http.StatusOK, response{Success: true, Message: msgVerified})

	case actionGetUserData:
		profile, err := s.svc.GetUserData(ctx, req.Username)
		if err != nil {
			s.fail(ctx, w, req.Action, err)
			return
		}
		writeJSON(w, http.StatusOK, response{Success: true, Data: profile})

	default:
		s.fail(ctx, w, req.Action, common.ErrUnknownAction)
	}
}

// fail writes a success=false answer with HTTP 200.
func (s *Server) fail(ctx context.Context, w http.ResponseWriter, action string, err error) {
	msg, data := failure(action, err)

	var ve *validation.Error
	switch {
	case errors.As(err, &ve), errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrUnknownAction):
		s.logger.Debug(ctx, "request rejected", "action", action, "message", msg)
	case errors.Is(err, common.ErrStorage), errors.Is(err, common.ErrorInternal), msg == msgInternal:
		s.logger.Error(ctx, "action failed", "action", action, "error", err)
	default:
		s.logger.Info(ctx, "action refused", "action", action, "message", msg)
	}

	writeJSON(w, http.StatusOK, response{Success: false, Message: msg, Data: data})
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, response{Success: false, Message: msgMethodNotAllowed})
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, response{Success: false, Message: "Not found"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
