package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mgpai22/subtrack/internal/host"
	"github.com/mgpai22/subtrack/internal/logging"
)

type SessionHandler struct {
	registry *host.Registry
	logger   *logging.Logger
}

func NewSessionHandler(registry *host.Registry, logger *logging.Logger) *SessionHandler {
	return &SessionHandler{registry: registry, logger: logging.OrNop(logger)}
}

// TimeReport is a playback position sent by the client that owns the
// media element.
type TimeReport struct {
	CurrentTime float64 `json:"currentTime"`
	Paused      bool    `json:"paused"`
}

func Health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.registry.Create()
	jsonResponse(w, map[string]string{"id": s.ID()}, http.StatusCreated)
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string][]string{"sessions": h.registry.IDs()}, http.StatusOK)
}

func (h *SessionHandler) Teardown(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Teardown(chi.URLParam(r, "id")); err != nil {
		h.sessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	s, err := h.registry.Navigate(chi.URLParam(r, "id"))
	if err != nil {
		h.sessionError(w, err)
		return
	}
	jsonResponse(w, map[string]string{"id": s.ID()}, http.StatusOK)
}

// Message handles a boundary message. Action failures are reported in
// the response body with a 200, the same as a successful action.
func (h *SessionHandler) Message(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var msg host.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		jsonError(w, "invalid message: "+err.Error(), http.StatusBadRequest)
		return
	}

	resp := s.Handle(msg)
	if !resp.Success {
		h.logger.Warnw("Message failed",
			"session", s.ID(),
			"action", msg.Action,
			"error", resp.Error,
		)
	}
	jsonResponse(w, resp, http.StatusOK)
}

func (h *SessionHandler) Time(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var report TimeReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		jsonError(w, "invalid time report: "+err.Error(), http.StatusBadRequest)
		return
	}
	if report.CurrentTime < 0 {
		jsonError(w, "currentTime must not be negative", http.StatusBadRequest)
		return
	}

	state, err := s.Observe(report.CurrentTime, report.Paused)
	if err != nil {
		h.sessionError(w, err)
		return
	}
	jsonResponse(w, state, http.StatusOK)
}

func (h *SessionHandler) Display(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	jsonResponse(w, s.DisplayState(), http.StatusOK)
}

func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	jsonResponse(w, s.State(), http.StatusOK)
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*host.Session, bool) {
	s, err := h.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.sessionError(w, err)
		return nil, false
	}
	return s, true
}

func (h *SessionHandler) sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, host.ErrSessionNotFound):
		jsonError(w, "session not found", http.StatusNotFound)
	case errors.Is(err, host.ErrSessionClosed):
		jsonError(w, "session closed", http.StatusGone)
	default:
		h.logger.Errorw("Session request failed", "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}

func jsonResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	jsonResponse(w, map[string]string{"error": msg}, status)
}
