package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/cory-johannsen/binary-boxer/internal/arena"
	"github.com/cory-johannsen/binary-boxer/internal/game/robot"
	"github.com/cory-johannsen/binary-boxer/internal/game/ruleset"
)

var (
	errUnauthenticated = errors.New("missing or invalid " + IdentityHeader + " header")
	errBadRequest      = errors.New("bad request")
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 16

// errorBody is the wire shape of every error response.
type errorBody struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

var badRequest = []error{
	errBadRequest,
	robot.ErrInvalidName,
	robot.ErrSameLanguage,
	robot.ErrActiveRobot,
	robot.ErrNotInCorner,
	robot.ErrNotFighting,
	robot.ErrFightPending,
	robot.ErrOnCooldown,
	robot.ErrInsufficientXP,
	robot.ErrNotTrainable,
	robot.ErrInvalidSlot,
	robot.ErrTooFewFights,
	ruleset.ErrUnknownLanguage,
	arena.ErrFightInProgress,
	arena.ErrActionUnavailable,
	arena.ErrInvalidMetric,
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, arena.ErrNoRobot), errors.Is(err, arena.ErrNoFight):
		return http.StatusNotFound
	}
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes err as an error body. Internal errors are logged and their
// message is withheld from the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorBody{Status: "error", Message: err.Error(), RequestID: middleware.GetReqID(r.Context())}
	if status == http.StatusInternalServerError {
		s.logger.Error("request error",
			zap.String("path", r.URL.Path),
			zap.String("request_id", body.RequestID),
			zap.Error(err),
		)
		body.Message = "internal server error"
	}
	writeJSON(w, status, body)
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}
