package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/wanderlist/internal/domain/destination"
	"github.com/okian/wanderlist/pkg/logger"
)

// DestinationsHandler serves the /api/destinations routes.
type DestinationsHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewDestinationsHandler creates a new destinations handler.
func NewDestinationsHandler(deps Dependencies, log logger.Logger) *DestinationsHandler {
	return &DestinationsHandler{deps: deps, logger: log}
}

// HandleList handles GET /api/destinations.
func (h *DestinationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.deps.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// HandleGet handles GET /api/destinations/{id}.
func (h *DestinationsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	d, err := h.deps.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// HandleCreate handles POST /api/destinations.
func (h *DestinationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	f, err := decodeFields(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	d, err := h.deps.Create(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// HandleUpdate handles PUT /api/destinations/{id}.
func (h *DestinationsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	f, err := decodeFields(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	d, err := h.deps.Update(r.Context(), r.PathValue("id"), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// HandleDelete handles DELETE /api/destinations/{id}.
func (h *DestinationsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, MsgRemoved)
}

func decodeFields(r *http.Request) (destination.Fields, error) {
	var f destination.Fields
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return f, fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, tooLarge.Limit)
		}
		if errors.Is(err, destination.ErrInvalid) {
			return f, err
		}
		return f, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return f, nil
}

// writeError maps the destination error kinds onto status codes.
func (h *DestinationsHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *destination.ValidationError
	switch {
	case errors.Is(err, destination.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, unavailableResponse{Message: MsgUnavailable, Data: []string{}})
	case errors.Is(err, destination.ErrNotFound):
		writeMessage(w, http.StatusNotFound, MsgNotFound)
	case errors.As(err, &verr):
		errs := make([]string, len(verr.Missing))
		for i, field := range verr.Missing {
			errs[i] = field + " is required"
		}
		writeJSON(w, http.StatusBadRequest, validationResponse{Message: MsgValidation, Errors: errs})
	case errors.Is(err, destination.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, validationResponse{Message: MsgValidation, Errors: []string{err.Error()}})
	case errors.Is(err, ErrBodyTooLarge):
		writeMessage(w, http.StatusRequestEntityTooLarge, MsgTooLarge)
	case errors.Is(err, ErrBadRequest):
		writeMessage(w, http.StatusBadRequest, MsgInvalidBody)
	default:
		h.logger.Error(r.Context(), "destination request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.String("request_id", RequestIDFrom(r.Context())),
			logger.Error(err),
		)
		writeMessage(w, http.StatusInternalServerError, MsgInternal)
	}
}
