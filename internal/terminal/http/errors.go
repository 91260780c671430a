package http

import (
	"errors"
	"net/http"

	"github.com/bancosur/corresponsal/internal/terminal/service"
	"github.com/bancosur/corresponsal/internal/terminal/store"
	"github.com/bancosur/corresponsal/pkg/corebank"
	"github.com/bancosur/corresponsal/pkg/httpx"
)

// writeServiceError maps service and gateway errors to HTTP responses. Core
// error messages pass through verbatim so the UI shows exactly what the core
// said.
func writeServiceError(w http.ResponseWriter, err error) {
	var apiErr *corebank.APIError
	if errors.As(err, &apiErr) {
		httpx.WriteError(w, http.StatusBadGateway, apiErr.Message)
		return
	}

	switch {
	case errors.Is(err, service.ErrSessionExpired),
		errors.Is(err, service.ErrNoSession),
		errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())

	case errors.Is(err, service.ErrFlowNotFound),
		errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrFlowSuperseded):
		httpx.WriteError(w, http.StatusGone, err.Error())

	case errors.Is(err, service.ErrFlowBusy),
		errors.Is(err, service.ErrInvalidState):
		httpx.WriteError(w, http.StatusConflict, err.Error())

	case errors.Is(err, service.ErrMissingIdentification),
		errors.Is(err, service.ErrAmountNotPositive),
		errors.Is(err, service.ErrUnknownOperation),
		errors.Is(err, service.ErrUnknownTarget),
		errors.Is(err, service.ErrUnknownParty):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrNoTargets),
		errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrInsufficientAgentCash),
		errors.Is(err, service.ErrOTPIncomplete),
		errors.Is(err, service.ErrResendLocked),
		errors.Is(err, service.ErrOTPNotDelivered),
		errors.Is(err, corebank.ErrOTPRejected):
		httpx.WriteError(w, http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, corebank.ErrInvalidResponse):
		httpx.WriteError(w, http.StatusBadGateway, err.Error())

	default:
		httpx.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
