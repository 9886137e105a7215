package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"cinema-pegasus/internal/usecase"
	"cinema-pegasus/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Catalog *CatalogHandler
	Order   *OrderHandler
	Ticket  *TicketHandler
}

func NewHandler(service *usecase.Service, session utils.SessionConfig, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, session, log),
		Catalog: NewCatalogHandler(service.Film, service.Screening, service.Seat, log),
		Order:   NewOrderHandler(service.Order, log),
		Ticket:  NewTicketHandler(service.Ticket, log),
	}
}

// decodeAndValidate reads a JSON body into req and runs its validate tags.
// It writes the 400 itself and reports false when the request is unusable.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}

	return true
}

func requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return 0, false
	}
	return userID, true
}

// handleServiceError maps domain errors to status codes. Anything it does
// not recognise is logged and hidden behind a 500.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrUnauthorized),
		errors.Is(err, usecase.ErrInvalidCredentials):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, err.Error())

	case errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, usecase.ErrSeatTaken),
		errors.Is(err, usecase.ErrPastScreening),
		errors.Is(err, usecase.ErrLastTicket),
		errors.Is(err, usecase.ErrSeatCountMismatch),
		errors.Is(err, usecase.ErrEmailTaken):
		log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	default:
		log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func pathID(w http.ResponseWriter, raw, name string) (int64, bool) {
	id, err := utils.ParseID(raw)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+name, nil)
		return 0, false
	}
	return id, true
}
