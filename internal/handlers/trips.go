package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rverbytskyi/planora/internal/middleware"
	"github.com/rverbytskyi/planora/internal/services"
	"github.com/rverbytskyi/planora/pkg/errors"
	"github.com/rverbytskyi/planora/pkg/response"
)

// TripHandler exposes trip planning and lifecycle endpoints.
type TripHandler struct {
	trips  *services.TripService
	status *services.TripStatusService
}

// NewTripHandler constructs a trip handler.
func NewTripHandler(trips *services.TripService, status *services.TripStatusService) (*TripHandler, error) {
	if trips == nil || status == nil {
		return nil, errors.New("HANDLER_INIT", "trip handler requires trip and status services", http.StatusInternalServerError)
	}
	return &TripHandler{trips: trips, status: status}, nil
}

// Create plans a new trip for the current user.
func (h *TripHandler) Create(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var payload services.CreateTripInput
	if !bindAndValidate(c, &payload) {
		return
	}

	trip, err := h.trips.Create(requestContext(c), userID, payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, trip)
}

// List returns the current user's trips.
func (h *TripHandler) List(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	trips, err := h.trips.ListForUser(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, trips)
}

// Get returns one trip owned by the current user.
func (h *TripHandler) Get(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	trip, err := h.trips.Get(requestContext(c), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, trip)
}

// Update edits a trip owned by the current user.
func (h *TripHandler) Update(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var payload services.UpdateTripInput
	if !bindAndValidate(c, &payload) {
		return
	}

	trip, err := h.trips.Update(requestContext(c), userID, c.Param("id"), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, trip)
}

// UpdateStatus moves a trip through its lifecycle.
func (h *TripHandler) UpdateStatus(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var payload struct {
		Status string `json:"status" validate:"required"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	trip, err := h.status.UpdateStatus(requestContext(c), userID, c.Param("id"), payload.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, trip)
}

// Cancel cancels a trip owned by the current user.
func (h *TripHandler) Cancel(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	trip, err := h.status.Cancel(requestContext(c), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, trip)
}

// Countdown returns the countdown for one trip.
func (h *TripHandler) Countdown(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	countdown, err := h.trips.Countdown(requestContext(c), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, countdown)
}

// Countdowns returns countdowns for all of the user's upcoming trips.
func (h *TripHandler) Countdowns(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	countdowns, err := h.trips.Countdowns(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, countdowns)
}
