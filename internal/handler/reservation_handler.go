package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tablebook/internal/model"
	"tablebook/internal/service"
)

// ReservationHandler handles reservation endpoints. Every route requires an
// authenticated caller.
type ReservationHandler struct {
	reservationService service.ReservationService
}

// NewReservationHandler creates a new reservation handler.
func NewReservationHandler(reservationService service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

// CreateReservationRequest represents a new reservation.
type CreateReservationRequest struct {
	RestaurantID    uint   `json:"restaurant_id" validate:"required"`
	Date            string `json:"date" validate:"required" example:"2026-05-01"`
	Time            string `json:"time" validate:"required" example:"19:30"`
	PeopleCount     int    `json:"people_count" validate:"required" example:"4"`
	SpecialRequests string `json:"special_requests"`
}

// UpdateReservationRequest is a partial update; omitted fields are kept.
type UpdateReservationRequest struct {
	Date            *string `json:"date,omitempty"`
	Time            *string `json:"time,omitempty"`
	PeopleCount     *int    `json:"people_count,omitempty"`
	SpecialRequests *string `json:"special_requests,omitempty"`
}

// ReservationListResponse is one page of the caller's reservations.
type ReservationListResponse struct {
	Reservations []model.Reservation `json:"reservations"`
	Pagination   Pagination          `json:"pagination"`
}

// Create godoc
// @Summary Create a reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateReservationRequest true "Reservation data"
// @Success 201 {object} SuccessResponse{data=model.Reservation}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req CreateReservationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	reservation, err := h.reservationService.Create(c.Request().Context(), identity.UserID, service.CreateReservationInput{
		RestaurantID:    req.RestaurantID,
		Date:            req.Date,
		Time:            req.Time,
		PeopleCount:     req.PeopleCount,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusCreated, "reservation created successfully", reservation)
}

// ListMine godoc
// @Summary List my reservations
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param status query string false "confirmed, cancelled or completed"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} SuccessResponse{data=ReservationListResponse}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/reservations [get]
func (h *ReservationHandler) ListMine(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	page := pageFromQuery(c)
	items, total, err := h.reservationService.ListForUser(c.Request().Context(), identity.UserID, c.QueryParam("status"), page)
	if err != nil {
		return fail(err)
	}

	return respond(c, http.StatusOK, "", ReservationListResponse{
		Reservations: items,
		Pagination:   newPagination(page, total),
	})
}

// Get godoc
// @Summary Get one of my reservations
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Success 200 {object} SuccessResponse{data=model.Reservation}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	reservation, err := h.reservationService.GetOwned(c.Request().Context(), identity.UserID, id)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "", reservation)
}

// Update godoc
// @Summary Update one of my reservations
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Param request body UpdateReservationRequest true "Fields to change"
// @Success 200 {object} SuccessResponse{data=model.Reservation}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /reservations/{id} [put]
func (h *ReservationHandler) Update(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateReservationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	reservation, err := h.reservationService.Update(c.Request().Context(), identity.UserID, id, service.UpdateReservationInput{
		Date:            req.Date,
		Time:            req.Time,
		PeopleCount:     req.PeopleCount,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "reservation updated successfully", reservation)
}

// Cancel godoc
// @Summary Cancel one of my reservations
// @Description The reservation is kept with status cancelled.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reservation ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) Cancel(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.reservationService.Cancel(c.Request().Context(), identity.UserID, id); err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "reservation cancelled successfully", nil)
}
