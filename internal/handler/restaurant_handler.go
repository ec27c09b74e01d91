package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tablebook/internal/model"
	"tablebook/internal/repository"
	"tablebook/internal/service"
)

// RestaurantHandler handles catalog endpoints.
type RestaurantHandler struct {
	catalogService service.CatalogService
}

// NewRestaurantHandler creates a new restaurant handler.
func NewRestaurantHandler(catalogService service.CatalogService) *RestaurantHandler {
	return &RestaurantHandler{catalogService: catalogService}
}

// RestaurantListResponse is one page of the catalog.
type RestaurantListResponse struct {
	Restaurants []model.Restaurant `json:"restaurants"`
	Pagination  Pagination         `json:"pagination"`
}

// CuisinesResponse lists distinct cuisines.
type CuisinesResponse struct {
	Cuisines []string `json:"cuisines"`
}

// LocationsResponse lists distinct locations.
type LocationsResponse struct {
	Locations []string `json:"locations"`
}

// List godoc
// @Summary Search restaurants
// @Description Case-insensitive search ordered by rating then name.
// @Tags restaurants
// @Produce json
// @Param search query string false "Matches name or location"
// @Param location query string false "Location filter"
// @Param cuisine query string false "Cuisine filter"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} SuccessResponse{data=RestaurantListResponse}
// @Failure 500 {object} errors.ErrorResponse
// @Router /restaurants [get]
func (h *RestaurantHandler) List(c echo.Context) error {
	filter := repository.RestaurantFilter{
		Text:     c.QueryParam("search"),
		Location: c.QueryParam("location"),
		Cuisine:  c.QueryParam("cuisine"),
	}
	page := pageFromQuery(c)

	items, total, err := h.catalogService.Search(c.Request().Context(), filter, page)
	if err != nil {
		return fail(err)
	}

	return respond(c, http.StatusOK, "", RestaurantListResponse{
		Restaurants: items,
		Pagination:  newPagination(page, total),
	})
}

// Get godoc
// @Summary Get a restaurant
// @Tags restaurants
// @Produce json
// @Param id path int true "Restaurant ID"
// @Success 200 {object} SuccessResponse{data=model.Restaurant}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /restaurants/{id} [get]
func (h *RestaurantHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	restaurant, err := h.catalogService.GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "", restaurant)
}

// Cuisines godoc
// @Summary List cuisines
// @Tags restaurants
// @Produce json
// @Success 200 {object} SuccessResponse{data=CuisinesResponse}
// @Failure 500 {object} errors.ErrorResponse
// @Router /restaurants/meta/cuisines [get]
func (h *RestaurantHandler) Cuisines(c echo.Context) error {
	cuisines, err := h.catalogService.Cuisines(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "", CuisinesResponse{Cuisines: cuisines})
}

// Locations godoc
// @Summary List locations
// @Tags restaurants
// @Produce json
// @Success 200 {object} SuccessResponse{data=LocationsResponse}
// @Failure 500 {object} errors.ErrorResponse
// @Router /restaurants/meta/locations [get]
func (h *RestaurantHandler) Locations(c echo.Context) error {
	locations, err := h.catalogService.Locations(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return respond(c, http.StatusOK, "", LocationsResponse{Locations: locations})
}
