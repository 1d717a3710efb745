package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tzinegf/AG-TUR/internal/domain"
	"github.com/tzinegf/AG-TUR/internal/service"
)

// RouteHandler handles HTTP requests for the route catalogue and seat maps.
type RouteHandler struct {
	routeService *service.RouteService
	availability *service.AvailabilityService
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(routeService *service.RouteService, availability *service.AvailabilityService) *RouteHandler {
	return &RouteHandler{
		routeService: routeService,
		availability: availability,
	}
}

// RouteRequest is the HTTP request body for creating or updating a route.
type RouteRequest struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	Departure   string   `json:"departure"` // RFC 3339
	Arrival     string   `json:"arrival"`   // RFC 3339
	Price       float64  `json:"price"`
	BusCompany  string   `json:"bus_company"`
	BusType     string   `json:"bus_type,omitempty"` // convencional, executivo, semi-leito, leito
	Amenities   []string `json:"amenities,omitempty"`
	TotalSeats  int      `json:"total_seats"`
}

// RouteResponse is the HTTP representation of a route.
type RouteResponse struct {
	ID             string   `json:"id"`
	Origin         string   `json:"origin"`
	Destination    string   `json:"destination"`
	Departure      string   `json:"departure"`
	Arrival        string   `json:"arrival"`
	Price          float64  `json:"price"`
	BusCompany     string   `json:"bus_company"`
	BusType        string   `json:"bus_type"`
	Amenities      []string `json:"amenities"`
	TotalSeats     int      `json:"total_seats"`
	AvailableSeats int      `json:"available_seats"`
	Status         string   `json:"status"`
}

// SeatResponse is the HTTP representation of one seat in a seat map.
type SeatResponse struct {
	SeatNumber string `json:"seat_number"`
	Occupied   bool   `json:"occupied"`
}

func toRouteResponse(r *domain.Route) RouteResponse {
	return RouteResponse{
		ID:             r.ID,
		Origin:         r.Origin,
		Destination:    r.Destination,
		Departure:      r.Departure.Format(time.RFC3339),
		Arrival:        r.Arrival.Format(time.RFC3339),
		Price:          r.Price,
		BusCompany:     r.BusCompany,
		BusType:        string(r.BusType),
		Amenities:      r.Amenities,
		TotalSeats:     r.TotalSeats,
		AvailableSeats: r.AvailableSeats,
		Status:         string(r.Status),
	}
}

func toRouteResponses(routes []*domain.Route) []RouteResponse {
	response := make([]RouteResponse, 0, len(routes))
	for _, r := range routes {
		response = append(response, toRouteResponse(r))
	}
	return response
}

// Search handles GET /v1/routes/search?origin=X&destination=Y&date=2026-09-01
func (h *RouteHandler) Search(c *gin.Context) {
	origin := c.Query("origin")
	destination := c.Query("destination")
	if origin == "" || destination == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "origin and destination are required"})
		return
	}

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	routes, err := h.routeService.Search(c.Request.Context(), origin, destination, date)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRouteResponses(routes))
}

// GetPopular handles GET /v1/routes/popular
func (h *RouteHandler) GetPopular(c *gin.Context) {
	routes, err := h.routeService.GetPopular(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRouteResponses(routes))
}

// GetRoute handles GET /v1/routes/:id
func (h *RouteHandler) GetRoute(c *gin.Context) {
	route, err := h.routeService.GetRoute(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRouteResponse(route))
}

// GetSeats handles GET /v1/routes/:id/seats
func (h *RouteHandler) GetSeats(c *gin.Context) {
	seats, err := h.availability.SeatMap(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]SeatResponse, 0, len(seats))
	for _, s := range seats {
		response = append(response, SeatResponse{
			SeatNumber: s.SeatNumber,
			Occupied:   s.Reserved(),
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// GetAllRoutes handles GET /v1/admin/routes
func (h *RouteHandler) GetAllRoutes(c *gin.Context) {
	routes, err := h.routeService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRouteResponses(routes))
}

// CreateRoute handles POST /v1/admin/routes
func (h *RouteHandler) CreateRoute(c *gin.Context) {
	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	departure, arrival, err := parseRouteTimes(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	route, err := h.routeService.CreateRoute(c.Request.Context(), service.CreateRouteRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		Departure:   departure,
		Arrival:     arrival,
		Price:       req.Price,
		BusCompany:  req.BusCompany,
		BusType:     domain.BusType(req.BusType),
		Amenities:   req.Amenities,
		TotalSeats:  req.TotalSeats,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRouteResponse(route))
}

// UpdateRoute handles PUT /v1/admin/routes/:id
func (h *RouteHandler) UpdateRoute(c *gin.Context) {
	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	departure, arrival, err := parseRouteTimes(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	existing, err := h.routeService.GetRoute(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	existing.Origin = req.Origin
	existing.Destination = req.Destination
	existing.Departure = departure
	existing.Arrival = arrival
	existing.Price = req.Price
	existing.BusCompany = req.BusCompany
	if req.BusType != "" {
		existing.BusType = domain.BusType(req.BusType)
	}
	existing.Amenities = req.Amenities

	route, err := h.routeService.UpdateRoute(c.Request.Context(), existing)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRouteResponse(route))
}

// DeleteRoute handles DELETE /v1/admin/routes/:id
func (h *RouteHandler) DeleteRoute(c *gin.Context) {
	if err := h.routeService.DeleteRoute(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseRouteTimes(req RouteRequest) (time.Time, time.Time, error) {
	departure, err := time.Parse(time.RFC3339, req.Departure)
	if err != nil {
		return time.Time{}, time.Time{}, service.ErrInvalidRouteData
	}
	arrival, err := time.Parse(time.RFC3339, req.Arrival)
	if err != nil {
		return time.Time{}, time.Time{}, service.ErrInvalidRouteData
	}
	return departure, arrival, nil
}
