package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tzinegf/AG-TUR/internal/domain"
	"github.com/tzinegf/AG-TUR/internal/repository"
	"github.com/tzinegf/AG-TUR/internal/service"
)

// BusHandler handles HTTP requests for the fleet registry.
type BusHandler struct {
	busRepo repository.BusRepository
}

// NewBusHandler creates a new BusHandler.
func NewBusHandler(busRepo repository.BusRepository) *BusHandler {
	return &BusHandler{busRepo: busRepo}
}

// BusRequest is the HTTP request body for creating or updating a bus.
type BusRequest struct {
	Plate     string   `json:"plate"`
	Model     string   `json:"model"`
	Brand     string   `json:"brand,omitempty"`
	Year      int      `json:"year,omitempty"`
	Seats     int      `json:"seats"`
	Type      string   `json:"type,omitempty"`   // convencional, executivo, semi-leito, leito
	Status    string   `json:"status,omitempty"` // active, maintenance, inactive
	Amenities []string `json:"amenities,omitempty"`
}

// BusResponse is the HTTP representation of a bus.
type BusResponse struct {
	ID        string   `json:"id"`
	Plate     string   `json:"plate"`
	Model     string   `json:"model"`
	Brand     string   `json:"brand,omitempty"`
	Year      int      `json:"year,omitempty"`
	Seats     int      `json:"seats"`
	Type      string   `json:"type"`
	Status    string   `json:"status"`
	Amenities []string `json:"amenities,omitempty"`
}

func toBusResponse(b *domain.Bus) BusResponse {
	return BusResponse{
		ID:        b.ID,
		Plate:     b.Plate,
		Model:     b.Model,
		Brand:     b.Brand,
		Year:      b.Year,
		Seats:     b.Seats,
		Type:      string(b.Type),
		Status:    string(b.Status),
		Amenities: b.Amenities,
	}
}

func (r BusRequest) validate() error {
	if r.Plate == "" || r.Model == "" || r.Seats <= 0 {
		return service.ErrInvalidBusData
	}
	return nil
}

// CreateBus handles POST /v1/admin/buses
func (h *BusHandler) CreateBus(c *gin.Context) {
	var req BusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if err := req.validate(); err != nil {
		respondError(c, err)
		return
	}

	bus := &domain.Bus{
		ID:        uuid.New().String(),
		Plate:     req.Plate,
		Model:     req.Model,
		Brand:     req.Brand,
		Year:      req.Year,
		Seats:     req.Seats,
		Type:      domain.BusType(req.Type),
		Status:    domain.BusStatusActive,
		Amenities: req.Amenities,
		CreatedAt: time.Now(),
	}
	if bus.Type == "" {
		bus.Type = domain.BusTypeConventional
	}
	if req.Status != "" {
		bus.Status = domain.BusStatus(req.Status)
	}

	if err := h.busRepo.Create(c.Request.Context(), bus); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBusResponse(bus))
}

// GetAll handles GET /v1/admin/buses
func (h *BusHandler) GetAll(c *gin.Context) {
	buses, err := h.busRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BusResponse, 0, len(buses))
	for _, b := range buses {
		response = append(response, toBusResponse(b))
	}

	respondJSON(c, http.StatusOK, response)
}

// UpdateBus handles PUT /v1/admin/buses/:id
func (h *BusHandler) UpdateBus(c *gin.Context) {
	var req BusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if err := req.validate(); err != nil {
		respondError(c, err)
		return
	}

	bus, err := h.busRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	bus.Plate = req.Plate
	bus.Model = req.Model
	bus.Brand = req.Brand
	bus.Year = req.Year
	bus.Seats = req.Seats
	if req.Type != "" {
		bus.Type = domain.BusType(req.Type)
	}
	if req.Status != "" {
		bus.Status = domain.BusStatus(req.Status)
	}
	bus.Amenities = req.Amenities

	if err := h.busRepo.Update(c.Request.Context(), bus); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBusResponse(bus))
}

// DeleteBus handles DELETE /v1/admin/buses/:id
func (h *BusHandler) DeleteBus(c *gin.Context) {
	if err := h.busRepo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
