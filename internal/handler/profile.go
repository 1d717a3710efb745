package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tzinegf/AG-TUR/internal/domain"
	"github.com/tzinegf/AG-TUR/internal/middleware"
	"github.com/tzinegf/AG-TUR/internal/repository"
	"github.com/tzinegf/AG-TUR/internal/service"
)

// ProfileHandler handles HTTP requests for the authenticated user's profile.
type ProfileHandler struct {
	profileRepo repository.ProfileRepository
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileRepo repository.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{profileRepo: profileRepo}
}

// UpdateProfileRequest is the HTTP request body for updating a profile.
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// ProfileResponse is the HTTP representation of a profile.
type ProfileResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
}

func toProfileResponse(p *domain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:    p.ID,
		Email: p.Email,
		Name:  p.Name,
		Phone: p.Phone,
		Role:  string(p.Role),
	}
}

// GetProfile handles GET /v1/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		respondError(c, service.ErrNotAuthenticated)
		return
	}

	profile, err := h.profileRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toProfileResponse(profile))
}

// UpdateProfile handles PUT /v1/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		respondError(c, service.ErrNotAuthenticated)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	profile, err := h.profileRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	profile.Name = req.Name
	profile.Phone = req.Phone

	if err := h.profileRepo.Update(c.Request.Context(), profile); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toProfileResponse(profile))
}
