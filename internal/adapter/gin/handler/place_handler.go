package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"places-service/internal/adapter/gin/middleware"
	"places-service/internal/usecase/place"
)

// PlaceHandler handles HTTP requests for place operations
type PlaceHandler struct {
	uc     place.Service
	images ImageSaver
	log    *zap.Logger
}

// NewPlaceHandler creates a new PlaceHandler instance
func NewPlaceHandler(uc place.Service, images ImageSaver, log *zap.Logger) *PlaceHandler {
	return &PlaceHandler{uc: uc, images: images, log: log}
}

// LocationResponse is a coordinate pair.
type LocationResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlaceResponse represents the HTTP response for place data
type PlaceResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Address     string           `json:"address"`
	Location    LocationResponse `json:"location"`
	Image       string           `json:"image"`
	Creator     string           `json:"creator"`
}

// PlaceEnvelope wraps a single place.
type PlaceEnvelope struct {
	Place PlaceResponse `json:"place"`
}

// PlacesEnvelope wraps a list of places.
type PlacesEnvelope struct {
	Places []PlaceResponse `json:"places"`
}

// CreatePlaceRequest is the multipart form for creating a place.
type CreatePlaceRequest struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Address     string `form:"address"`
}

// UpdatePlaceRequest is the body for updating a place.
type UpdatePlaceRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
}

// GetPlace handles GET /api/places/:pid
func (h *PlaceHandler) GetPlace(c *gin.Context) {
	resp, err := h.uc.GetPlace(c.Request.Context(), place.GetPlaceRequest{PlaceID: c.Param("pid")})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, PlaceEnvelope{Place: toPlaceResponse(resp)})
}

// ListPlacesByUser handles GET /api/places/user/:uid
func (h *PlaceHandler) ListPlacesByUser(c *gin.Context) {
	resp, err := h.uc.ListPlacesByUser(c.Request.Context(), place.ListPlacesByUserRequest{UserID: c.Param("uid")})
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]PlaceResponse, len(resp.Places))
	for i := range resp.Places {
		out[i] = toPlaceResponse(&resp.Places[i])
	}
	c.JSON(http.StatusOK, PlacesEnvelope{Places: out})
}

// CreatePlace handles POST /api/places
func (h *PlaceHandler) CreatePlace(c *gin.Context) {
	var req CreatePlaceRequest
	if err := c.ShouldBind(&req); err != nil {
		h.log.Warn("invalid create place request", zap.Error(err))
		fail(c, errInvalidInputs)
		return
	}

	image, err := saveUpload(c, h.images)
	if err != nil {
		fail(c, err)
		return
	}

	resp, err := h.uc.CreatePlace(c.Request.Context(), place.CreatePlaceRequest{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		Image:       image,
		RequesterID: middleware.RequesterID(c),
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, PlaceEnvelope{Place: toPlaceResponse(resp)})
}

// UpdatePlace handles PATCH /api/places/:pid
func (h *PlaceHandler) UpdatePlace(c *gin.Context) {
	var req UpdatePlaceRequest
	if err := c.ShouldBind(&req); err != nil {
		h.log.Warn("invalid update place request", zap.Error(err))
		fail(c, errInvalidInputs)
		return
	}

	resp, err := h.uc.UpdatePlace(c.Request.Context(), place.UpdatePlaceRequest{
		PlaceID:     c.Param("pid"),
		Title:       req.Title,
		Description: req.Description,
		RequesterID: middleware.RequesterID(c),
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, PlaceEnvelope{Place: toPlaceResponse(resp)})
}

// DeletePlace handles DELETE /api/places/:pid
func (h *PlaceHandler) DeletePlace(c *gin.Context) {
	resp, err := h.uc.DeletePlace(c.Request.Context(), place.DeletePlaceRequest{
		PlaceID:     c.Param("pid"),
		RequesterID: middleware.RequesterID(c),
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: resp.Message})
}

func toPlaceResponse(p *place.PlaceResponse) PlaceResponse {
	return PlaceResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Address:     p.Address,
		Location:    LocationResponse{Lat: p.Location.Lat, Lng: p.Location.Lng},
		Image:       p.Image,
		Creator:     p.CreatorID,
	}
}
