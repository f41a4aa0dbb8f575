package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/conference-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/conference-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/conference-booking-backend/internal/room"
)

type Handler struct {
	service room.Service
	rates   RateLookup
}

func NewHandler(service room.Service, rates RateLookup) *Handler {
	return &Handler{
		service: service,
		rates:   rates,
	}
}

func (h *Handler) List(c *gin.Context) {
	var req ListRoomsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, request.BindError(err))
		return
	}
	req.Normalize()

	filter := room.Filter{
		IsAvailable: req.IsAvailable,
		MinCapacity: req.MinCapacity,
		Page:        req.Page,
		PageSize:    req.PageSize,
	}

	rooms, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]RoomResponse, len(rooms))
	for i, r := range rooms {
		items[i] = NewRoomResponse(r, h.rates)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, request.BindError(err))
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRoomResponse(r, h.rates))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRoomRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, request.BindError(err))
		return
	}

	r, err := h.service.Create(c.Request.Context(), room.CreateRequest{
		Name:        body.Name,
		Capacity:    body.Capacity,
		Floor:       body.Floor,
		Description: body.Description,
		Amenities:   body.Amenities,
		IsAvailable: body.IsAvailable,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewRoomResponse(r, h.rates))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, request.BindError(err))
		return
	}

	var body UpdateRoomRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, request.BindError(err))
		return
	}

	r, err := h.service.Update(c.Request.Context(), uri.ID, room.UpdateRequest{
		Name:        body.Name,
		Capacity:    body.Capacity,
		Floor:       body.Floor,
		Description: body.Description,
		Amenities:   body.Amenities,
		IsAvailable: body.IsAvailable,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRoomResponse(r, h.rates))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, request.BindError(err))
		return
	}

	removed, err := h.service.Delete(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, DeleteRoomResponse{
		Message:         "room deleted",
		DeletedBookings: removed,
	})
}
