package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/conference-booking-backend/internal/booking"
	"github.com/nekogravitycat/conference-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/conference-booking-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, request.BindError(err))
		return
	}
	req.Normalize()

	filter := booking.Filter{
		RoomID:   req.RoomID,
		Status:   booking.Status(req.Status),
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Date != "" {
		day, err := booking.ParseDate(req.Date)
		if err != nil {
			response.Error(c, err)
			return
		}
		filter.Date = &day
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, request.BindError(err))
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, request.BindError(err))
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		RoomID:    body.RoomID,
		Name:      body.Name,
		Email:     body.Email,
		Date:      body.Date,
		Time:      body.Time,
		Duration:  body.Duration,
		Attendees: body.Attendees,
		Purpose:   body.Purpose,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, request.BindError(err))
		return
	}

	var body UpdateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, request.BindError(err))
		return
	}

	b, err := h.service.Modify(c.Request.Context(), uri.ID, booking.UpdateRequest{
		RoomID:    body.RoomID,
		Date:      body.Date,
		Time:      body.Time,
		Duration:  body.Duration,
		Attendees: body.Attendees,
		Purpose:   body.Purpose,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Cancel(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, request.BindError(err))
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, request.BindError(err))
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.MessageResponse{Message: "booking deleted"})
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	var body CheckAvailabilityRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, request.BindError(err))
		return
	}

	a, err := h.service.CheckAvailability(c.Request.Context(), booking.AvailabilityRequest{
		RoomID:           body.RoomID,
		Date:             body.Date,
		Time:             body.Time,
		Duration:         body.Duration,
		ExcludeBookingID: body.ExcludeBookingID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAvailabilityResponse(a))
}
