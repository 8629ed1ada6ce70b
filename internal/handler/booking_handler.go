package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stayware/booking-service/internal/cache"
	"github.com/stayware/booking-service/internal/dto"
	"github.com/stayware/booking-service/internal/middleware"
	"github.com/stayware/booking-service/internal/models"
	"github.com/stayware/booking-service/internal/repository"
	"github.com/stayware/booking-service/internal/service"
)

type BookingHandler struct {
	svc       service.BookingService
	rooms     repository.RoomRepository
	roomCache *cache.RoomCache
}

func NewBookingHandler(svc service.BookingService, rooms repository.RoomRepository, roomCache *cache.RoomCache) *BookingHandler {
	return &BookingHandler{svc: svc, rooms: rooms, roomCache: roomCache}
}

// RegisterRoutes wires the visitor-facing surface. Guests browse rooms and
// book without an account, so none of these routes require a token.
func (h *BookingHandler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.GET("/rooms", h.ListRooms)
	api.GET("/rooms/:id", h.GetRoom)
	api.GET("/rooms/:id/availability", h.CheckAvailability)

	api.POST("/guests", h.SaveGuest)
	api.GET("/guests/:id/reservations", h.ListGuestReservations)

	api.POST("/reservations", h.CreateReservation)
	api.GET("/reservations/:id", h.GetReservation)
	api.DELETE("/reservations/:id", h.CancelReservation)
}

func (h *BookingHandler) CreateReservation(c echo.Context) error {
	var req dto.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	dateRange, err := parseDateRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reservation, err := h.svc.CreateReservation(c.Request().Context(), req.RoomID, req.GuestID, dateRange, req.GuestsCount)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToReservationResponse(reservation))
}

// SaveGuest upserts guest contact details by email. The booking flow calls
// it right before creating a reservation, so returning visitors keep one
// guest record across stays.
func (h *BookingHandler) SaveGuest(c echo.Context) error {
	var req dto.GuestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	guest, err := h.svc.SaveGuest(c.Request().Context(), &models.Guest{
		Fullname:    req.Fullname,
		Email:       req.Email,
		Phone:       req.Phone,
		Nationality: req.Nationality,
		CountryFlag: req.CountryFlag,
	})
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, guest)
}

// CancelReservation is the guest-initiated path: the record is hard-deleted
// once the date range is released.
func (h *BookingHandler) CancelReservation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reservation id")
	}

	reservation, err := h.svc.CancelReservation(c.Request().Context(), id, true)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

func (h *BookingHandler) GetReservation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reservation id")
	}

	reservation, err := h.svc.GetReservation(c.Request().Context(), id)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

func (h *BookingHandler) CheckAvailability(c echo.Context) error {
	roomID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid room id")
	}

	dateRange, err := parseDateRange(c.QueryParam("check_in"), c.QueryParam("check_out"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	conflicts, err := h.svc.CheckAvailability(c.Request().Context(), roomID, dateRange)
	if err != nil {
		return mapServiceError(err)
	}
	if conflicts == nil {
		conflicts = []uuid.UUID{}
	}

	return c.JSON(http.StatusOK, dto.AvailabilityResponse{
		RoomID:    roomID,
		CheckIn:   dateRange.CheckIn.Format(models.DateLayout),
		CheckOut:  dateRange.CheckOut.Format(models.DateLayout),
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	})
}

func (h *BookingHandler) GetRoom(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid room id")
	}

	if room := h.roomCache.Get(id); room != nil {
		return c.JSON(http.StatusOK, room)
	}

	room, err := h.rooms.FindByID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "room not found")
	}
	h.roomCache.Set(room)

	return c.JSON(http.StatusOK, room)
}

func (h *BookingHandler) ListRooms(c echo.Context) error {
	offset, limit := parsePagination(c)

	var propertyID *uint
	if p := c.QueryParam("property_id"); p != "" {
		v, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid property_id")
		}
		id := uint(v)
		propertyID = &id
	}

	rooms, total, err := h.rooms.List(c.Request().Context(), propertyID, offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ListResponse[models.Room]{Items: rooms, Total: total})
}

func (h *BookingHandler) ListGuestReservations(c echo.Context) error {
	guestID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid guest id")
	}

	reservations, err := h.svc.ListGuestReservations(c.Request().Context(), guestID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.ReservationResponse, len(reservations))
	for i := range reservations {
		resp[i] = dto.ToReservationResponse(&reservations[i])
	}
	return c.JSON(http.StatusOK, resp)
}

// --- shared helpers ---

func mapServiceError(err error) error {
	return echo.NewHTTPError(middleware.StatusFor(err), err.Error())
}

func parseUintParam(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

func parseDateRange(checkIn, checkOut string) (models.DateRange, error) {
	in, err := time.Parse(models.DateLayout, checkIn)
	if err != nil {
		return models.DateRange{}, errors.New("check_in must be a YYYY-MM-DD date")
	}
	out, err := time.Parse(models.DateLayout, checkOut)
	if err != nil {
		return models.DateRange{}, errors.New("check_out must be a YYYY-MM-DD date")
	}
	return models.NewDateRange(in, out)
}

func parsePagination(c echo.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return offset, limit
}
