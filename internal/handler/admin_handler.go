package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stayware/booking-service/internal/cache"
	"github.com/stayware/booking-service/internal/dto"
	"github.com/stayware/booking-service/internal/middleware"
	"github.com/stayware/booking-service/internal/models"
	"github.com/stayware/booking-service/internal/repository"
	"github.com/stayware/booking-service/internal/service"
)

var (
	errNameRequired  = errors.New("name is required")
	errNegativePrice = errors.New("price must be non-negative")
	errDiscountRange = errors.New("discount must be within [0,100]")
	errCapacityRange = errors.New("capacity must be positive")
	errBadStatus     = errors.New("status must be 'available' or 'unavailable'")
)

// AdminHandler is the console surface: catalog CRUD plus the reservation
// lifecycle actions that only staff may perform.
type AdminHandler struct {
	svc          service.BookingService
	rooms        repository.RoomRepository
	properties   repository.PropertyRepository
	guests       repository.GuestRepository
	reservations repository.ReservationRepository
	roomCache    *cache.RoomCache
	jwtSecret    string
}

func NewAdminHandler(
	svc service.BookingService,
	rooms repository.RoomRepository,
	properties repository.PropertyRepository,
	guests repository.GuestRepository,
	reservations repository.ReservationRepository,
	roomCache *cache.RoomCache,
	jwtSecret string,
) *AdminHandler {
	return &AdminHandler{
		svc:          svc,
		rooms:        rooms,
		properties:   properties,
		guests:       guests,
		reservations: reservations,
		roomCache:    roomCache,
		jwtSecret:    jwtSecret,
	}
}

func (h *AdminHandler) RegisterRoutes(e *echo.Echo) {
	admin := e.Group("/api/v1/admin", middleware.RequireUser(h.jwtSecret))

	admin.GET("/reservations", h.ListReservations)
	admin.POST("/reservations/:id/confirm", h.ConfirmReservation)
	admin.POST("/reservations/:id/complete", h.CompleteReservation)
	admin.DELETE("/reservations/:id", h.CancelReservation)

	admin.POST("/properties", h.CreateProperty)
	admin.GET("/properties", h.ListProperties)
	admin.GET("/properties/:id", h.GetProperty)
	admin.PUT("/properties/:id", h.UpdateProperty)
	admin.DELETE("/properties/:id", h.DeleteProperty)

	admin.GET("/rooms/:id/reservations", h.ListRoomReservations)
	admin.POST("/rooms", h.CreateRoom)
	admin.PUT("/rooms/:id", h.UpdateRoom)
	admin.DELETE("/rooms/:id", h.DeleteRoom)

	admin.POST("/guests", h.CreateGuest)
	admin.GET("/guests", h.ListGuests)
	admin.GET("/guests/:id", h.GetGuest)
	admin.PUT("/guests/:id", h.UpdateGuest)
	admin.DELETE("/guests/:id", h.DeleteGuest)
}

// --- reservations ---

func (h *AdminHandler) ListReservations(c echo.Context) error {
	offset, limit := parsePagination(c)
	reservations, total, err := h.svc.ListReservations(c.Request().Context(), offset, limit, c.QueryParam("search"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	items := make([]dto.ReservationResponse, len(reservations))
	for i := range reservations {
		items[i] = dto.ToReservationResponse(&reservations[i])
	}
	return c.JSON(http.StatusOK, dto.ListResponse[dto.ReservationResponse]{Items: items, Total: total})
}

func (h *AdminHandler) ConfirmReservation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reservation id")
	}

	reservation, err := h.svc.ConfirmReservation(c.Request().Context(), id)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

func (h *AdminHandler) CompleteReservation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reservation id")
	}

	reservation, err := h.svc.MarkCompleted(c.Request().Context(), id)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

// CancelReservation is the admin path: the record stays, soft-marked with
// cancelled_at.
func (h *AdminHandler) CancelReservation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reservation id")
	}

	reservation, err := h.svc.CancelReservation(c.Request().Context(), id, false)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

// ListRoomReservations returns every reservation on a room's calendar,
// including soft-cancelled ones, for the admin timeline view.
func (h *AdminHandler) ListRoomReservations(c echo.Context) error {
	roomID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid room id")
	}

	reservations, err := h.reservations.FindByRoomID(c.Request().Context(), roomID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	items := make([]dto.ReservationResponse, len(reservations))
	for i := range reservations {
		items[i] = dto.ToReservationResponse(&reservations[i])
	}
	return c.JSON(http.StatusOK, items)
}

// --- properties ---

func (h *AdminHandler) CreateProperty(c echo.Context) error {
	var req dto.PropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	property := &models.Property{
		Name:      req.Name,
		Location:  req.Location,
		Country:   req.Country,
		Thumbnail: req.Thumbnail,
	}
	if err := h.properties.Create(c.Request().Context(), property); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, property)
}

func (h *AdminHandler) ListProperties(c echo.Context) error {
	offset, limit := parsePagination(c)
	properties, total, err := h.properties.List(c.Request().Context(), offset, limit, c.QueryParam("search"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dto.ListResponse[models.Property]{Items: properties, Total: total})
}

func (h *AdminHandler) GetProperty(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property id")
	}
	property, err := h.properties.FindByID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "property not found")
	}
	return c.JSON(http.StatusOK, property)
}

func (h *AdminHandler) UpdateProperty(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property id")
	}
	property, err := h.properties.FindByID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "property not found")
	}

	var req dto.PropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	property.Name = req.Name
	property.Location = req.Location
	property.Country = req.Country
	property.Thumbnail = req.Thumbnail

	if err := h.properties.Update(c.Request().Context(), property); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, property)
}

func (h *AdminHandler) DeleteProperty(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property id")
	}
	if err := h.properties.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// --- rooms ---

func (h *AdminHandler) CreateRoom(c echo.Context) error {
	var req dto.RoomRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	room, err := roomFromRequest(&models.Room{}, &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.rooms.Create(c.Request().Context(), room); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, room)
}

func (h *AdminHandler) UpdateRoom(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid room id")
	}
	room, err := h.rooms.FindByID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "room not found")
	}

	var req dto.RoomRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	room, err = roomFromRequest(room, &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.rooms.Update(c.Request().Context(), room); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.roomCache.Invalidate(id)
	return c.JSON(http.StatusOK, room)
}

// DeleteRoom refuses while the room still has pending or confirmed
// reservations.
func (h *AdminHandler) DeleteRoom(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid room id")
	}

	blocking, err := h.reservations.CountBlockingForRoom(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if blocking > 0 {
		return mapServiceError(service.ErrRoomHasReservations)
	}

	if err := h.rooms.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.roomCache.Invalidate(id)
	return c.NoContent(http.StatusNoContent)
}

// --- guests ---

func (h *AdminHandler) CreateGuest(c echo.Context) error {
	var req dto.GuestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Fullname == "" || req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "fullname and email are required")
	}

	guest := &models.Guest{
		Fullname:    req.Fullname,
		Email:       req.Email,
		Phone:       req.Phone,
		Nationality: req.Nationality,
		CountryFlag: req.CountryFlag,
	}
	if err := h.guests.Create(c.Request().Context(), guest); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, guest)
}

func (h *AdminHandler) ListGuests(c echo.Context) error {
	offset, limit := parsePagination(c)
	guests, total, err := h.guests.List(c.Request().Context(), offset, limit, c.QueryParam("search"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dto.ListResponse[models.Guest]{Items: guests, Total: total})
}

func (h *AdminHandler) GetGuest(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid guest id")
	}
	guest, err := h.guests.FindByID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "guest not found")
	}
	return c.JSON(http.StatusOK, guest)
}

func (h *AdminHandler) UpdateGuest(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid guest id")
	}
	guest, err := h.guests.FindByID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "guest not found")
	}

	var req dto.GuestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	guest.Fullname = req.Fullname
	guest.Email = req.Email
	guest.Phone = req.Phone
	guest.Nationality = req.Nationality
	guest.CountryFlag = req.CountryFlag

	if err := h.guests.Update(c.Request().Context(), guest); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, guest)
}

func (h *AdminHandler) DeleteGuest(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid guest id")
	}
	if err := h.guests.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func roomFromRequest(room *models.Room, req *dto.RoomRequest) (*models.Room, error) {
	if req.Name == "" {
		return nil, errNameRequired
	}
	if req.Price < 0 {
		return nil, errNegativePrice
	}
	if req.Discount < 0 || req.Discount > 100 {
		return nil, errDiscountRange
	}
	if req.Capacity < 1 {
		return nil, errCapacityRange
	}

	status := models.RoomStatus(req.Status)
	if status == "" {
		status = models.RoomAvailable
	}
	if status != models.RoomAvailable && status != models.RoomUnavailable {
		return nil, errBadStatus
	}

	sleeps := req.Sleeps
	if sleeps < 1 {
		sleeps = 1
	}
	bedCount := req.BedCount
	if bedCount < 1 {
		bedCount = 1
	}

	room.PropertyID = req.PropertyID
	room.Name = req.Name
	room.Slug = models.Slugify(req.Name)
	room.Price = req.Price
	room.Discount = req.Discount
	room.Capacity = req.Capacity
	room.Sleeps = sleeps
	room.BedType = req.BedType
	room.BedCount = bedCount
	room.RoomType = req.RoomType
	room.Status = status
	return room, nil
}
