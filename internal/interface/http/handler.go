package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"carpool-service/internal/domain/entity"
	"carpool-service/internal/usecase"
	"carpool-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handler holds the route handlers for the /user API surface
type Handler struct {
	users         *usecase.UserService
	rides         *usecase.RideService
	notifications *usecase.NotificationService
	logger        logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(
	users *usecase.UserService,
	rides *usecase.RideService,
	notifications *usecase.NotificationService,
	logger logger.Logger,
) *Handler {
	return &Handler{
		users:         users,
		rides:         rides,
		notifications: notifications,
		logger:        logger,
	}
}

// respond writes the {message, payload} envelope every endpoint uses.
func respond(c *gin.Context, status int, message string, payload interface{}) {
	body := gin.H{"message": message}
	if payload != nil {
		body["payload"] = payload
	}
	c.JSON(status, body)
}

// fail maps domain errors onto HTTP statuses; anything unrecognized is a
// storage/driver error and passes through as a 500 with its message.
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case entity.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, entity.ErrUserNotFound),
		errors.Is(err, entity.ErrRideNotFound),
		errors.Is(err, entity.ErrNotificationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entity.ErrEmailTaken),
		errors.Is(err, entity.ErrDuplicateRequest):
		status = http.StatusConflict
	case errors.Is(err, entity.ErrRideInactive),
		errors.Is(err, entity.ErrRideFull):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	respond(c, status, err.Error(), nil)
}

// POST /user/user
func (h *Handler) CreateUser(c *gin.Context) {
	var in usecase.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	user, err := h.users.Register(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "User created successfully", user)
}

// GET /user/find?email=
func (h *Handler) FindByEmail(c *gin.Context) {
	user, err := h.users.LookupByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if user == nil {
		respond(c, http.StatusNotFound, "user not found", nil)
		return
	}
	respond(c, http.StatusOK, "user found", user)
}

// POST /user/riding
func (h *Handler) PostRide(c *gin.Context) {
	var in usecase.PostRideInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	doc, err := h.rides.PostRide(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "Ride added successfully", doc)
}

// GET /user/rides
func (h *Handler) ListRides(c *gin.Context) {
	docs, err := h.rides.ListActive(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "rides", docs)
}

// GET /user/rides/near?lng=&lat=&maxDistKm=&locType=
func (h *Handler) NearbyRides(c *gin.Context) {
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		respond(c, http.StatusBadRequest, "invalid lng: a number is required", nil)
		return
	}
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		respond(c, http.StatusBadRequest, "invalid lat: a number is required", nil)
		return
	}
	var maxDistKm float64
	if raw := c.Query("maxDistKm"); raw != "" {
		maxDistKm, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			respond(c, http.StatusBadRequest, "invalid maxDistKm: a number is required", nil)
			return
		}
	}

	docs, err := h.rides.Nearby(c.Request.Context(), usecase.NearbyInput{
		Lng:       lng,
		Lat:       lat,
		MaxDistKm: maxDistKm,
		LocType:   c.DefaultQuery("locType", entity.LocStart),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "rides", docs)
}

// PUT /user/ride/request
func (h *Handler) RequestSeat(c *gin.Context) {
	var in usecase.SeatRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	req, err := h.rides.RequestSeat(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Seat requested", req)
}

// PUT /user/ridesdel/:rideId
func (h *Handler) SoftDeleteRide(c *gin.Context) {
	doc, err := h.rides.SoftDelete(c.Request.Context(), c.Param("rideId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Ride soft deleted", doc)
}

// PUT /user/ridesres/:rideId
func (h *Handler) RestoreRide(c *gin.Context) {
	doc, err := h.rides.Restore(c.Request.Context(), c.Param("rideId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Ride restored", doc)
}

// GET /user/specific-rides/:baseID
func (h *Handler) OwnerRides(c *gin.Context) {
	doc, err := h.rides.OwnerRides(c.Request.Context(), c.Param("baseID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "rides", doc)
}

// GET /user/noti?baseID=
func (h *Handler) ListNotifications(c *gin.Context) {
	list, err := h.users.ListNotifications(c.Request.Context(), c.Query("baseID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "notifications", list)
}

// PUT /user/notiput
func (h *Handler) AppendNotification(c *gin.Context) {
	var in struct {
		BaseID       string              `json:"baseID"`
		Notification entity.Notification `json:"notification"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	n, err := h.users.AppendNotification(c.Request.Context(), in.BaseID, in.Notification)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Notification added", n)
}

// PUT /user/updateNotification
func (h *Handler) UpdateNotification(c *gin.Context) {
	var in usecase.DecisionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err := h.notifications.Decide(c.Request.Context(), in); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Notification updated", nil)
}

// DELETE /user/deleteNotification/:userId/:notificationId
func (h *Handler) DeleteNotification(c *gin.Context) {
	err := h.users.RemoveNotification(c.Request.Context(), c.Param("userId"), c.Param("notificationId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Notification deleted", nil)
}

// PUT /user/updateRegNum
func (h *Handler) UpdateRegNum(c *gin.Context) {
	var in struct {
		BaseID string `json:"baseID"`
		RegNum string `json:"regNum"`
		Name   string `json:"name"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err := h.users.UpsertVehicle(c.Request.Context(), in.BaseID, in.RegNum, in.Name); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Vehicle registration updated", nil)
}
