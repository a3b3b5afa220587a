package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"innstay/internal/bookings/service"
	apperrors "innstay/pkg/errors"
	httputil "innstay/pkg/http"
	"innstay/pkg/logger"
	"innstay/pkg/model"
)

type BookingHandler struct {
	bookings     service.BookingService
	availability service.AvailabilityService
	log          *logger.Logger
}

func NewBookingHandler(bookings service.BookingService, availability service.AvailabilityService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		bookings:     bookings,
		availability: availability,
		log:          log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	reservation, err := h.bookings.CreateBooking(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, reservation); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	reservation, err := h.bookings.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetByReference(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reference := ps.ByName("reference")

	reservation, err := h.bookings.GetByReference(r.Context(), reference)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByReference", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByReference", "operation", "WriteSuccess", "error", err)
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
	Actor  string `json:"actor,omitempty"`
	Note   string `json:"note,omitempty"`
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateStatus", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	reservation, err := h.bookings.TransitionStatus(r.Context(), id, model.ReservationStatus(req.Status), req.Actor, req.Note)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Guests(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	guests, err := h.bookings.Guests(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Guests", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, guests); err != nil {
		h.log.Error("failed to write success response", "handler", "Guests", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ListByProperty(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	propertyID := ps.ByName("propertyId")

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByProperty", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	reservations, total, err := h.bookings.ListByProperty(r.Context(), propertyID, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByProperty", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, reservations, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListByProperty", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	propertyID := ps.ByName("propertyId")

	checkIn, checkOut, ok := h.extractRange(w, r, "CheckAvailability")
	if !ok {
		return
	}

	result, err := h.availability.CheckAvailability(r.Context(), propertyID, checkIn, checkOut)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CheckAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckAvailability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) CalculateRate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	propertyID := ps.ByName("propertyId")

	checkIn, checkOut, ok := h.extractRange(w, r, "CalculateRate")
	if !ok {
		return
	}

	guestCount := 1
	if guestsStr := r.URL.Query().Get("guests"); guestsStr != "" {
		parsed, err := strconv.Atoi(guestsStr)
		if err != nil || parsed < 1 {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput("guests must be a positive integer")); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "CalculateRate", "operation", "WriteError", "error", writeErr)
			}
			return
		}
		guestCount = parsed
	}

	rate, err := h.bookings.CalculateRate(r.Context(), propertyID, checkIn, checkOut, guestCount)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CalculateRate", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, rate); err != nil {
		h.log.Error("failed to write success response", "handler", "CalculateRate", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) NextAvailableWindow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	propertyID := ps.ByName("propertyId")

	nights := 1
	if nightsStr := r.URL.Query().Get("nights"); nightsStr != "" {
		parsed, err := strconv.Atoi(nightsStr)
		if err != nil || parsed < 1 {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput("nights must be a positive integer")); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "NextAvailableWindow", "operation", "WriteError", "error", writeErr)
			}
			return
		}
		nights = parsed
	}

	window, err := h.availability.NextAvailableWindow(r.Context(), propertyID, nights)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "NextAvailableWindow", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if window == nil {
		if writeErr := httputil.WriteError(w, apperrors.NotFound("Available window")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "NextAvailableWindow", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]string{
		"check_in":  model.FormatDate(window.CheckIn),
		"check_out": model.FormatDate(window.CheckOut),
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "NextAvailableWindow", "operation", "WriteSuccess", "error", err)
	}
}

// extractRange parses the check_in/check_out query parameters shared
// by the advisory endpoints.
func (h *BookingHandler) extractRange(w http.ResponseWriter, r *http.Request, handlerName string) (checkIn, checkOut time.Time, ok bool) {
	query := r.URL.Query()

	checkIn, err := model.ParseDate(query.Get("check_in"))
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidRange("invalid check_in, must be YYYY-MM-DD")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
		}
		return checkIn, checkOut, false
	}

	checkOut, err = model.ParseDate(query.Get("check_out"))
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidRange("invalid check_out, must be YYYY-MM-DD")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
		}
		return checkIn, checkOut, false
	}

	return checkIn, checkOut, true
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.GET("/api/v1/bookings/reference/:reference", h.GetByReference)
	router.GET("/api/v1/bookings/id/:id/guests", h.Guests)
	router.PATCH("/api/v1/bookings/id/:id/status", h.UpdateStatus)
	router.GET("/api/v1/properties/:propertyId/bookings", h.ListByProperty)
	router.GET("/api/v1/properties/:propertyId/availability", h.CheckAvailability)
	router.GET("/api/v1/properties/:propertyId/rate", h.CalculateRate)
	router.GET("/api/v1/properties/:propertyId/next-available", h.NextAvailableWindow)
}
