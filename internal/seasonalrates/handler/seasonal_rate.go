package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"innstay/internal/seasonalrates/service"
	apperrors "innstay/pkg/errors"
	httputil "innstay/pkg/http"
	"innstay/pkg/logger"
	"innstay/pkg/model"
)

type SeasonalRateHandler struct {
	service service.SeasonalRateService
	log     *logger.Logger
}

func NewSeasonalRateHandler(service service.SeasonalRateService, log *logger.Logger) *SeasonalRateHandler {
	return &SeasonalRateHandler{
		service: service,
		log:     log,
	}
}

type createSeasonalRateRequest struct {
	PropertyID    string                 `json:"property_id"`
	Name          string                 `json:"name"`
	StartDate     string                 `json:"start_date"`
	EndDate       string                 `json:"end_date"`
	RateType      model.SeasonalRateType `json:"rate_type"`
	RateValue     int64                  `json:"rate_value"`
	Priority      int                    `json:"priority"`
	MinStayNights int                    `json:"min_stay_nights"`
	WeekendsOnly  bool                   `json:"weekends_only"`
}

func (h *SeasonalRateHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createSeasonalRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	startDate, err := model.ParseDate(req.StartDate)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidRange("invalid start_date, must be YYYY-MM-DD")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	endDate, err := model.ParseDate(req.EndDate)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidRange("invalid end_date, must be YYYY-MM-DD")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	rate := &model.SeasonalRate{
		PropertyID:    req.PropertyID,
		Name:          req.Name,
		StartDate:     startDate,
		EndDate:       endDate,
		RateType:      req.RateType,
		RateValue:     req.RateValue,
		Priority:      req.Priority,
		MinStayNights: req.MinStayNights,
		WeekendsOnly:  req.WeekendsOnly,
		Active:        true,
	}

	if err := h.service.Create(r.Context(), rate); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, rate); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *SeasonalRateHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	rate, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, rate); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SeasonalRateHandler) ListByProperty(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	propertyID := ps.ByName("propertyId")
	activeOnly := r.URL.Query().Get("active") == "true"

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByProperty", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	rates, total, err := h.service.ListByProperty(r.Context(), propertyID, activeOnly, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByProperty", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, rates, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListByProperty", "operation", "WritePaginated", "error", err)
	}
}

// Effective resolves which rate row governs each night of a stay. The
// range is half-open, matching reservation semantics: check_out itself
// is never priced.
func (h *SeasonalRateHandler) Effective(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	propertyID := ps.ByName("propertyId")
	query := r.URL.Query()

	start, err := model.ParseDate(query.Get("start"))
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidRange("invalid start, must be YYYY-MM-DD")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Effective", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	end, err := model.ParseDate(query.Get("end"))
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidRange("invalid end, must be YYYY-MM-DD")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Effective", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	effective, err := h.service.EffectiveRates(r.Context(), propertyID, start, end)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Effective", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, effective); err != nil {
		h.log.Error("failed to write success response", "handler", "Effective", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SeasonalRateHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.SeasonalRateUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	rate, err := h.service.Update(r.Context(), id, &updates)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, rate); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SeasonalRateHandler) Deactivate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Deactivate(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Deactivate", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *SeasonalRateHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/seasonal-rates", h.Create)
	router.GET("/api/v1/seasonal-rates/id/:id", h.GetByID)
	router.PATCH("/api/v1/seasonal-rates/id/:id", h.Update)
	router.DELETE("/api/v1/seasonal-rates/id/:id", h.Deactivate)
	router.GET("/api/v1/properties/:propertyId/seasonal-rates", h.ListByProperty)
	router.GET("/api/v1/properties/:propertyId/seasonal-rates/effective", h.Effective)
}
