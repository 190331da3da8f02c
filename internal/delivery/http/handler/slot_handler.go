package handler

import (
	"encoding/json"
	"net/http"

	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/service"
	"clinic-scheduling/internal/usecase"
	"clinic-scheduling/pkg/response"
	"clinic-scheduling/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type SlotHandler struct {
	slotUsecase usecase.SlotUsecase
	validator   *validator.CustomValidator
}

func NewSlotHandler(slotUsecase usecase.SlotUsecase, validator *validator.CustomValidator) *SlotHandler {
	return &SlotHandler{
		slotUsecase: slotUsecase,
		validator:   validator,
	}
}

// GetSlotsForDay materializes and returns a practitioner's slots for one day
func (h *SlotHandler) GetSlotsForDay(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}

	var req dto.GetSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	slots, err := h.slotUsecase.GetSlotsForDay(r.Context(), facilityID, &req)
	if err != nil {
		switch err {
		case usecase.ErrFacilityNotFound:
			response.NotFound(w, "Facility not found")
		case service.ErrPractitionerNotFound:
			response.NotFound(w, "Practitioner not found")
		case service.ErrResourceNotSchedulable:
			response.Error(w, http.StatusBadRequest, "Resource is not schedulable", nil)
		case service.ErrLockTimeout:
			response.ServiceUnavailable(w, "Resource is busy, please retry")
		default:
			response.InternalServerError(w, "Failed to get slots")
		}
		return
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", slots)
}

// AvailabilityStats reports expected vs booked capacity over a date range
func (h *SlotHandler) AvailabilityStats(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}

	var req dto.AvailabilityStatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	stats, err := h.slotUsecase.AvailabilityStats(r.Context(), facilityID, &req)
	if err != nil {
		switch err {
		case usecase.ErrFacilityNotFound:
			response.NotFound(w, "Facility not found")
		case service.ErrPractitionerNotFound:
			response.NotFound(w, "Practitioner not found")
		case usecase.ErrInvalidDateRange:
			response.Error(w, http.StatusBadRequest, "to_date must not be before from_date", nil)
		case usecase.ErrStatsPeriodTooLong:
			response.Error(w, http.StatusBadRequest, "Requested period is too long", nil)
		default:
			response.InternalServerError(w, "Failed to compute availability stats")
		}
		return
	}

	response.Success(w, http.StatusOK, "Availability stats retrieved successfully", stats)
}

// parseFacilityID extracts and validates the facility path parameter
func parseFacilityID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	facilityID, err := uuid.Parse(mux.Vars(r)["facilityId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid facility ID", nil)
		return uuid.Nil, false
	}
	return facilityID, true
}
