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

type ScheduleHandler struct {
	scheduleUsecase usecase.ScheduleUsecase
	validator       *validator.CustomValidator
}

func NewScheduleHandler(scheduleUsecase usecase.ScheduleUsecase, validator *validator.CustomValidator) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleUsecase: scheduleUsecase,
		validator:       validator,
	}
}

func (h *ScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}

	var req dto.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.scheduleUsecase.CreateSchedule(r.Context(), facilityID, actorFromContext(r), &req)
	if err != nil {
		switch err {
		case usecase.ErrFacilityNotFound:
			response.NotFound(w, "Facility not found")
		case service.ErrPractitionerNotFound:
			response.NotFound(w, "Practitioner not found")
		case usecase.ErrInvalidValidityWindow:
			response.Error(w, http.StatusBadRequest, "valid_to must not be before valid_from", nil)
		default:
			response.InternalServerError(w, "Failed to create schedule")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Schedule created successfully", schedule)
}

func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	scheduleID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid schedule ID", nil)
		return
	}

	schedule, err := h.scheduleUsecase.GetSchedule(r.Context(), facilityID, scheduleID)
	if err != nil {
		switch err {
		case usecase.ErrScheduleNotFound:
			response.NotFound(w, "Schedule not found")
		default:
			response.InternalServerError(w, "Failed to get schedule")
		}
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved successfully", schedule)
}

func (h *ScheduleHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	practitionerID, err := uuid.Parse(r.URL.Query().Get("practitioner_id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid practitioner ID", nil)
		return
	}

	schedules, err := h.scheduleUsecase.ListSchedules(r.Context(), facilityID, practitionerID)
	if err != nil {
		switch err {
		case usecase.ErrFacilityNotFound:
			response.NotFound(w, "Facility not found")
		case service.ErrPractitionerNotFound:
			response.NotFound(w, "Practitioner not found")
		default:
			response.InternalServerError(w, "Failed to list schedules")
		}
		return
	}

	response.Success(w, http.StatusOK, "Schedules retrieved successfully", schedules)
}

func (h *ScheduleHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	scheduleID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid schedule ID", nil)
		return
	}

	var req dto.UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.scheduleUsecase.UpdateSchedule(r.Context(), facilityID, scheduleID, actorFromContext(r), &req)
	if err != nil {
		switch err {
		case usecase.ErrScheduleNotFound:
			response.NotFound(w, "Schedule not found")
		case usecase.ErrInvalidValidityWindow:
			response.Error(w, http.StatusBadRequest, "valid_to must not be before valid_from", nil)
		case service.ErrLockTimeout:
			response.ServiceUnavailable(w, "Resource is busy, please retry")
		default:
			response.InternalServerError(w, "Failed to update schedule")
		}
		return
	}

	response.Success(w, http.StatusOK, "Schedule updated successfully", schedule)
}

func (h *ScheduleHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	scheduleID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid schedule ID", nil)
		return
	}

	err = h.scheduleUsecase.DeleteSchedule(r.Context(), facilityID, scheduleID, actorFromContext(r))
	if err != nil {
		switch err {
		case usecase.ErrScheduleNotFound:
			response.NotFound(w, "Schedule not found")
		case usecase.ErrScheduleHasFutureBookings:
			response.Conflict(w, "Schedule has upcoming bookings")
		case service.ErrLockTimeout:
			response.ServiceUnavailable(w, "Resource is busy, please retry")
		default:
			response.InternalServerError(w, "Failed to delete schedule")
		}
		return
	}

	response.Success(w, http.StatusOK, "Schedule deleted successfully", nil)
}

func (h *ScheduleHandler) CreateAvailability(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	scheduleID, err := uuid.Parse(mux.Vars(r)["scheduleId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid schedule ID", nil)
		return
	}

	var req dto.CreateAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	availability, err := h.scheduleUsecase.CreateAvailability(r.Context(), facilityID, scheduleID, actorFromContext(r), &req)
	if err != nil {
		switch err {
		case usecase.ErrScheduleNotFound:
			response.NotFound(w, "Schedule not found")
		default:
			response.InternalServerError(w, "Failed to create availability")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Availability created successfully", availability)
}

func (h *ScheduleHandler) DeleteAvailability(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	scheduleID, err := uuid.Parse(vars["scheduleId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid schedule ID", nil)
		return
	}
	availabilityID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid availability ID", nil)
		return
	}

	err = h.scheduleUsecase.DeleteAvailability(r.Context(), facilityID, scheduleID, availabilityID, actorFromContext(r))
	if err != nil {
		switch err {
		case usecase.ErrAvailabilityNotFound:
			response.NotFound(w, "Availability not found")
		case usecase.ErrScheduleHasFutureBookings:
			response.Conflict(w, "Availability has upcoming bookings")
		case service.ErrLockTimeout:
			response.ServiceUnavailable(w, "Resource is busy, please retry")
		default:
			response.InternalServerError(w, "Failed to delete availability")
		}
		return
	}

	response.Success(w, http.StatusOK, "Availability deleted successfully", nil)
}

func (h *ScheduleHandler) ListPractitioners(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}

	practitioners, err := h.scheduleUsecase.ListPractitioners(r.Context(), facilityID)
	if err != nil {
		switch err {
		case usecase.ErrFacilityNotFound:
			response.NotFound(w, "Facility not found")
		default:
			response.InternalServerError(w, "Failed to list practitioners")
		}
		return
	}

	response.Success(w, http.StatusOK, "Practitioners retrieved successfully", practitioners)
}
