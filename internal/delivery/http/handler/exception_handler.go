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

type ExceptionHandler struct {
	exceptionUsecase usecase.ExceptionUsecase
	validator        *validator.CustomValidator
}

func NewExceptionHandler(exceptionUsecase usecase.ExceptionUsecase, validator *validator.CustomValidator) *ExceptionHandler {
	return &ExceptionHandler{
		exceptionUsecase: exceptionUsecase,
		validator:        validator,
	}
}

func (h *ExceptionHandler) CreateException(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}

	var req dto.CreateExceptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	exception, err := h.exceptionUsecase.CreateException(r.Context(), facilityID, actorFromContext(r), &req)
	if err != nil {
		switch err {
		case usecase.ErrFacilityNotFound:
			response.NotFound(w, "Facility not found")
		case service.ErrPractitionerNotFound:
			response.NotFound(w, "Practitioner not found")
		case usecase.ErrInvalidValidityWindow:
			response.Error(w, http.StatusBadRequest, "valid_to must not be before valid_from", nil)
		case usecase.ErrInvalidTimeWindow:
			response.Error(w, http.StatusBadRequest, "end_time must be after start_time", nil)
		case usecase.ErrExceptionOverlapsBookings:
			response.Conflict(w, "Exception overlaps slots with active bookings")
		case service.ErrLockTimeout:
			response.ServiceUnavailable(w, "Resource is busy, please retry")
		default:
			response.InternalServerError(w, "Failed to create exception")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Exception created successfully", exception)
}

func (h *ExceptionHandler) ListExceptions(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	practitionerID, err := uuid.Parse(r.URL.Query().Get("practitioner_id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid practitioner ID", nil)
		return
	}

	exceptions, err := h.exceptionUsecase.ListExceptions(r.Context(), facilityID, practitionerID)
	if err != nil {
		switch err {
		case usecase.ErrFacilityNotFound:
			response.NotFound(w, "Facility not found")
		case service.ErrPractitionerNotFound:
			response.NotFound(w, "Practitioner not found")
		default:
			response.InternalServerError(w, "Failed to list exceptions")
		}
		return
	}

	response.Success(w, http.StatusOK, "Exceptions retrieved successfully", exceptions)
}

func (h *ExceptionHandler) DeleteException(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	exceptionID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid exception ID", nil)
		return
	}

	err = h.exceptionUsecase.DeleteException(r.Context(), facilityID, exceptionID, actorFromContext(r))
	if err != nil {
		switch err {
		case usecase.ErrExceptionNotFound:
			response.NotFound(w, "Exception not found")
		default:
			response.InternalServerError(w, "Failed to delete exception")
		}
		return
	}

	response.Success(w, http.StatusOK, "Exception deleted successfully", nil)
}
