package handler

import (
	"encoding/json"
	"net/http"

	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/delivery/http/middleware"
	"clinic-scheduling/internal/service"
	"clinic-scheduling/internal/usecase"
	"clinic-scheduling/pkg/response"
	"clinic-scheduling/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
}

func NewBookingHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	slotID, err := uuid.Parse(mux.Vars(r)["slotId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid slot ID", nil)
		return
	}

	var req dto.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.CreateBooking(r.Context(), facilityID, slotID, actorFromContext(r), &req)
	if err != nil {
		switch err {
		case usecase.ErrSlotNotFound:
			response.NotFound(w, "Slot not found")
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrSlotPast:
			response.Conflict(w, "Slot is already past")
		case usecase.ErrSlotFull:
			response.Conflict(w, "Slot is already full")
		case usecase.ErrDuplicateBooking:
			response.Conflict(w, "Patient already has a booking for this slot")
		case usecase.ErrBookingLimitReached:
			response.TooManyRequests(w, "Patient has too many upcoming bookings")
		case service.ErrLockTimeout:
			response.ServiceUnavailable(w, "Resource is busy, please retry")
		default:
			response.InternalServerError(w, "Failed to create booking")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Booking created successfully", booking)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	bookingID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	booking, err := h.bookingUsecase.GetBooking(r.Context(), facilityID, bookingID)
	if err != nil {
		switch err {
		case usecase.ErrBookingNotFound:
			response.NotFound(w, "Booking not found")
		default:
			response.InternalServerError(w, "Failed to get booking")
		}
		return
	}

	response.Success(w, http.StatusOK, "Booking retrieved successfully", booking)
}

func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}

	var req dto.ListBookingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	bookings, err := h.bookingUsecase.ListBookings(r.Context(), facilityID, &req)
	if err != nil {
		response.InternalServerError(w, "Failed to list bookings")
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	bookingID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	var req dto.CancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.CancelBooking(r.Context(), facilityID, bookingID, actorFromContext(r), &req)
	if err != nil {
		switch err {
		case usecase.ErrBookingNotFound:
			response.NotFound(w, "Booking not found")
		case usecase.ErrInvalidCancelReason:
			response.Error(w, http.StatusBadRequest, "Invalid cancel reason", nil)
		case usecase.ErrBookingInConsultation:
			response.Conflict(w, "Booking is in consultation and cannot be cancelled")
		case service.ErrLockTimeout:
			response.ServiceUnavailable(w, "Resource is busy, please retry")
		default:
			response.InternalServerError(w, "Failed to cancel booking")
		}
		return
	}

	response.Success(w, http.StatusOK, "Booking cancelled successfully", booking)
}

func (h *BookingHandler) RescheduleBooking(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	bookingID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	var req dto.RescheduleBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.RescheduleBooking(r.Context(), facilityID, bookingID, actorFromContext(r), &req)
	if err != nil {
		switch err {
		case usecase.ErrBookingNotFound:
			response.NotFound(w, "Booking not found")
		case usecase.ErrSlotNotFound:
			response.NotFound(w, "New slot not found")
		case usecase.ErrSameSlotReschedule:
			response.Conflict(w, "Cannot reschedule onto the same slot")
		case usecase.ErrBookingAlreadyInactive:
			response.Conflict(w, "Booking no longer holds a slot seat")
		case usecase.ErrBookingInConsultation:
			response.Conflict(w, "Booking is in consultation")
		case usecase.ErrSlotPast:
			response.Conflict(w, "New slot is already past")
		case usecase.ErrSlotFull:
			response.Conflict(w, "New slot is already full")
		case usecase.ErrDuplicateBooking:
			response.Conflict(w, "Patient already has a booking for the new slot")
		case service.ErrLockTimeout:
			response.ServiceUnavailable(w, "Resource is busy, please retry")
		default:
			response.InternalServerError(w, "Failed to reschedule booking")
		}
		return
	}

	response.Success(w, http.StatusOK, "Booking rescheduled successfully", booking)
}

// actorFromContext returns the authenticated user's ID, or nil for
// flows without one (e.g. service-to-service calls).
func actorFromContext(r *http.Request) *uuid.UUID {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		return nil
	}
	return &userID
}
