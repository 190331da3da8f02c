package converter

import (
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
)

// BookingToResponse converts a TokenBooking entity to BookingResponse DTO
func BookingToResponse(booking *entity.TokenBooking) *dto.BookingResponse {
	if booking == nil {
		return nil
	}

	response := &dto.BookingResponse{
		ID:         booking.ID,
		SlotID:     booking.TokenSlotID,
		PatientID:  booking.PatientID,
		BookedByID: booking.BookedByID,
		BookedOn:   booking.BookedOn,
		Status:     string(booking.Status),
		Note:       booking.Note,
		Tags:       []string(booking.Tags),
		CreatedAt:  booking.CreatedAt,
		UpdatedAt:  booking.UpdatedAt,
	}
	if response.Tags == nil {
		response.Tags = []string{}
	}

	// Include slot and patient info if loaded
	if booking.TokenSlot.ID != uuid.Nil {
		response.Slot = SlotToResponse(&booking.TokenSlot)
	}
	if booking.Patient.ID != uuid.Nil {
		response.Patient = PatientToResponse(&booking.Patient)
	}

	return response
}

// BookingsToResponses converts a slice of TokenBooking entities to slice of BookingResponse DTOs
func BookingsToResponses(bookings []entity.TokenBooking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, len(bookings))
	for i, booking := range bookings {
		resp := BookingToResponse(&booking)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}
	return &dto.PatientResponse{
		ID:          patient.ID,
		FullName:    patient.FullName,
		PhoneNumber: patient.PhoneNumber,
	}
}
