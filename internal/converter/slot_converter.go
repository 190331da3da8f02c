package converter

import (
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
)

// SlotToResponse converts a TokenSlot entity to SlotResponse DTO
func SlotToResponse(slot *entity.TokenSlot) *dto.SlotResponse {
	if slot == nil {
		return nil
	}

	response := &dto.SlotResponse{
		ID:             slot.ID,
		ResourceID:     slot.ResourceID,
		AvailabilityID: slot.AvailabilityID,
		StartDatetime:  slot.StartDatetime,
		EndDatetime:    slot.EndDatetime,
		Allocated:      slot.Allocated,
	}

	// Include per-slot capacity if the availability is loaded
	if slot.Availability != nil {
		response.TokensPerSlot = slot.Availability.TokensPerSlot
	}

	return response
}

// SlotsToResponses converts a slice of TokenSlot entities to slice of SlotResponse DTOs
func SlotsToResponses(slots []entity.TokenSlot) []dto.SlotResponse {
	responses := make([]dto.SlotResponse, len(slots))
	for i, slot := range slots {
		resp := SlotToResponse(&slot)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
