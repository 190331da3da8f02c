package converter

import (
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// ScheduleToResponse converts a Schedule entity to ScheduleResponse DTO
func ScheduleToResponse(schedule *entity.Schedule) *dto.ScheduleResponse {
	if schedule == nil {
		return nil
	}

	response := &dto.ScheduleResponse{
		ID:         schedule.ID,
		ResourceID: schedule.ResourceID,
		Name:       schedule.Name,
		ValidFrom:  schedule.ValidFrom.Format(dateLayout),
		ValidTo:    schedule.ValidTo.Format(dateLayout),
		CreatedAt:  schedule.CreatedAt,
		UpdatedAt:  schedule.UpdatedAt,
	}

	if len(schedule.Availabilities) > 0 {
		response.Availabilities = AvailabilitiesToResponses(schedule.Availabilities)
	}

	return response
}

// SchedulesToResponses converts a slice of Schedule entities to slice of ScheduleResponse DTOs
func SchedulesToResponses(schedules []entity.Schedule) []dto.ScheduleResponse {
	responses := make([]dto.ScheduleResponse, len(schedules))
	for i, schedule := range schedules {
		resp := ScheduleToResponse(&schedule)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// AvailabilityToResponse converts an Availability entity to AvailabilityResponse DTO
func AvailabilityToResponse(availability *entity.Availability) *dto.AvailabilityResponse {
	if availability == nil {
		return nil
	}

	rows := make([]dto.AvailabilityRowRequest, len(availability.Availability))
	for i, row := range availability.Availability {
		rows[i] = dto.AvailabilityRowRequest{
			DayOfWeek: row.DayOfWeek,
			StartTime: row.StartTime,
			EndTime:   row.EndTime,
		}
	}

	return &dto.AvailabilityResponse{
		ID:                availability.ID,
		ScheduleID:        availability.ScheduleID,
		Name:              availability.Name,
		SlotType:          string(availability.SlotType),
		SlotSizeInMinutes: availability.SlotSizeInMinutes,
		TokensPerSlot:     availability.TokensPerSlot,
		Reason:            availability.Reason,
		Availability:      rows,
		CreatedAt:         availability.CreatedAt,
	}
}

// AvailabilitiesToResponses converts a slice of Availability entities to slice of AvailabilityResponse DTOs
func AvailabilitiesToResponses(availabilities []entity.Availability) []dto.AvailabilityResponse {
	responses := make([]dto.AvailabilityResponse, len(availabilities))
	for i, availability := range availabilities {
		resp := AvailabilityToResponse(&availability)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// ExceptionToResponse converts an AvailabilityException entity to ExceptionResponse DTO
func ExceptionToResponse(exception *entity.AvailabilityException) *dto.ExceptionResponse {
	if exception == nil {
		return nil
	}
	return &dto.ExceptionResponse{
		ID:         exception.ID,
		ResourceID: exception.ResourceID,
		Name:       exception.Name,
		Reason:     exception.Reason,
		ValidFrom:  exception.ValidFrom.Format(dateLayout),
		ValidTo:    exception.ValidTo.Format(dateLayout),
		StartTime:  exception.StartTime,
		EndTime:    exception.EndTime,
		CreatedAt:  exception.CreatedAt,
	}
}

// ExceptionsToResponses converts a slice of AvailabilityException entities to slice of ExceptionResponse DTOs
func ExceptionsToResponses(exceptions []entity.AvailabilityException) []dto.ExceptionResponse {
	responses := make([]dto.ExceptionResponse, len(exceptions))
	for i, exception := range exceptions {
		resp := ExceptionToResponse(&exception)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// PractitionerToResponse converts a User entity to PractitionerResponse DTO
func PractitionerToResponse(user *entity.User) *dto.PractitionerResponse {
	if user == nil {
		return nil
	}
	return &dto.PractitionerResponse{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
	}
}

// PractitionersToResponses converts a slice of User entities to slice of PractitionerResponse DTOs
func PractitionersToResponses(users []entity.User) []dto.PractitionerResponse {
	responses := make([]dto.PractitionerResponse, len(users))
	for i, user := range users {
		resp := PractitionerToResponse(&user)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
