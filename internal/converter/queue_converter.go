package converter

import (
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/domain/repository"

	"github.com/google/uuid"
)

// QueueToResponse converts a TokenQueue entity to QueueResponse DTO
func QueueToResponse(queue *entity.TokenQueue) *dto.QueueResponse {
	if queue == nil {
		return nil
	}
	return &dto.QueueResponse{
		ID:              queue.ID,
		FacilityID:      queue.FacilityID,
		ResourceID:      queue.ResourceID,
		Name:            queue.Name,
		Date:            queue.Date.Format(dateLayout),
		IsPrimary:       queue.IsPrimary,
		SystemGenerated: queue.SystemGenerated,
		CreatedAt:       queue.CreatedAt,
	}
}

// QueuesToResponses converts a slice of TokenQueue entities to slice of QueueResponse DTOs
func QueuesToResponses(queues []entity.TokenQueue) []dto.QueueResponse {
	responses := make([]dto.QueueResponse, len(queues))
	for i, queue := range queues {
		resp := QueueToResponse(&queue)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// SubQueueToResponse converts a TokenSubQueue entity to SubQueueResponse DTO
func SubQueueToResponse(subQueue *entity.TokenSubQueue) *dto.SubQueueResponse {
	if subQueue == nil {
		return nil
	}

	response := &dto.SubQueueResponse{
		ID:         subQueue.ID,
		ResourceID: subQueue.ResourceID,
		Name:       subQueue.Name,
		Status:     subQueue.Status,
		CreatedAt:  subQueue.CreatedAt,
	}
	if subQueue.CurrentToken != nil {
		response.CurrentToken = TokenToResponse(subQueue.CurrentToken)
	}

	return response
}

// SubQueuesToResponses converts a slice of TokenSubQueue entities to slice of SubQueueResponse DTOs
func SubQueuesToResponses(subQueues []entity.TokenSubQueue) []dto.SubQueueResponse {
	responses := make([]dto.SubQueueResponse, len(subQueues))
	for i, subQueue := range subQueues {
		resp := SubQueueToResponse(&subQueue)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// CategoryToResponse converts a TokenCategory entity to CategoryResponse DTO
func CategoryToResponse(category *entity.TokenCategory) *dto.CategoryResponse {
	if category == nil {
		return nil
	}
	return &dto.CategoryResponse{
		ID:           category.ID,
		FacilityID:   category.FacilityID,
		ResourceType: category.ResourceType,
		Name:         category.Name,
		Shorthand:    category.Shorthand,
		Default:      category.Default,
	}
}

// CategoriesToResponses converts a slice of TokenCategory entities to slice of CategoryResponse DTOs
func CategoriesToResponses(categories []entity.TokenCategory) []dto.CategoryResponse {
	responses := make([]dto.CategoryResponse, len(categories))
	for i, category := range categories {
		resp := CategoryToResponse(&category)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// TokenToResponse converts a Token entity to TokenResponse DTO
func TokenToResponse(token *entity.Token) *dto.TokenResponse {
	if token == nil {
		return nil
	}

	response := &dto.TokenResponse{
		ID:         token.ID,
		QueueID:    token.QueueID,
		CategoryID: token.CategoryID,
		SubQueueID: token.SubQueueID,
		Number:     token.Number,
		Status:     string(token.Status),
		Note:       token.Note,
		CreatedAt:  token.CreatedAt,
		UpdatedAt:  token.UpdatedAt,
	}

	// Display shorthand like "GEN-4" when the category is loaded
	if token.Category.ID != uuid.Nil {
		response.Shorthand = token.Category.Shorthand
	}
	if token.Patient != nil {
		response.Patient = PatientToResponse(token.Patient)
	}

	return response
}

// TokensToResponses converts a slice of Token entities to slice of TokenResponse DTOs
func TokensToResponses(tokens []entity.Token) []dto.TokenResponse {
	responses := make([]dto.TokenResponse, len(tokens))
	for i, token := range tokens {
		resp := TokenToResponse(&token)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// SummaryRowsToResponse converts repository summary rows to QueueSummaryResponse DTO
func SummaryRowsToResponse(queueID uuid.UUID, rows []repository.TokenSummaryRow) *dto.QueueSummaryResponse {
	out := make([]dto.QueueSummaryRow, len(rows))
	for i, row := range rows {
		out[i] = dto.QueueSummaryRow{
			Category: row.CategoryName,
			Status:   string(row.Status),
			Count:    row.Count,
		}
	}
	return &dto.QueueSummaryResponse{
		QueueID: queueID,
		Rows:    out,
	}
}
