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

type QueueHandler struct {
	queueUsecase usecase.QueueUsecase
	validator    *validator.CustomValidator
}

func NewQueueHandler(queueUsecase usecase.QueueUsecase, validator *validator.CustomValidator) *QueueHandler {
	return &QueueHandler{
		queueUsecase: queueUsecase,
		validator:    validator,
	}
}

func (h *QueueHandler) CreateQueue(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}

	var req dto.CreateQueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	queue, err := h.queueUsecase.CreateQueue(r.Context(), facilityID, &req)
	if err != nil {
		switch err {
		case usecase.ErrFacilityNotFound:
			response.NotFound(w, "Facility not found")
		case service.ErrPractitionerNotFound:
			response.NotFound(w, "Practitioner not found")
		default:
			response.InternalServerError(w, "Failed to create queue")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Queue created successfully", queue)
}

func (h *QueueHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	queueID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid queue ID", nil)
		return
	}

	queue, err := h.queueUsecase.GetQueue(r.Context(), facilityID, queueID)
	if err != nil {
		switch err {
		case usecase.ErrQueueNotFound:
			response.NotFound(w, "Queue not found")
		default:
			response.InternalServerError(w, "Failed to get queue")
		}
		return
	}

	response.Success(w, http.StatusOK, "Queue retrieved successfully", queue)
}

func (h *QueueHandler) ListQueues(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	practitionerID, err := uuid.Parse(r.URL.Query().Get("practitioner_id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid practitioner ID", nil)
		return
	}

	req := dto.ListQueuesRequest{
		PractitionerID: practitionerID,
		Date:           r.URL.Query().Get("date"),
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	queues, err := h.queueUsecase.ListQueues(r.Context(), facilityID, &req)
	if err != nil {
		switch err {
		case usecase.ErrFacilityNotFound:
			response.NotFound(w, "Facility not found")
		case service.ErrPractitionerNotFound:
			response.NotFound(w, "Practitioner not found")
		default:
			response.InternalServerError(w, "Failed to list queues")
		}
		return
	}

	response.Success(w, http.StatusOK, "Queues retrieved successfully", queues)
}

func (h *QueueHandler) SetPrimaryQueue(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	queueID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid queue ID", nil)
		return
	}

	queue, err := h.queueUsecase.SetPrimaryQueue(r.Context(), facilityID, queueID)
	if err != nil {
		switch err {
		case usecase.ErrQueueNotFound:
			response.NotFound(w, "Queue not found")
		default:
			response.InternalServerError(w, "Failed to set primary queue")
		}
		return
	}

	response.Success(w, http.StatusOK, "Primary queue set successfully", queue)
}

func (h *QueueHandler) QueueSummary(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	queueID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid queue ID", nil)
		return
	}

	summary, err := h.queueUsecase.QueueSummary(r.Context(), facilityID, queueID)
	if err != nil {
		switch err {
		case usecase.ErrQueueNotFound:
			response.NotFound(w, "Queue not found")
		default:
			response.InternalServerError(w, "Failed to summarize queue")
		}
		return
	}

	response.Success(w, http.StatusOK, "Queue summary retrieved successfully", summary)
}

func (h *QueueHandler) ListQueueTokens(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	queueID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid queue ID", nil)
		return
	}

	tokens, err := h.queueUsecase.ListQueueTokens(r.Context(), facilityID, queueID)
	if err != nil {
		switch err {
		case usecase.ErrQueueNotFound:
			response.NotFound(w, "Queue not found")
		default:
			response.InternalServerError(w, "Failed to list queue tokens")
		}
		return
	}

	response.Success(w, http.StatusOK, "Queue tokens retrieved successfully", tokens)
}

func (h *QueueHandler) CreateSubQueue(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}

	var req dto.CreateSubQueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	subQueue, err := h.queueUsecase.CreateSubQueue(r.Context(), facilityID, &req)
	if err != nil {
		switch err {
		case usecase.ErrFacilityNotFound:
			response.NotFound(w, "Facility not found")
		case service.ErrPractitionerNotFound:
			response.NotFound(w, "Practitioner not found")
		default:
			response.InternalServerError(w, "Failed to create sub-queue")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Sub-queue created successfully", subQueue)
}

func (h *QueueHandler) ListSubQueues(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	practitionerID, err := uuid.Parse(r.URL.Query().Get("practitioner_id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid practitioner ID", nil)
		return
	}

	subQueues, err := h.queueUsecase.ListSubQueues(r.Context(), facilityID, practitionerID)
	if err != nil {
		switch err {
		case usecase.ErrFacilityNotFound:
			response.NotFound(w, "Facility not found")
		case service.ErrPractitionerNotFound:
			response.NotFound(w, "Practitioner not found")
		default:
			response.InternalServerError(w, "Failed to list sub-queues")
		}
		return
	}

	response.Success(w, http.StatusOK, "Sub-queues retrieved successfully", subQueues)
}

func (h *QueueHandler) UpdateSubQueue(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	subQueueID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid sub-queue ID", nil)
		return
	}

	var req dto.UpdateSubQueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	subQueue, err := h.queueUsecase.UpdateSubQueue(r.Context(), facilityID, subQueueID, &req)
	if err != nil {
		switch err {
		case usecase.ErrSubQueueNotFound:
			response.NotFound(w, "Sub-queue not found")
		default:
			response.InternalServerError(w, "Failed to update sub-queue")
		}
		return
	}

	response.Success(w, http.StatusOK, "Sub-queue updated successfully", subQueue)
}

func (h *QueueHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}

	var req dto.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	category, err := h.queueUsecase.CreateCategory(r.Context(), facilityID, &req)
	if err != nil {
		switch err {
		case usecase.ErrFacilityNotFound:
			response.NotFound(w, "Facility not found")
		default:
			response.InternalServerError(w, "Failed to create token category")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Token category created successfully", category)
}

func (h *QueueHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}

	categories, err := h.queueUsecase.ListCategories(r.Context(), facilityID)
	if err != nil {
		response.InternalServerError(w, "Failed to list token categories")
		return
	}

	response.Success(w, http.StatusOK, "Token categories retrieved successfully", categories)
}
