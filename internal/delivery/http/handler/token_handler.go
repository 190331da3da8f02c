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

type TokenHandler struct {
	tokenUsecase usecase.TokenUsecase
	validator    *validator.CustomValidator
}

func NewTokenHandler(tokenUsecase usecase.TokenUsecase, validator *validator.CustomValidator) *TokenHandler {
	return &TokenHandler{
		tokenUsecase: tokenUsecase,
		validator:    validator,
	}
}

func (h *TokenHandler) GenerateToken(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}

	var req dto.GenerateTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	token, err := h.tokenUsecase.GenerateToken(r.Context(), facilityID, actorFromContext(r), &req)
	if err != nil {
		switch err {
		case usecase.ErrQueueNotFound:
			response.NotFound(w, "Queue not found")
		case usecase.ErrQueueTargetMissing:
			response.Error(w, http.StatusBadRequest, "Either queue_id or practitioner_id and date are required", nil)
		case usecase.ErrCategoryNotFound:
			response.NotFound(w, "Token category not found")
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrSubQueueNotFound:
			response.NotFound(w, "Sub-queue not found")
		case usecase.ErrSubQueueResourceMismatch:
			response.Conflict(w, "Sub-queue belongs to a different resource")
		case usecase.ErrFacilityNotFound:
			response.NotFound(w, "Facility not found")
		case service.ErrPractitionerNotFound:
			response.NotFound(w, "Practitioner not found")
		case service.ErrLockTimeout:
			response.ServiceUnavailable(w, "Queue is busy, please retry")
		default:
			response.InternalServerError(w, "Failed to generate token")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Token generated successfully", token)
}

func (h *TokenHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	tokenID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid token ID", nil)
		return
	}

	token, err := h.tokenUsecase.GetToken(r.Context(), facilityID, tokenID)
	if err != nil {
		switch err {
		case usecase.ErrTokenNotFound:
			response.NotFound(w, "Token not found")
		default:
			response.InternalServerError(w, "Failed to get token")
		}
		return
	}

	response.Success(w, http.StatusOK, "Token retrieved successfully", token)
}

func (h *TokenHandler) UpdateToken(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	tokenID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid token ID", nil)
		return
	}

	var req dto.UpdateTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	token, err := h.tokenUsecase.UpdateToken(r.Context(), facilityID, tokenID, &req)
	if err != nil {
		switch err {
		case usecase.ErrTokenNotFound:
			response.NotFound(w, "Token not found")
		case usecase.ErrSubQueueNotFound:
			response.NotFound(w, "Sub-queue not found")
		case usecase.ErrSubQueueResourceMismatch:
			response.Conflict(w, "Sub-queue belongs to a different resource")
		case usecase.ErrInvalidTokenTransition:
			response.Conflict(w, "Token status transition not allowed")
		default:
			response.InternalServerError(w, "Failed to update token")
		}
		return
	}

	response.Success(w, http.StatusOK, "Token updated successfully", token)
}

func (h *TokenHandler) DestroyToken(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	tokenID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid token ID", nil)
		return
	}

	err = h.tokenUsecase.DestroyToken(r.Context(), facilityID, tokenID, actorFromContext(r))
	if err != nil {
		switch err {
		case usecase.ErrTokenNotFound:
			response.NotFound(w, "Token not found")
		default:
			response.InternalServerError(w, "Failed to destroy token")
		}
		return
	}

	response.Success(w, http.StatusOK, "Token destroyed successfully", nil)
}

func (h *TokenHandler) SetNextToken(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	subQueueID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid sub-queue ID", nil)
		return
	}

	var req dto.SetNextTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	subQueue, err := h.tokenUsecase.SetNextToken(r.Context(), facilityID, subQueueID, &req)
	if err != nil {
		switch err {
		case usecase.ErrTokenNotFound:
			response.NotFound(w, "Token not found")
		case usecase.ErrSubQueueNotFound:
			response.NotFound(w, "Sub-queue not found")
		case usecase.ErrSubQueueResourceMismatch:
			response.Conflict(w, "Sub-queue belongs to a different resource")
		case usecase.ErrInvalidTokenTransition:
			response.Conflict(w, "Token status transition not allowed")
		case service.ErrLockTimeout:
			response.ServiceUnavailable(w, "Queue is busy, please retry")
		default:
			response.InternalServerError(w, "Failed to set next token")
		}
		return
	}

	response.Success(w, http.StatusOK, "Next token set successfully", subQueue)
}

func (h *TokenHandler) CallNextToken(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := parseFacilityID(w, r)
	if !ok {
		return
	}
	subQueueID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid sub-queue ID", nil)
		return
	}

	var req dto.CallNextTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	subQueue, err := h.tokenUsecase.CallNextToken(r.Context(), facilityID, subQueueID, &req)
	if err != nil {
		switch err {
		case usecase.ErrQueueNotFound:
			response.NotFound(w, "Queue not found")
		case usecase.ErrSubQueueNotFound:
			response.NotFound(w, "Sub-queue not found")
		case usecase.ErrSubQueueResourceMismatch:
			response.Conflict(w, "Sub-queue belongs to a different resource")
		case usecase.ErrQueueDrained:
			response.Conflict(w, "No tokens waiting in the queue")
		case service.ErrLockTimeout:
			response.ServiceUnavailable(w, "Queue is busy, please retry")
		default:
			response.InternalServerError(w, "Failed to call next token")
		}
		return
	}

	response.Success(w, http.StatusOK, "Next token called successfully", subQueue)
}
