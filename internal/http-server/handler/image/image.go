package image

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"interior-media/internal/domain"
	"interior-media/internal/http-server/handler/image/dto"
	"interior-media/internal/repository/image/db/postgres"
	image_uc "interior-media/internal/usecase/image"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/zlog"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type ImageHandler struct {
	usecase  imageUsecase
	validate *validator.Validate
	logger   *zlog.Zerolog
}

func NewImageHandler(usecase imageUsecase, logger *zlog.Zerolog) *ImageHandler {
	return &ImageHandler{
		usecase:  usecase,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *ImageHandler) CreatePresignedURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.PresignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	ticket, err := h.usecase.CreatePresignedUpload(ctx, image_uc.PresignParams{
		FileName:               req.FileName,
		ContentType:            req.ContentType,
		PropertyID:             req.PropertyID,
		RoomID:                 req.RoomID,
		ProductID:              req.ProductID,
		ProductSpecificationID: req.ProductSpecificationID,
		DrawingID:              req.DrawingID,
		ImageType:              domain.ImageType(req.ImageType),
	})
	if err != nil {
		if errors.Is(err, image_uc.ErrInvalidScope) {
			h.respondError(w, http.StatusBadRequest, "At least one scope identifier is required", nil)
			return
		}
		h.logger.Error().Err(err).Str("file_name", req.FileName).Msg("Failed to create presigned upload")
		h.respondError(w, http.StatusInternalServerError, "Failed to create presigned upload", err)
		return
	}

	h.respondJSON(w, http.StatusCreated, dto.PresignResponse{
		ImageID:   ticket.ImageID,
		UploadURL: ticket.UploadURL,
		ImageURL:  ticket.ImageURL,
	})
}

func (h *ImageHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := chi.URLParam(r, "id")
	if id == "" {
		h.respondError(w, http.StatusBadRequest, "Image ID is required", nil)
		return
	}

	var req dto.StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	if err := h.usecase.UpdateStatus(ctx, id, domain.ImageStatus(req.Status)); err != nil {
		h.handleMutationError(w, err, id, "Failed to update status")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ImageHandler) UpdateType(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := chi.URLParam(r, "id")
	if id == "" {
		h.respondError(w, http.StatusBadRequest, "Image ID is required", nil)
		return
	}

	var req dto.TypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	if err := h.usecase.UpdateType(ctx, id, domain.ImageType(req.ImageType)); err != nil {
		h.handleMutationError(w, err, id, "Failed to update type")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ImageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := chi.URLParam(r, "id")
	if id == "" {
		h.respondError(w, http.StatusBadRequest, "Image ID is required", nil)
		return
	}

	if err := h.usecase.DeleteImage(ctx, id); err != nil {
		h.handleMutationError(w, err, id, "Failed to delete image")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ImageHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := postgres.ListFilter{
		PropertyID: q.Get("property_id"),
		RoomID:     q.Get("room_id"),
		ProductID:  q.Get("product_id"),
		Skip:       parseIntParam(q.Get("skip"), 0),
		Limit:      parseIntParam(q.Get("limit"), defaultLimit),
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}

	images, err := h.usecase.ListImages(ctx, filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list images")
		h.respondError(w, http.StatusInternalServerError, "Failed to list images", err)
		return
	}

	response := make([]dto.ImageResponse, 0, len(images))
	for i := range images {
		response = append(response, dto.FromImage(&images[i]))
	}

	h.respondJSON(w, http.StatusOK, response)
}

func (h *ImageHandler) handleMutationError(w http.ResponseWriter, err error, imageID, message string) {
	switch {
	case errors.Is(err, image_uc.ErrImageNotFound):
		h.respondError(w, http.StatusNotFound, "Image not found", nil)
	default:
		h.logger.Error().Err(err).Str("image_id", imageID).Msg(message)
		h.respondError(w, http.StatusInternalServerError, message, err)
	}
}

func (h *ImageHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *ImageHandler) respondError(w http.ResponseWriter, status int, message string, err error) {
	response := dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	}
	if err != nil {
		response.Details = err.Error()
	}

	h.respondJSON(w, status, response)
}

func parseIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
