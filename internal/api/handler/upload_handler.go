package handler

import (
	"net/http"

	"profiledash/internal/api/middleware"
	"profiledash/internal/app/service"
	"profiledash/internal/common"
	"profiledash/internal/domain/model"
	"profiledash/internal/platform/blob"

	"github.com/go-chi/chi/v5"
)

// UploadHandler streams raw request bodies into the blob store and records
// the returned URL. Byte storage is fully delegated: the database only ever
// holds metadata.
type UploadHandler struct {
	store       blob.Store
	cardService *service.CardService
}

func NewUploadHandler(store blob.Store, cardService *service.CardService) *UploadHandler {
	return &UploadHandler{store: store, cardService: cardService}
}

func (h *UploadHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.upload)
}

func (h *UploadHandler) upload(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.CurrentUser(r.Context())

	filename := r.URL.Query().Get("filename")
	cardID := r.URL.Query().Get("cardId")
	if filename == "" {
		common.RespondWithError(w, http.StatusBadRequest, "Filename is required")
		return
	}
	if r.Body == nil {
		common.RespondWithError(w, http.StatusBadRequest, "Request body is empty")
		return
	}

	// Ownership is checked before the bytes are stored, so a forbidden upload
	// has no side effects anywhere.
	if cardID != "" {
		if err := h.cardService.AuthorizeAttach(r.Context(), actor, cardID); err != nil {
			common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
			return
		}
	}

	url, err := h.store.Put(filename, r.Header.Get("Content-Type"), r.Body)
	if err != nil {
		common.RespondWithError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	if cardID != "" {
		size := r.ContentLength
		record := model.FileRecord{
			FileName: filename,
			FileURL:  url,
		}
		if size > 0 {
			record.FileSize = &size
		}
		if ct := r.Header.Get("Content-Type"); ct != "" {
			record.MimeType = &ct
		}
		stored, err := h.cardService.AttachFile(r.Context(), actor, cardID, record)
		if err != nil {
			common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
			return
		}
		common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"url": url, "file": stored})
		return
	}

	common.RespondWithJSON(w, http.StatusOK, map[string]string{"url": url})
}
