package handler

import (
	"encoding/json"
	"net/http"

	"profiledash/internal/api/middleware"
	"profiledash/internal/app/service"
	"profiledash/internal/common"

	"github.com/go-chi/chi/v5"
)

type CardHandler struct {
	cardService *service.CardService
}

func NewCardHandler(cardService *service.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// RegisterRoutes mounts the card surface. Listing and reading are open to any
// authenticated user (the service filters by role); mutations are admin-only.
func (h *CardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listCards)
	r.Get("/{cardID}", h.getCard)

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.RequireAdmin)
		adminRouter.Post("/", h.createCard)
		adminRouter.Put("/{cardID}", h.updateCard)
		adminRouter.Delete("/{cardID}", h.deleteCard)
	})
}

func (h *CardHandler) listCards(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.CurrentUser(r.Context())
	cards, err := h.cardService.List(r.Context(), actor)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"cards": cards})
}

func (h *CardHandler) getCard(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.CurrentUser(r.Context())
	card, err := h.cardService.Get(r.Context(), actor, chi.URLParam(r, "cardID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"card": card})
}

func (h *CardHandler) createCard(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.CurrentUser(r.Context())

	var req service.CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	card, err := h.cardService.Create(r.Context(), actor, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Card created successfully",
		"card":    card,
	})
}

func (h *CardHandler) updateCard(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.CurrentUser(r.Context())

	var req service.UpdateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	if err := h.cardService.Update(r.Context(), actor, chi.URLParam(r, "cardID"), req); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Card updated successfully"})
}

func (h *CardHandler) deleteCard(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.CurrentUser(r.Context())

	if err := h.cardService.Delete(r.Context(), actor, chi.URLParam(r, "cardID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Card deleted successfully"})
}
