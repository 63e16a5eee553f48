package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-marketplace/internal/middleware"
	"go-marketplace/internal/model"
	"go-marketplace/internal/service"
)

type ProductHandler struct {
	auth *service.AuthService
}

func NewProductHandler(auth *service.AuthService) *ProductHandler {
	return &ProductHandler{auth: auth}
}

func (h *ProductHandler) AddHeart(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	productID, err := parseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	heart, err := h.auth.AddHeart(r.Context(), identity.UserID, productID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, heart, nil)
}
