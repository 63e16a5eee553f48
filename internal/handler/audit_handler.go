package handler

import (
	"net/http"
	"strconv"
	"strings"

	"go-marketplace/internal/model"
	"go-marketplace/internal/service"
)

type AuditHandler struct {
	service *service.AuditService
}

func NewAuditHandler(service *service.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

type auditListData struct {
	Items []model.AuditEntry `json:"items"`
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	actorID, _ := strconv.ParseInt(strings.TrimSpace(query.Get("actor_id")), 10, 64)
	items, meta, err := h.service.Query(r.Context(), model.AuditQuery{
		Action:  query.Get("action"),
		ActorID: actorID,
		Status:  query.Get("status"),
		Page:    parseIntOrDefault(query.Get("page"), 1),
		Limit:   parseIntOrDefault(query.Get("limit"), 50),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, auditListData{Items: items}, &meta)
}
