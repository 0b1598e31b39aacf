package handlers

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"fieldops/internal/infrastructure/storage/postgres"
)

// AuditHandler exposes the movement audit trail.
type AuditHandler struct {
	*BaseHandler
	store *postgres.MovementAuditStore
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, store *postgres.MovementAuditStore) *AuditHandler {
	return &AuditHandler{
		BaseHandler: base,
		store:       store,
	}
}

type auditEntryResponse struct {
	ID           string          `json:"id"`
	DocumentNo   string          `json:"documentNo"`
	MovementType string          `json:"movementType"`
	UserID       string          `json:"userId,omitempty"`
	Payload      json.RawMessage `json:"payload"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// History returns recorded audit entries for a movement document.
// GET /inventory/audit/:documentNo
func (h *AuditHandler) History(c *gin.Context) {
	limit := h.ParseIntQuery(c, "limit", 50)

	entries, err := h.store.GetHistory(c.Request.Context(), c.Param("documentNo"), limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]auditEntryResponse, len(entries))
	for i, e := range entries {
		items[i] = auditEntryResponse{
			ID:           e.ID.String(),
			DocumentNo:   e.DocumentNo,
			MovementType: e.MovementType,
			UserID:       e.UserID,
			Payload:      e.Payload,
			CreatedAt:    e.CreatedAt,
		}
	}

	h.OK(c, items)
}
