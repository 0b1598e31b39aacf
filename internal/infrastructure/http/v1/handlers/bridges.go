package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldops/internal/domain/purchasing"
	"fieldops/internal/domain/workorder"
	"fieldops/internal/infrastructure/http/v1/dto"
)

// PurchasingHandler posts supplier deliveries into the ledger.
type PurchasingHandler struct {
	*BaseHandler
	service *purchasing.Service
}

// NewPurchasingHandler creates a new purchasing handler.
func NewPurchasingHandler(base *BaseHandler, service *purchasing.Service) *PurchasingHandler {
	return &PurchasingHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Receive posts a supplier delivery as an import movement.
// POST /purchasing/receive
func (h *PurchasingHandler) Receive(c *gin.Context) {
	var req dto.ReceiveOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := req.ToOrder()
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.Receive(c.Request.Context(), order)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromMovementDocument(doc))
}

// WorkOrderHandler handles work order stock operations.
type WorkOrderHandler struct {
	*BaseHandler
	service *workorder.Service
}

// NewWorkOrderHandler creates a new work order handler.
func NewWorkOrderHandler(base *BaseHandler, service *workorder.Service) *WorkOrderHandler {
	return &WorkOrderHandler{
		BaseHandler: base,
		service:     service,
	}
}

// ReserveParts holds stock for a scheduled work order.
// POST /workorders/reserve
func (h *WorkOrderHandler) ReserveParts(c *gin.Context) {
	var req dto.PartsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	domainReq, err := req.ToRequest()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.ReserveParts(c.Request.Context(), domainReq); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "parts reserved")
}

// ReleaseParts frees held stock, typically on cancellation.
// POST /workorders/release
func (h *WorkOrderHandler) ReleaseParts(c *gin.Context) {
	var req dto.PartsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	domainReq, err := req.ToRequest()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.ReleaseParts(c.Request.Context(), domainReq); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "parts released")
}

// ConsumeParts posts used parts as an export movement.
// POST /workorders/consume
func (h *WorkOrderHandler) ConsumeParts(c *gin.Context) {
	var req dto.PartsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	domainReq, err := req.ToRequest()
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.ConsumeParts(c.Request.Context(), domainReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromMovementDocument(doc))
}
