package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fieldops/internal/core/apperror"
	"fieldops/internal/core/entity"
	"fieldops/internal/core/id"
	"fieldops/internal/domain/inventory"
	"fieldops/internal/infrastructure/http/v1/dto"
)

// InventoryHandler handles HTTP requests for the inventory ledger.
type InventoryHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(base *BaseHandler, service *inventory.Service) *InventoryHandler {
	return &InventoryHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Import posts an import movement.
// POST /inventory/import
func (h *InventoryHandler) Import(c *gin.Context) {
	var req dto.ImportRequest
	if !h.BindJSON(c, &req) {
		return
	}

	domainReq, err := req.ToRequest()
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.Import(c.Request.Context(), domainReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromMovementDocument(doc))
}

// Export posts an export movement.
// POST /inventory/export
func (h *InventoryHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if !h.BindJSON(c, &req) {
		return
	}

	domainReq, err := req.ToRequest()
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.Export(c.Request.Context(), domainReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromMovementDocument(doc))
}

// Transfer posts a transfer movement between two warehouses.
// POST /inventory/transfer
func (h *InventoryHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if !h.BindJSON(c, &req) {
		return
	}

	domainReq, err := req.ToRequest()
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.Transfer(c.Request.Context(), domainReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromMovementDocument(doc))
}

// Stocktake posts counted quantities, correcting the balances.
// POST /inventory/stocktake
func (h *InventoryHandler) Stocktake(c *gin.Context) {
	var req dto.StocktakeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	domainReq, err := req.ToRequest()
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.Stocktake(c.Request.Context(), domainReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromMovementDocument(doc))
}

// Reserve holds stock for a work order.
// POST /inventory/reserve
func (h *InventoryHandler) Reserve(c *gin.Context) {
	var req dto.ReservationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	domainReq, err := req.ToRequest()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Reserve(c.Request.Context(), domainReq); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "stock reserved")
}

// Release frees a reservation.
// POST /inventory/release
func (h *InventoryHandler) Release(c *gin.Context) {
	var req dto.ReservationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	domainReq, err := req.ToRequest()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Release(c.Request.Context(), domainReq); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "reservation released")
}

// GetBalance returns one warehouse/product balance.
// GET /inventory/balances/:warehouseId/:productId
func (h *InventoryHandler) GetBalance(c *gin.Context) {
	warehouseID, err := id.Parse(c.Param("warehouseId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid warehouseId format"))
		return
	}
	productID, err := id.Parse(c.Param("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return
	}

	balance, err := h.service.GetBalance(c.Request.Context(), warehouseID, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromStockBalance(balance))
}

// ListBalances returns balances with filtering and pagination.
// GET /inventory/balances
func (h *InventoryHandler) ListBalances(c *gin.Context) {
	f := inventory.BalanceFilter{
		Limit:          h.ParseIntQuery(c, "limit", 50),
		Offset:         h.ParseIntQuery(c, "offset", 0),
		ExcludeZero:    c.Query("excludeZero") == "true",
		Search:         c.Query("search"),
		BelowThreshold: c.Query("belowThreshold") == "true",
	}

	if warehouseID := c.Query("warehouseId"); warehouseID != "" {
		parsed, err := id.Parse(warehouseID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid warehouseId format"))
			return
		}
		f.WarehouseID = &parsed
	}

	for _, raw := range c.QueryArray("productId") {
		parsed, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productId format"))
			return
		}
		f.ProductIDs = append(f.ProductIDs, parsed)
	}

	result, err := h.service.ListBalances(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.StockBalanceResponse, len(result.Items))
	for i, b := range result.Items {
		items[i] = dto.FromStockBalance(b)
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// GetLedger returns ledger entries (the stock card).
// GET /inventory/ledger
func (h *InventoryHandler) GetLedger(c *gin.Context) {
	f := inventory.LedgerFilter{
		Limit:   h.ParseIntQuery(c, "limit", 50),
		Offset:  h.ParseIntQuery(c, "offset", 0),
		OrderBy: c.DefaultQuery("orderBy", "-created_at"),
	}

	if warehouseID := c.Query("warehouseId"); warehouseID != "" {
		parsed, err := id.Parse(warehouseID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid warehouseId format"))
			return
		}
		f.WarehouseID = &parsed
	}

	if productID := c.Query("productId"); productID != "" {
		parsed, err := id.Parse(productID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productId format"))
			return
		}
		f.ProductID = &parsed
	}

	if movementType := c.Query("movementType"); movementType != "" {
		mt := entity.MovementType(movementType)
		if !mt.Valid() {
			h.Error(c, apperror.NewValidation("invalid movementType").
				WithDetail("movementType", movementType))
			return
		}
		f.MovementType = &mt
	}

	if documentNo := c.Query("documentNo"); documentNo != "" {
		f.DocumentNo = &documentNo
	}

	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		if parsed, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			f.FromDate = &parsed
		}
	}

	if dateTo := c.Query("dateTo"); dateTo != "" {
		if parsed, err := time.Parse(time.RFC3339, dateTo); err == nil {
			f.ToDate = &parsed
		}
	}

	result, err := h.service.GetLedger(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.LedgerEntryResponse, len(result.Items))
	for i, e := range result.Items {
		items[i] = dto.FromLedgerEntry(e)
	}

	resp := dto.StockCardResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	}
	if result.Balance != nil {
		bal := dto.FromStockBalance(*result.Balance)
		resp.Balance = &bal
	}
	h.OK(c, resp)
}

// GetDocument returns all entries of one movement document.
// GET /inventory/documents/:documentNo
func (h *InventoryHandler) GetDocument(c *gin.Context) {
	doc, err := h.service.GetDocument(c.Request.Context(), c.Param("documentNo"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromMovementDocument(doc))
}

// GetAvailability returns the across-warehouse view for a product.
// GET /inventory/availability/:productId
func (h *InventoryHandler) GetAvailability(c *gin.Context) {
	productID, err := id.Parse(c.Param("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return
	}

	availability, err := h.service.GetAcrossWarehouses(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProductAvailability(availability))
}

// GetStats returns the statistics summary.
// GET /inventory/stats
func (h *InventoryHandler) GetStats(c *gin.Context) {
	var warehouseID *id.ID
	if raw := c.Query("warehouseId"); raw != "" {
		parsed, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid warehouseId format"))
			return
		}
		warehouseID = &parsed
	}

	stats, err := h.service.GetStats(c.Request.Context(), warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromStats(stats))
}
