package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appctx "fieldops/internal/core/context"
	"fieldops/internal/core/apperror"
	"fieldops/internal/core/id"
	"fieldops/internal/domain/catalogs/warehouse"
	"fieldops/internal/infrastructure/http/v1/dto"
)

// WarehouseHandler handles HTTP requests for the warehouse catalog.
type WarehouseHandler struct {
	*BaseHandler
	service *warehouse.Service
}

// NewWarehouseHandler creates a new warehouse handler.
func NewWarehouseHandler(base *BaseHandler, service *warehouse.Service) *WarehouseHandler {
	return &WarehouseHandler{
		BaseHandler: base,
		service:     service,
	}
}

func (h *WarehouseHandler) List(c *gin.Context) {
	f := warehouse.DefaultListFilter()
	f.Search = c.Query("search")
	f.Limit = h.ParseIntQuery(c, "limit", 50)
	f.Offset = h.ParseIntQuery(c, "offset", 0)
	f.OrderBy = c.DefaultQuery("orderBy", "name")
	f.IncludeDeleted = c.Query("includeDeleted") == "true"

	if whType := c.Query("type"); whType != "" {
		t := warehouse.Type(whType)
		f.Type = &t
	}

	result, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.WarehouseResponse, len(result.Items))
	for i, w := range result.Items {
		items[i] = dto.FromWarehouse(w)
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

func (h *WarehouseHandler) Get(c *gin.Context) {
	whID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	wh, err := h.service.GetByID(c.Request.Context(), whID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromWarehouse(wh))
}

func (h *WarehouseHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateWarehouseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tenantID, err := id.Parse(appctx.GetTenantID(ctx))
	if err != nil {
		h.Error(c, apperror.NewValidation("missing tenant"))
		return
	}

	wh := warehouse.New(tenantID, req.Code, req.Name, warehouse.Type(req.Type))
	wh.Address = req.Address
	wh.Description = req.Description

	if err := h.service.Create(ctx, wh); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromWarehouse(wh))
}

func (h *WarehouseHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	whID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateWarehouseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	wh, err := h.service.GetByID(ctx, whID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(wh)

	if err := h.service.Update(ctx, wh); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromWarehouse(wh))
}

func (h *WarehouseHandler) Delete(c *gin.Context) {
	whID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), whID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
