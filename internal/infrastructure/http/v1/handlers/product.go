package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appctx "fieldops/internal/core/context"
	"fieldops/internal/core/apperror"
	"fieldops/internal/core/id"
	"fieldops/internal/core/types"
	"fieldops/internal/domain/catalogs/product"
	"fieldops/internal/infrastructure/http/v1/dto"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	*BaseHandler
	service *product.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	return &ProductHandler{
		BaseHandler: base,
		service:     service,
	}
}

func (h *ProductHandler) List(c *gin.Context) {
	f := product.DefaultListFilter()
	f.Search = c.Query("search")
	f.Limit = h.ParseIntQuery(c, "limit", 50)
	f.Offset = h.ParseIntQuery(c, "offset", 0)
	f.OrderBy = c.DefaultQuery("orderBy", "name")
	f.IncludeDeleted = c.Query("includeDeleted") == "true"

	if kind := c.Query("kind"); kind != "" {
		k := product.Kind(kind)
		f.Kind = &k
	}

	result, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.ProductResponse, len(result.Items))
	for i, p := range result.Items {
		items[i] = dto.FromProduct(p)
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

func (h *ProductHandler) Get(c *gin.Context) {
	productID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProduct(p))
}

func (h *ProductHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tenantID, err := id.Parse(appctx.GetTenantID(ctx))
	if err != nil {
		h.Error(c, apperror.NewValidation("missing tenant"))
		return
	}

	p := product.New(tenantID, req.Code, req.Name, product.Kind(req.Kind))
	p.SKU = req.SKU
	p.Barcode = req.Barcode
	p.Description = req.Description
	p.LowStockThreshold = types.NewQuantityFromFloat64(req.LowStockThreshold)
	if req.Unit != "" {
		p.Unit = req.Unit
	}
	if req.DefaultCost != nil {
		cost := types.NewMoney(*req.DefaultCost)
		p.DefaultCost = &cost
	}

	if err := h.service.Create(ctx, p); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromProduct(p))
}

func (h *ProductHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.GetByID(ctx, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(p)

	if err := h.service.Update(ctx, p); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProduct(p))
}

func (h *ProductHandler) Delete(c *gin.Context) {
	productID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), productID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
