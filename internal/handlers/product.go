// internal/handlers/product.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/driprats/storefront-admin/internal/i18n"
	"github.com/driprats/storefront-admin/internal/models"
	"github.com/driprats/storefront-admin/internal/repository"
	"github.com/driprats/storefront-admin/internal/services"
	"github.com/driprats/storefront-admin/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// GET /api/products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.productService.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err, i18n.KeyProductFetchFail)
		return
	}
	utils.SuccessResponse(c, products)
}

// GET /api/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, i18n.KeyProductFetchFail)
		return
	}
	utils.SuccessResponse(c, product)
}

// GET /api/products/:id/search-index
func (h *ProductHandler) GetSearchEntry(c *gin.Context) {
	entry, err := h.productService.GetSearchEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, i18n.KeyProductFetchFail)
		return
	}
	utils.SuccessResponse(c, entry)
}

// POST /api/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err, i18n.KeyProductSaveFail)
		return
	}
	utils.CreatedResponse(c, product)
}

// PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeError(c, err, i18n.KeyProductSaveFail)
		return
	}
	utils.SuccessResponse(c, product)
}

// DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.productService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err, i18n.KeyProductDeleteFail)
		return
	}
	utils.OKResponse(c)
}

// POST /api/products/reconcile
func (h *ProductHandler) Reconcile(c *gin.Context) {
	report, err := h.productService.Reconcile(c.Request.Context())
	if err != nil {
		h.writeError(c, err, i18n.KeyReconcileFailed)
		return
	}
	utils.SuccessResponse(c, report)
}

func (h *ProductHandler) bindInput(c *gin.Context) (*models.ProductInput, bool) {
	lang := utils.GetLangFromContext(c)

	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return nil, false
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&in)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return nil, false
	}
	return &in, true
}

func (h *ProductHandler) writeError(c *gin.Context, err error, fallbackKey string) {
	lang := utils.GetLangFromContext(c)

	var hostErr *services.ImageHostError
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		utils.NotFoundResponse(c, i18n.KeyProductNotFound)
	case errors.Is(err, services.ErrInvalidProductID):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyProductInvalidID), nil)
	case errors.As(err, &hostErr):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyProductImageHost, hostErr.URL), nil)
	default:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Product request failed")
		utils.InternalErrorResponse(c, i18n.T(lang, fallbackKey))
	}
}
