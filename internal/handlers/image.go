// internal/handlers/image.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/driprats/storefront-admin/internal/i18n"
	"github.com/driprats/storefront-admin/internal/services"
	"github.com/driprats/storefront-admin/internal/utils"
)

type ImageHandler struct {
	imageService *services.ImageService
}

func NewImageHandler(imageService *services.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// POST /api/products/images (multipart, field "file")
func (h *ImageHandler) Upload(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	header, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyImageMissingFile), nil)
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyImageMissingFile), nil)
		return
	}
	defer file.Close()

	result, err := h.imageService.Upload(c.Request.Context(), file, header.Filename, header.Size)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStorageDisabled):
			utils.ErrorResponse(c, http.StatusServiceUnavailable, i18n.T(lang, i18n.KeyImageStorageDisabled), nil)
		case errors.Is(err, services.ErrImageTooLarge):
			utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, i18n.T(lang, i18n.KeyImageTooLarge), nil)
		case errors.Is(err, services.ErrImageType):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyImageInvalidType), nil)
		default:
			logrus.WithError(err).WithField("filename", header.Filename).Error("Failed to upload image")
			utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyImageUploadFailed))
		}
		return
	}

	utils.CreatedResponse(c, result)
}
