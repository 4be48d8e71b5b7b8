// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUnauthorized       = "auth.unauthorized"
	KeyAuthLoginFailed        = "auth.login_failed"
	KeyAuthLocked             = "auth.locked"
	KeyAdminAccessDenied      = "admin.access_denied"
	KeyRateLimited            = "rate_limited"

	// Products
	KeyProductNotFound   = "product.not_found"
	KeyProductInvalidID  = "product.invalid_id"
	KeyProductFetchFail  = "product.fetch_failed"
	KeyProductSaveFail   = "product.save_failed"
	KeyProductDeleteFail = "product.delete_failed"
	KeyProductImageHost  = "product.image_host"
	KeyReconcileFailed   = "product.reconcile_failed"

	// Images
	KeyImageMissingFile     = "image.missing_file"
	KeyImageStorageDisabled = "image.storage_disabled"
	KeyImageTooLarge        = "image.too_large"
	KeyImageInvalidType     = "image.invalid_type"
	KeyImageUploadFailed    = "image.upload_failed"

	// Orders
	KeyOrderInvalidCursor = "order.invalid_cursor"
	KeyOrderInvalidStatus = "order.invalid_status"
	KeyOrderFetchFailed   = "order.fetch_failed"
	KeyOrderStatsFailed   = "order.stats_failed"

	// Validation
	KeyValidationInvalid = "validation.invalid"
)
