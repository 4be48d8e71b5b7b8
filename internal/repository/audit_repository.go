// internal/repository/audit_repository.go
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/driprats/storefront-admin/internal/models"
)

// AuditRepository persists request audit rows and projection repairs.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Record(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *AuditRepository) RecordRepairs(ctx context.Context, repairs []models.ProjectionRepair) error {
	if len(repairs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&repairs).Error
}
