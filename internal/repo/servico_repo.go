// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides read-only access to financial
// instrument records (servicos).
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/plugfin/go-webhook-resend/internal/domain"
)

// FindActiveServicos fetches the instruments matching the given ids, scoped
// to the tenant and product and restricted to active rows. Ids that belong
// to another tenant or product are simply absent from the result; the
// caller decides what a missing id means.
func FindActiveServicos(ctx context.Context, db *gorm.DB, cedenteID uint, product string, ids []string) ([]domain.Servico, error) {
	var out []domain.Servico
	err := db.WithContext(ctx).
		Where("cedente_id = ? AND product = ? AND status = ? AND id IN ?",
			cedenteID, product, domain.StatusAtivo, ids).
		Order("id ASC").
		Find(&out).Error
	return out, err
}
