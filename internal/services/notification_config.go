// Package services – notification configuration resolution.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/plugfin/go-webhook-resend/internal/domain"
	"github.com/plugfin/go-webhook-resend/internal/repo"
)

// ResolveNotificationConfig resolves the effective delivery configuration
// for a cedente and product. Candidates are ordered by specificity: the
// active conta's configuration is consulted first and, when enabled, always
// wins over the cedente's own configuration — even if both are enabled.
// The first enabled candidate is then checked against the per-type switch.
func ResolveNotificationConfig(ctx context.Context, db *gorm.DB, cedente *domain.Cedente, product, typ string) (*domain.NotificationConfig, error) {
	candidates := make([]*domain.NotificationConfig, 0, 2)

	conta, err := repo.FindActiveConta(ctx, db, cedente.ID, product)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if conta != nil {
		candidates = append(candidates, conta.Configuracao)
	}
	candidates = append(candidates, cedente.Configuracao)

	for _, cfg := range candidates {
		if cfg == nil || !cfg.Ativado || cfg.URL == "" {
			continue
		}
		if !cfg.TypeEnabled(typ) {
			return nil, ErrTypeDisabled
		}
		return cfg, nil
	}
	return nil, ErrConfigNotFound
}

// DeliveryHeaders flattens the configuration's header settings into the
// header set sent with the webhook. The configured auth header comes first,
// then the additional single-entry maps in their stored order.
func DeliveryHeaders(cfg *domain.NotificationConfig) map[string]string {
	headers := make(map[string]string)
	if cfg.Header && cfg.HeaderCampo != "" {
		headers[cfg.HeaderCampo] = cfg.HeaderValor
	}
	for _, h := range cfg.HeadersAdicionais {
		for k, v := range h {
			headers[k] = v
		}
	}
	return headers
}
