// Package services – situation validation.
//
// Each notification type may only be resent for instruments sitting in the
// matching lifecycle state. The mapping is a fixed table per product; the
// vocabulary differs because each product keeps the wording of its own
// upstream system (boleto registrations, payment scheduling, pix rail).
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/plugfin/go-webhook-resend/internal/domain"
	"github.com/plugfin/go-webhook-resend/internal/repo"
)

// requiredSituation maps (product, type) to the instrument state required
// for the resend to be allowed.
var requiredSituation = map[string]map[string]string{
	domain.ProductBoleto: {
		domain.TypeDisponivel: "REGISTRADO",
		domain.TypeCancelado:  "BAIXADO",
		domain.TypePago:       "LIQUIDADO",
	},
	domain.ProductPagamento: {
		domain.TypeDisponivel: "SCHEDULED",
		domain.TypeCancelado:  "CANCELLED",
		domain.TypePago:       "PAID",
	},
	domain.ProductPix: {
		domain.TypeDisponivel: "ACTIVE",
		domain.TypeCancelado:  "REJECTED",
		domain.TypePago:       "LIQUIDATED",
	},
}

// RequiredSituation returns the state an instrument must be in for the given
// (product, type) pair. ok is false for unknown combinations.
func RequiredSituation(product, typ string) (string, bool) {
	m, ok := requiredSituation[product]
	if !ok {
		return "", false
	}
	s, ok := m[typ]
	return s, ok
}

// ValidateSituations fetches the tenant's active instruments for the given
// ids and checks each against the required situation for the notification
// type. Ids that are missing (not found, wrong tenant or product, inactive)
// and ids in the wrong state are both collected, so the caller can reject
// the entire batch with the complete list of offenders.
//
// On success the matched records are returned for reuse by the payload
// builder, avoiding a second fetch.
func ValidateSituations(ctx context.Context, db *gorm.DB, cedenteID uint, product, typ string, ids []string) ([]domain.Servico, error) {
	want, ok := RequiredSituation(product, typ)
	if !ok {
		return nil, &ValidationError{Fields: []string{"product", "type"}}
	}

	found, err := repo.FindActiveServicos(ctx, db, cedenteID, product, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Servico, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}

	var invalid []string
	matched := make([]domain.Servico, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		s, ok := byID[id]
		if !ok || s.Situacao != want {
			invalid = append(invalid, id)
			continue
		}
		matched = append(matched, s)
	}

	if len(invalid) > 0 {
		return nil, &SituationError{InvalidIDs: invalid, Product: product, Type: typ}
	}
	return matched, nil
}
