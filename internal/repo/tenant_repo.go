// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides lookups for tenant records: software
// houses, cedentes, and their product-specific contas.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/plugfin/go-webhook-resend/internal/domain"
)

// FindSoftwareHouse returns the active software house matching the given
// credentials, or ErrNotFound.
func FindSoftwareHouse(ctx context.Context, db *gorm.DB, cnpj, token string) (*domain.SoftwareHouse, error) {
	var sh domain.SoftwareHouse
	err := db.WithContext(ctx).
		Where("cnpj = ? AND token = ? AND status = ?", cnpj, token, domain.StatusAtivo).
		First(&sh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

// FindCedente returns the active cedente matching the given credentials,
// scoped to the software house that authenticated the call, or ErrNotFound.
func FindCedente(ctx context.Context, db *gorm.DB, softwareHouseID uint, cnpj, token string) (*domain.Cedente, error) {
	var ced domain.Cedente
	err := db.WithContext(ctx).
		Where("software_house_id = ? AND cnpj = ? AND token = ? AND status = ?",
			softwareHouseID, cnpj, token, domain.StatusAtivo).
		First(&ced).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ced, nil
}

// GetCedente fetches a cedente by primary key, or ErrNotFound.
func GetCedente(ctx context.Context, db *gorm.DB, id uint) (*domain.Cedente, error) {
	var ced domain.Cedente
	err := db.WithContext(ctx).Where("id = ?", id).First(&ced).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ced, nil
}

// FindActiveConta returns the active conta of the cedente for the given
// product, or ErrNotFound when the cedente has none. When several exist the
// oldest one wins, keeping resolution deterministic.
func FindActiveConta(ctx context.Context, db *gorm.DB, cedenteID uint, produto string) (*domain.Conta, error) {
	var conta domain.Conta
	err := db.WithContext(ctx).
		Where("cedente_id = ? AND produto = ? AND status = ?", cedenteID, produto, domain.StatusAtivo).
		Order("id ASC").
		First(&conta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conta, nil
}
