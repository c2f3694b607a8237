// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file seeds a development database with the demo
// tenant and a handful of instruments in every lifecycle state.
package repo

import (
	"gorm.io/gorm"

	"github.com/plugfin/go-webhook-resend/internal/domain"
)

// Seed inserts demo data for local development. It is a no-op when a
// software house already exists.
func Seed(db *gorm.DB) error {
	var n int64
	if err := db.Model(&domain.SoftwareHouse{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	sh := &domain.SoftwareHouse{CNPJ: "12345678000196", Token: "sh_token_123", Status: domain.StatusAtivo}
	if err := db.Create(sh).Error; err != nil {
		return err
	}

	ced := &domain.Cedente{
		CNPJ:            "98765432000198",
		Token:           "cedente_token_456",
		SoftwareHouseID: sh.ID,
		Status:          domain.StatusAtivo,
		Configuracao: &domain.NotificationConfig{
			Ativado:     true,
			URL:         "https://webhook.site/3532cf9a-ba2c-4c54-87f8-c45a7569d538",
			Header:      true,
			HeaderCampo: "Authorization",
			HeaderValor: "Bearer cedente_token_456",
			HeadersAdicionais: []map[string]string{
				{"X-Custom-Header": "custom-value"},
				{"X-API-Version": "1.0"},
			},
			Disponivel: true,
			Cancelado:  true,
			Pago:       true,
		},
	}
	if err := db.Create(ced).Error; err != nil {
		return err
	}

	contas := []*domain.Conta{
		{CedenteID: ced.ID, Produto: domain.ProductBoleto, BancoCodigo: "001", Status: domain.StatusAtivo,
			Configuracao: &domain.NotificationConfig{
				Ativado:     true,
				URL:         "https://webhook.site/3532cf9a-ba2c-4c54-87f8-c45a7569d538",
				Header:      true,
				HeaderCampo: "X-Conta-Token",
				HeaderValor: "conta_token_789",
				HeadersAdicionais: []map[string]string{
					{"X-Conta-ID": "1"},
				},
				Disponivel: true,
				Cancelado:  true,
				Pago:       true,
			}},
		{CedenteID: ced.ID, Produto: domain.ProductPagamento, BancoCodigo: "001", Status: domain.StatusAtivo},
		{CedenteID: ced.ID, Produto: domain.ProductPix, BancoCodigo: "001", Status: domain.StatusAtivo},
	}
	for _, c := range contas {
		if err := db.Create(c).Error; err != nil {
			return err
		}
	}

	servicos := []domain.Servico{
		{ID: "BOL001", Product: domain.ProductBoleto, Situacao: "REGISTRADO", Status: domain.StatusAtivo, ContaID: contas[0].ID, CedenteID: ced.ID},
		{ID: "BOL002", Product: domain.ProductBoleto, Situacao: "REGISTRADO", Status: domain.StatusAtivo, ContaID: contas[0].ID, CedenteID: ced.ID},
		{ID: "BOL003", Product: domain.ProductBoleto, Situacao: "BAIXADO", Status: domain.StatusAtivo, ContaID: contas[0].ID, CedenteID: ced.ID},
		{ID: "BOL004", Product: domain.ProductBoleto, Situacao: "LIQUIDADO", Status: domain.StatusAtivo, ContaID: contas[0].ID, CedenteID: ced.ID},
		{ID: "PAG001", Product: domain.ProductPagamento, Situacao: "SCHEDULED", Status: domain.StatusAtivo, ContaID: contas[1].ID, CedenteID: ced.ID},
		{ID: "PAG002", Product: domain.ProductPagamento, Situacao: "CANCELLED", Status: domain.StatusAtivo, ContaID: contas[1].ID, CedenteID: ced.ID},
		{ID: "PAG003", Product: domain.ProductPagamento, Situacao: "PAID", Status: domain.StatusAtivo, ContaID: contas[1].ID, CedenteID: ced.ID},
		{ID: "PIX001", Product: domain.ProductPix, Situacao: "ACTIVE", Status: domain.StatusAtivo, ContaID: contas[2].ID, CedenteID: ced.ID},
		{ID: "PIX002", Product: domain.ProductPix, Situacao: "REJECTED", Status: domain.StatusAtivo, ContaID: contas[2].ID, CedenteID: ced.ID},
		{ID: "PIX003", Product: domain.ProductPix, Situacao: "LIQUIDATED", Status: domain.StatusAtivo, ContaID: contas[2].ID, CedenteID: ced.ID},
	}
	return db.Create(&servicos).Error
}
