package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/plugfin/go-webhook-resend/internal/domain"
)

func TestFindSoftwareHouse_And_FindCedente(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := Seed(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	sh, err := FindSoftwareHouse(ctx, db, "12345678000196", "sh_token_123")
	if err != nil {
		t.Fatalf("find sh: %v", err)
	}

	ced, err := FindCedente(ctx, db, sh.ID, "98765432000198", "cedente_token_456")
	if err != nil {
		t.Fatalf("find cedente: %v", err)
	}
	if ced.SoftwareHouseID != sh.ID {
		t.Fatalf("cedente not linked to sh: %+v", ced)
	}

	// Wrong token.
	if _, err := FindSoftwareHouse(ctx, db, "12345678000196", "bad"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for bad token, got %v", err)
	}
	// Cedente of a different software house is invisible.
	if _, err := FindCedente(ctx, db, sh.ID+1, "98765432000198", "cedente_token_456"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong sh scope, got %v", err)
	}
}

func TestFindCedente_InactiveIsInvisible(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	sh := &domain.SoftwareHouse{CNPJ: "11111111000111", Token: "tok", Status: domain.StatusAtivo}
	if err := db.Create(sh).Error; err != nil {
		t.Fatalf("seed sh: %v", err)
	}
	ced := &domain.Cedente{CNPJ: "22222222000122", Token: "ctok", SoftwareHouseID: sh.ID, Status: "inativo"}
	if err := db.Create(ced).Error; err != nil {
		t.Fatalf("seed cedente: %v", err)
	}

	if _, err := FindCedente(ctx, db, sh.ID, "22222222000122", "ctok"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("inactive cedente must be invisible, got %v", err)
	}
}

func TestFindActiveConta_OldestWins(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	sh := &domain.SoftwareHouse{CNPJ: "33333333000133", Token: "tok", Status: domain.StatusAtivo}
	if err := db.Create(sh).Error; err != nil {
		t.Fatalf("seed sh: %v", err)
	}
	ced := &domain.Cedente{CNPJ: "44444444000144", Token: "ctok", SoftwareHouseID: sh.ID, Status: domain.StatusAtivo}
	if err := db.Create(ced).Error; err != nil {
		t.Fatalf("seed cedente: %v", err)
	}
	first := &domain.Conta{CedenteID: ced.ID, Produto: domain.ProductBoleto, BancoCodigo: "001", Status: domain.StatusAtivo}
	second := &domain.Conta{CedenteID: ced.ID, Produto: domain.ProductBoleto, BancoCodigo: "237", Status: domain.StatusAtivo}
	if err := db.Create(first).Error; err != nil {
		t.Fatalf("seed conta: %v", err)
	}
	if err := db.Create(second).Error; err != nil {
		t.Fatalf("seed conta: %v", err)
	}

	conta, err := FindActiveConta(ctx, db, ced.ID, domain.ProductBoleto)
	if err != nil {
		t.Fatalf("find conta: %v", err)
	}
	if conta.ID != first.ID {
		t.Fatalf("expected oldest conta %d, got %d", first.ID, conta.ID)
	}

	if _, err := FindActiveConta(ctx, db, ced.ID, domain.ProductPix); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for product without conta, got %v", err)
	}
}

func TestSeed_IsIdempotent(t *testing.T) {
	db := newTestDB(t)

	if err := Seed(db); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("second seed should be a no-op, got %v", err)
	}

	var n int64
	if err := db.Model(&domain.SoftwareHouse{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly one software house, got %d", n)
	}

	var servicos int64
	if err := db.Model(&domain.Servico{}).Count(&servicos).Error; err != nil {
		t.Fatalf("count servicos: %v", err)
	}
	if servicos != 10 {
		t.Fatalf("expected 10 seeded servicos, got %d", servicos)
	}
}

func TestFindActiveServicos_ScopesAndFilters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := Seed(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	sh, err := FindSoftwareHouse(ctx, db, "12345678000196", "sh_token_123")
	if err != nil {
		t.Fatalf("find sh: %v", err)
	}
	ced, err := FindCedente(ctx, db, sh.ID, "98765432000198", "cedente_token_456")
	if err != nil {
		t.Fatalf("find cedente: %v", err)
	}

	got, err := FindActiveServicos(ctx, db, ced.ID, domain.ProductBoleto, []string{"BOL001", "BOL003", "MISSING"})
	if err != nil {
		t.Fatalf("find servicos: %v", err)
	}
	if len(got) != 2 || got[0].ID != "BOL001" || got[1].ID != "BOL003" {
		t.Fatalf("unexpected servicos %+v", got)
	}

	// Wrong product yields nothing.
	none, err := FindActiveServicos(ctx, db, ced.ID, domain.ProductPix, []string{"BOL001"})
	if err != nil || len(none) != 0 {
		t.Fatalf("expected no cross-product matches, got %v (%v)", none, err)
	}
}
