// Package domain defines the persistence models for the webhook resend
// backend: tenant records (software house, cedente, conta), financial
// instrument records (servicos), and the immutable audit trail of
// reprocessed webhooks. These types are mapped with GORM and form the
// core data layer of the application.
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Product identifies the financial instrument family a notification refers to.
const (
	ProductBoleto    = "boleto"
	ProductPagamento = "pagamento"
	ProductPix       = "pix"
)

// Notification event types accepted by the resend endpoint.
const (
	TypeDisponivel = "disponivel"
	TypeCancelado  = "cancelado"
	TypePago       = "pago"
)

// KindWebhook is the only notification kind currently supported. The column
// exists so new kinds (e-mail, SMS) can be added without a schema change.
const KindWebhook = "webhook"

// StatusAtivo marks tenant and instrument rows that are active. Inactive rows
// are invisible to the resend pipeline.
const StatusAtivo = "ativo"

// KnownProduct reports whether p is one of the supported products.
func KnownProduct(p string) bool {
	switch p {
	case ProductBoleto, ProductPagamento, ProductPix:
		return true
	}
	return false
}

// KnownType reports whether t is one of the supported notification types.
func KnownType(t string) bool {
	switch t {
	case TypeDisponivel, TypeCancelado, TypePago:
		return true
	}
	return false
}

// NotificationConfig is the tenant-supplied webhook delivery configuration,
// stored as a JSON column on both Conta and Cedente. The JSON field names
// follow the legacy contract and cannot change.
type NotificationConfig struct {
	Ativado     bool   `json:"ativado"`
	URL         string `json:"url"`
	Header      bool   `json:"header"`
	HeaderCampo string `json:"header_campo,omitempty"`
	HeaderValor string `json:"header_valor,omitempty"`

	// HeadersAdicionais is an ordered list of single-entry maps, mirroring
	// the legacy JSON layout.
	HeadersAdicionais []map[string]string `json:"headers_adicionais,omitempty"`

	// Per-type switches. A type that is switched off blocks resends of that
	// type even when the config as a whole is enabled.
	Disponivel bool `json:"disponivel"`
	Cancelado  bool `json:"cancelado"`
	Pago       bool `json:"pago"`
}

// TypeEnabled reports whether notifications of the given type are switched on.
func (c *NotificationConfig) TypeEnabled(t string) bool {
	switch t {
	case TypeDisponivel:
		return c.Disponivel
	case TypeCancelado:
		return c.Cancelado
	case TypePago:
		return c.Pago
	}
	return false
}

// Value implements driver.Valuer so GORM stores the config as a JSON blob.
func (c *NotificationConfig) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	b, err := json.Marshal(c)
	return string(b), err
}

// Scan implements sql.Scanner for the JSON column.
func (c *NotificationConfig) Scan(src any) error {
	if src == nil {
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	}
	return errors.New("notification config: unsupported column type")
}

// SoftwareHouse is the integrator account that owns one or more cedentes.
// Credentials (cnpj + token) are validated by the auth middleware.
type SoftwareHouse struct {
	ID          uint      `json:"id"           gorm:"primaryKey;autoIncrement"`
	CNPJ        string    `json:"cnpj"         gorm:"column:cnpj;type:varchar(14);not null;uniqueIndex"`
	Token       string    `json:"-"            gorm:"type:varchar(255);not null"`
	Status      string    `json:"status"       gorm:"type:varchar(16);not null;default:'ativo'"`
	DataCriacao time.Time `json:"data_criacao" gorm:"column:data_criacao;autoCreateTime"`
}

// TableName implements the GORM tabler interface.
func (SoftwareHouse) TableName() string { return "software_houses" }

// Cedente is the payee tenant on whose behalf notifications are resent. It
// may carry a fallback NotificationConfig used when none of its contas has
// an enabled one.
type Cedente struct {
	ID              uint                `json:"id"                gorm:"primaryKey;autoIncrement"`
	CNPJ            string              `json:"cnpj"              gorm:"column:cnpj;type:varchar(14);not null;uniqueIndex"`
	Token           string              `json:"-"                 gorm:"type:varchar(255);not null"`
	SoftwareHouseID uint                `json:"software_house_id" gorm:"not null;index"`
	Status          string              `json:"status"            gorm:"type:varchar(16);not null;default:'ativo'"`
	Configuracao    *NotificationConfig `json:"configuracao_notificacao,omitempty" gorm:"column:configuracao_notificacao;type:text"`
	DataCriacao     time.Time           `json:"data_criacao"      gorm:"column:data_criacao;autoCreateTime"`

	SoftwareHouse SoftwareHouse `json:"-" gorm:"foreignKey:SoftwareHouseID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName implements the GORM tabler interface.
func (Cedente) TableName() string { return "cedentes" }

// Conta is a product-specific bank account of a cedente. Its notification
// configuration, when present and enabled, overrides the cedente's.
type Conta struct {
	ID           uint                `json:"id"           gorm:"primaryKey;autoIncrement"`
	CedenteID    uint                `json:"cedente_id"   gorm:"not null;index:idx_conta_cedente_produto,priority:1"`
	Produto      string              `json:"produto"      gorm:"type:varchar(16);not null;index:idx_conta_cedente_produto,priority:2"`
	BancoCodigo  string              `json:"banco_codigo" gorm:"type:varchar(8);not null"`
	Status       string              `json:"status"       gorm:"type:varchar(16);not null;default:'ativo'"`
	Configuracao *NotificationConfig `json:"configuracao_notificacao,omitempty" gorm:"column:configuracao_notificacao;type:text"`
	DataCriacao  time.Time           `json:"data_criacao" gorm:"column:data_criacao;autoCreateTime"`

	Cedente Cedente `json:"-" gorm:"foreignKey:CedenteID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName implements the GORM tabler interface.
func (Conta) TableName() string { return "contas" }

// Servico is a read-only reference to a financial instrument (a bank slip,
// a scheduled payment or a pix transfer). The resend pipeline only ever
// reads these rows; lifecycle transitions happen elsewhere.
//
// IDs are client-assigned strings (e.g. "BOL001"), unique per product.
type Servico struct {
	ID          string    `json:"id"           gorm:"type:varchar(64);primaryKey"`
	Product     string    `json:"product"      gorm:"type:varchar(16);not null;index:idx_servico_cedente,priority:2"`
	Situacao    string    `json:"situacao"     gorm:"type:varchar(32);not null"`
	Status      string    `json:"status"       gorm:"type:varchar(16);not null;default:'ativo'"`
	ContaID     uint      `json:"conta_id"     gorm:"not null"`
	CedenteID   uint      `json:"cedente_id"   gorm:"not null;index:idx_servico_cedente,priority:1"`
	DataCriacao time.Time `json:"data_criacao" gorm:"column:data_criacao;autoCreateTime"`
}

// TableName implements the GORM tabler interface.
func (Servico) TableName() string { return "servicos" }

// WebhookReprocessado is the immutable audit record of one accepted resend.
// One row is written per successful dispatch and is never updated or deleted
// by this service.
//
// Data holds the exact JSON payload that was sent; ServicoID holds the
// JSON-encoded list of instrument ids covered by the dispatch.
type WebhookReprocessado struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	Data        string    `json:"-"            gorm:"column:data;type:text;not null"`
	Product     string    `json:"product"      gorm:"type:varchar(16);not null;index"`
	CedenteID   uint      `json:"cedente_id"   gorm:"not null;index"`
	Kind        string    `json:"kind"         gorm:"type:varchar(16);not null"`
	Type        string    `json:"type"         gorm:"type:varchar(16);not null"`
	ServicoID   string    `json:"servico_id"   gorm:"column:servico_id;type:text;not null"`
	Protocolo   string    `json:"protocolo"    gorm:"type:varchar(32);not null;uniqueIndex"`
	DataCriacao time.Time `json:"data_criacao" gorm:"column:data_criacao;index"`
}

// TableName implements the GORM tabler interface.
func (WebhookReprocessado) TableName() string { return "webhook_reprocessado" }
