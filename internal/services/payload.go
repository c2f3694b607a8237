// Package services – webhook payload construction.
//
// Each product has its own fixed wire shape, dictated by the legacy systems
// that receive these notifications. The shapes are not variations of one
// schema: boleto switches between a singular `titulo` object and a plural
// `titulos` array, pagamento carries per-record account hashes, and pix
// wraps ids in a tagged transaction structure. Every builder reproduces its
// legacy format exactly; none of the field names here may change.
package services

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"strings"
	"time"

	"github.com/plugfin/go-webhook-resend/internal/domain"
)

// Legacy value maps, one per product.
var (
	boletoTipoWH = map[string]string{
		domain.TypeDisponivel: "notifica_gerou",
		domain.TypeCancelado:  "notifica_cancelou",
		domain.TypePago:       "notifica_liquidou",
	}
	boletoSituacao = map[string]string{
		domain.TypeDisponivel: "REGISTRADO",
		domain.TypeCancelado:  "BAIXADO",
		domain.TypePago:       "LIQUIDADO",
	}
	pagamentoStatus = map[string]string{
		domain.TypeDisponivel: "SCHEDULED",
		domain.TypeCancelado:  "CANCELLED",
		domain.TypePago:       "PAID",
	}
	pixEvent = map[string]string{
		domain.TypeDisponivel: "PIX_CREATED",
		domain.TypeCancelado:  "PIX_REJECTED",
		domain.TypePago:       "PIX_PAID",
	}
)

// Envelope is the transport wrapper posted to the tenant's callback URL.
type Envelope struct {
	Notifications []Notification `json:"notifications"`
}

// Notification is one delivery inside the envelope.
type Notification struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Body    any               `json:"body"`
	Kind    string            `json:"kind"`
}

// boleto wire shape

type boletoTitulo struct {
	Situacao         string         `json:"situacao"`
	IDIntegracao     string         `json:"idintegracao"`
	TituloNossoNum   string         `json:"TitulohossoNumero"`
	TituloMovimentos map[string]any `json:"Titulohovimentos"`
}

type boletoBodySingle struct {
	TipoWH        string       `json:"tipoWH"`
	DatahoraEnvio string       `json:"datahoraEnvio"`
	Titulo        boletoTitulo `json:"titulo"`
	CpfCnpj       string       `json:"CpfCnpjCedente"`
}

type boletoBodyMulti struct {
	TipoWH        string         `json:"tipoWH"`
	DatahoraEnvio string         `json:"datahoraEnvio"`
	Titulos       []boletoTitulo `json:"titulos"`
	CpfCnpj       string         `json:"CpfCnpjCedente"`
	TotalTitulos  int            `json:"totalTitulos"`
}

// pagamento wire shape

type pagamentoItem struct {
	UniqueID    string   `json:"uniqueId"`
	CreatedAt   string   `json:"createdAt"`
	AccountHash string   `json:"accountHash"`
	Occurrences []string `json:"occurrences"`
}

type pagamentoBodySingle struct {
	Status      string   `json:"status"`
	UniqueID    string   `json:"uniqueId"`
	CreatedAt   string   `json:"createdAt"`
	AccountHash string   `json:"accountHash"`
	Occurrences []string `json:"occurrences"`
}

type pagamentoBodyMulti struct {
	Status          string          `json:"status"`
	Pagamentos      []pagamentoItem `json:"pagamentos"`
	TotalPagamentos int             `json:"totalPagamentos"`
}

// pix wire shape

type pixID struct {
	PixID int64 `json:"pixId"`
}

type pixTransacao struct {
	TransactionID string   `json:"transactionId"`
	Tags          []string `json:"tags"`
	ID            pixID    `json:"id"`
}

type pixBodySingle struct {
	Type          string   `json:"type"`
	CompanyID     uint     `json:"companyId"`
	Event         string   `json:"event"`
	TransactionID string   `json:"transactionId"`
	Tags          []string `json:"tags"`
	ID            pixID    `json:"id"`
}

type pixBodyMulti struct {
	Type            string         `json:"type"`
	CompanyID       uint           `json:"companyId"`
	Event           string         `json:"event"`
	Transacoes      []pixTransacao `json:"transacoes"`
	TotalTransacoes int            `json:"totalTransacoes"`
}

// BuildWebhookBody shapes the product-specific webhook body for the matched
// instruments. The caller supplies the records already validated by
// ValidateSituations; an empty slice is a programming error surfaced as a
// validation failure rather than a panic.
func BuildWebhookBody(product, typ string, servicos []domain.Servico, cedente *domain.Cedente, accountHash string, now time.Time) (any, error) {
	if len(servicos) == 0 {
		return nil, &ValidationError{Fields: []string{"id"}}
	}
	switch product {
	case domain.ProductBoleto:
		return buildBoletoBody(typ, servicos, cedente, now), nil
	case domain.ProductPagamento:
		return buildPagamentoBody(typ, servicos, accountHash), nil
	case domain.ProductPix:
		return buildPixBody(typ, servicos, cedente, now), nil
	}
	return nil, &ValidationError{Fields: []string{"product"}}
}

// WrapEnvelope wraps a built body in the transport envelope.
func WrapEnvelope(url string, headers map[string]string, body any, kind string) Envelope {
	return Envelope{
		Notifications: []Notification{{
			URL:     url,
			Method:  "POST",
			Headers: headers,
			Body:    body,
			Kind:    kind,
		}},
	}
}

func buildBoletoBody(typ string, servicos []domain.Servico, cedente *domain.Cedente, now time.Time) any {
	titulos := make([]boletoTitulo, len(servicos))
	for i, s := range servicos {
		titulos[i] = boletoTitulo{
			Situacao:         boletoSituacao[typ],
			IDIntegracao:     s.ID,
			TituloNossoNum:   s.ID,
			TituloMovimentos: map[string]any{},
		}
	}

	// Singular `titulo` for one record, plural `titulos` plus a count for
	// several: a format branch in the legacy contract, not a superset.
	if len(titulos) == 1 {
		return boletoBodySingle{
			TipoWH:        boletoTipoWH[typ],
			DatahoraEnvio: formatDatahora(now),
			Titulo:        titulos[0],
			CpfCnpj:       cedente.CNPJ,
		}
	}
	return boletoBodyMulti{
		TipoWH:        boletoTipoWH[typ],
		DatahoraEnvio: formatDatahora(now),
		Titulos:       titulos,
		CpfCnpj:       cedente.CNPJ,
		TotalTitulos:  len(titulos),
	}
}

func buildPagamentoBody(typ string, servicos []domain.Servico, accountHash string) any {
	if len(servicos) == 1 {
		if accountHash == "" {
			accountHash = NewAccountHash()
		}
		return pagamentoBodySingle{
			Status:      pagamentoStatus[typ],
			UniqueID:    servicos[0].ID,
			CreatedAt:   servicos[0].DataCriacao.UTC().Format(time.RFC3339),
			AccountHash: accountHash,
			Occurrences: []string{},
		}
	}

	items := make([]pagamentoItem, len(servicos))
	for i, s := range servicos {
		items[i] = pagamentoItem{
			UniqueID:    s.ID,
			CreatedAt:   s.DataCriacao.UTC().Format(time.RFC3339),
			AccountHash: NewAccountHash(), // fresh hash per record
			Occurrences: []string{},
		}
	}
	return pagamentoBodyMulti{
		Status:          pagamentoStatus[typ],
		Pagamentos:      items,
		TotalPagamentos: len(items),
	}
}

func buildPixBody(typ string, servicos []domain.Servico, cedente *domain.Cedente, now time.Time) any {
	year := now.Format("2006")
	trans := make([]pixTransacao, len(servicos))
	for i, s := range servicos {
		trans[i] = pixTransacao{
			TransactionID: s.ID,
			Tags:          []string{"#" + s.ID, "pix", year},
			ID:            pixID{PixID: pixNumericID(s.ID)},
		}
	}

	if len(trans) == 1 {
		return pixBodySingle{
			Type:          "SEND_WEBHOOK",
			CompanyID:     cedente.ID,
			Event:         pixEvent[typ],
			TransactionID: trans[0].TransactionID,
			Tags:          trans[0].Tags,
			ID:            trans[0].ID,
		}
	}
	return pixBodyMulti{
		Type:            "SEND_WEBHOOK",
		CompanyID:       cedente.ID,
		Event:           pixEvent[typ],
		Transacoes:      trans,
		TotalTransacoes: len(trans),
	}
}

// NewAccountHash generates a 16-character uppercase hex account hash.
func NewAccountHash() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms
		return strings.ToUpper(hex.EncodeToString([]byte(time.Now().Format("20060102150405"))))[:16]
	}
	return strings.ToUpper(hex.EncodeToString(b))
}

// pixNumericID derives an 8-digit numeric id from the instrument id's
// digits, falling back to a random 8-digit number for ids without digits.
func pixNumericID(id string) int64 {
	var digits strings.Builder
	for _, r := range id {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
			if digits.Len() == 8 {
				break
			}
		}
	}
	if digits.Len() > 0 {
		var n int64
		for _, r := range digits.String() {
			n = n*10 + int64(r-'0')
		}
		if n > 0 {
			return n
		}
	}
	max := big.NewInt(90000000)
	r, err := rand.Int(rand.Reader, max)
	if err != nil {
		return 10000000
	}
	return 10000000 + r.Int64()
}

// formatDatahora renders the Brazilian timestamp used by the boleto shape.
func formatDatahora(t time.Time) string {
	return t.Format("02/01/2006 15:04:05")
}

// MarshalEnvelope serializes the envelope to the exact bytes dispatched and
// persisted in the audit record.
func MarshalEnvelope(env Envelope) ([]byte, error) {
	return json.Marshal(env)
}
