// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// WebhookReprocessado audit model and protocol code generation.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plugfin/go-webhook-resend/internal/domain"
)

// protocolPrefix identifies webhook resend protocols.
const protocolPrefix = "WH"

// NewProtocol mints a protocol code: the prefix plus the first 20 uppercase
// hex characters of a random UUID. Collisions are possible in principle but
// the unique index on the column turns them into an insert error rather
// than silent reuse.
func NewProtocol() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return protocolPrefix + strings.ToUpper(raw[:20])
}

// CreateReprocessado writes one immutable audit row for a dispatched webhook
// and returns the minted protocol code. The payload snapshot and the id list
// are stored as JSON text.
func CreateReprocessado(ctx context.Context, db *gorm.DB, cedenteID uint, product, kind, typ string, ids []string, payload []byte) (*domain.WebhookReprocessado, error) {
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	rec := &domain.WebhookReprocessado{
		ID:          uuid.NewString(),
		Data:        string(payload),
		Product:     product,
		CedenteID:   cedenteID,
		Kind:        kind,
		Type:        typ,
		ServicoID:   string(idsJSON),
		Protocolo:   NewProtocol(),
		DataCriacao: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// ProtocolFilters narrows a protocol listing. Start and End are required by
// the handler; the remaining fields are optional.
type ProtocolFilters struct {
	Start   time.Time
	End     time.Time
	Product string
	Kind    string
	Type    string
	IDs     []string
}

// ListReprocessados returns the tenant's audit rows inside the date window,
// newest first. The servico_id column stores a JSON-encoded id list, so the
// optional id filter matches rows containing any of the requested ids.
func ListReprocessados(ctx context.Context, db *gorm.DB, cedenteID uint, f ProtocolFilters) ([]domain.WebhookReprocessado, error) {
	q := db.WithContext(ctx).
		Where("cedente_id = ?", cedenteID).
		Where("data_criacao BETWEEN ? AND ?", f.Start, f.End)

	if f.Product != "" {
		q = q.Where("product = ?", f.Product)
	}
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if len(f.IDs) > 0 {
		// servico_id is JSON text; LIKE on the quoted id keeps the column
		// opaque while still filtering server-side.
		like := q.Session(&gorm.Session{NewDB: true}).
			Where(`servico_id LIKE ? ESCAPE '\'`, likePattern(f.IDs[0]))
		for _, id := range f.IDs[1:] {
			like = like.Or(`servico_id LIKE ? ESCAPE '\'`, likePattern(id))
		}
		q = q.Where(like)
	}

	var out []domain.WebhookReprocessado
	err := q.Order("data_criacao DESC").Find(&out).Error
	return out, err
}

// likePattern builds the LIKE pattern for one quoted id, escaping the LIKE
// metacharacters so ids containing % or _ match literally.
func likePattern(id string) string {
	id = strings.ReplaceAll(id, `\`, `\\`)
	id = strings.ReplaceAll(id, `%`, `\%`)
	id = strings.ReplaceAll(id, `_`, `\_`)
	return `%"` + id + `"%`
}

// GetReprocessado fetches a single audit row by uuid, scoped to the tenant.
func GetReprocessado(ctx context.Context, db *gorm.DB, id string, cedenteID uint) (*domain.WebhookReprocessado, error) {
	var rec domain.WebhookReprocessado
	err := db.WithContext(ctx).
		Where("id = ? AND cedente_id = ?", id, cedenteID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
