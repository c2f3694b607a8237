// Package services – ProtocolService
//
// This file implements the protocol read side: listing audit records inside
// a bounded date window and fetching one record by uuid. Both paths sit
// behind a read-through TTL cache keyed per tenant. List responses are
// cached unconditionally for 24h; individual lookups are cached for 1h and
// only once their delivery status is terminal ("sent") — a pending status
// must never be served stale after the real delivery completed.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/plugfin/go-webhook-resend/internal/domain"
	"github.com/plugfin/go-webhook-resend/internal/repo"
)

// StatusSent is the terminal delivery status of a protocol. Audit rows are
// only written after a successful dispatch, so persisted protocols are
// "sent" unless a status override says otherwise.
const StatusSent = "sent"

// MaxQueryWindowDays bounds the protocol listing window (inclusive).
const MaxQueryWindowDays = 31

// Cache TTLs for the two read paths.
const (
	DefaultListCacheTTL     = 24 * time.Hour
	DefaultProtocolCacheTTL = time.Hour
)

// ProtocolItem is the row shape returned by the list endpoint, matching the
// legacy response contract.
type ProtocolItem struct {
	ID          string          `json:"id"`
	Protocolo   string          `json:"protocolo"`
	Kind        string          `json:"kind"`
	Type        string          `json:"type"`
	DataCriacao time.Time       `json:"data_criacao"`
	ServicoID   json.RawMessage `json:"servico_id"`
	Data        json.RawMessage `json:"data"`
}

// ProtocolDetail extends ProtocolItem with the delivery status for the
// single-record endpoint.
type ProtocolDetail struct {
	ProtocolItem
	Status string `json:"status"`
}

// ProtocolService serves protocol queries through the TTL cache.
type ProtocolService struct {
	DB *gorm.DB

	// ListTTL and GetTTL fall back to the package defaults when zero.
	ListTTL time.Duration
	GetTTL  time.Duration

	// StatusFn computes the delivery status of an audit row. The default
	// reports StatusSent, which holds because rows are persisted only
	// after a successful dispatch. A non-"sent" status disables caching
	// for that record.
	StatusFn func(*domain.WebhookReprocessado) string
}

// ValidateWindow checks the inclusive date window of a listing request.
func ValidateWindow(start, end time.Time) error {
	if end.Before(start) {
		return ErrDateRange
	}
	if end.Sub(start) > MaxQueryWindowDays*24*time.Hour {
		return ErrDateRange
	}
	return nil
}

// List returns the tenant's protocols inside the filter window, newest
// first. The second return value reports whether the response was served
// from cache.
func (s *ProtocolService) List(ctx context.Context, cedenteID uint, f repo.ProtocolFilters) ([]ProtocolItem, bool, error) {
	tr := otel.Tracer("services/ProtocolService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(attribute.Int("cedente.id", int(cedenteID))),
	)
	defer span.End()

	if err := ValidateWindow(f.Start, f.End); err != nil {
		return nil, false, err
	}

	key := listCacheKey(cedenteID, f)
	if body, err := repo.CacheGet(ctx, s.DB, key, time.Now().UTC()); err == nil {
		var items []ProtocolItem
		if jerr := json.Unmarshal([]byte(body), &items); jerr == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return items, true, nil
		}
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, false, err
	}

	recs, err := repo.ListReprocessados(ctx, s.DB, cedenteID, f)
	if err != nil {
		return nil, false, err
	}
	if len(recs) == 0 {
		return nil, false, ErrProtocolNotFound
	}

	items := make([]ProtocolItem, len(recs))
	for i := range recs {
		items[i] = toProtocolItem(&recs[i])
	}

	ttl := s.ListTTL
	if ttl <= 0 {
		ttl = DefaultListCacheTTL
	}
	if body, jerr := json.Marshal(items); jerr == nil {
		_ = repo.CachePut(ctx, s.DB, key, string(body), ttl)
	}
	return items, false, nil
}

// Get returns one protocol by uuid. Results are cached only when the
// delivery status is terminal; anything else is always served fresh.
func (s *ProtocolService) Get(ctx context.Context, cedenteID uint, id string) (*ProtocolDetail, bool, error) {
	tr := otel.Tracer("services/ProtocolService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(
			attribute.Int("cedente.id", int(cedenteID)),
			attribute.String("protocol.id", id),
		),
	)
	defer span.End()

	key := fmt.Sprintf("protocolo:%d:%s", cedenteID, id)
	if body, err := repo.CacheGet(ctx, s.DB, key, time.Now().UTC()); err == nil {
		var detail ProtocolDetail
		if jerr := json.Unmarshal([]byte(body), &detail); jerr == nil && detail.Status == StatusSent {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &detail, true, nil
		}
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, false, err
	}

	rec, err := repo.GetReprocessado(ctx, s.DB, id, cedenteID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, false, ErrProtocolNotFound
		}
		return nil, false, err
	}

	detail := &ProtocolDetail{
		ProtocolItem: toProtocolItem(rec),
		Status:       s.status(rec),
	}

	if detail.Status == StatusSent {
		ttl := s.GetTTL
		if ttl <= 0 {
			ttl = DefaultProtocolCacheTTL
		}
		if body, jerr := json.Marshal(detail); jerr == nil {
			_ = repo.CachePut(ctx, s.DB, key, string(body), ttl)
		}
	}
	return detail, false, nil
}

func (s *ProtocolService) status(rec *domain.WebhookReprocessado) string {
	if s.StatusFn != nil {
		return s.StatusFn(rec)
	}
	return StatusSent
}

// listCacheKey builds a deterministic key from the tenant and the full
// filter set. Ids are sorted so permutations share a key.
func listCacheKey(cedenteID uint, f repo.ProtocolFilters) string {
	ids := append([]string(nil), f.IDs...)
	sort.Strings(ids)
	return fmt.Sprintf("protocolos:%d:%s:%s:%s:%s:%s:%s",
		cedenteID,
		f.Start.UTC().Format(time.RFC3339),
		f.End.UTC().Format(time.RFC3339),
		f.Product, f.Kind, f.Type,
		strings.Join(ids, ","),
	)
}

func toProtocolItem(rec *domain.WebhookReprocessado) ProtocolItem {
	item := ProtocolItem{
		ID:          rec.ID,
		Protocolo:   rec.Protocolo,
		Kind:        rec.Kind,
		Type:        rec.Type,
		DataCriacao: rec.DataCriacao,
	}
	if json.Valid([]byte(rec.ServicoID)) {
		item.ServicoID = json.RawMessage(rec.ServicoID)
	} else {
		b, _ := json.Marshal(rec.ServicoID)
		item.ServicoID = b
	}
	if json.Valid([]byte(rec.Data)) {
		item.Data = json.RawMessage(rec.Data)
	} else {
		b, _ := json.Marshal(rec.Data)
		item.Data = b
	}
	return item
}
