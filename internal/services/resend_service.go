// Package services – ResendService
//
// This file implements ResendService, the orchestrator of the resend
// ("reenviar") pipeline. One call walks the full stage sequence:
//
//	validate → claim dedup → check situations → resolve config →
//	build payload → dispatch → persist audit → finalize dedup
//
// Every stage failure aborts the whole request; there is no partial
// dispatch and no automatic retry. The dedup claim is taken early so two
// identical concurrent requests cannot both enter the pipeline, and it is
// released again whenever the pipeline fails, so a failed attempt does not
// poison a later legitimate retry. The claim only becomes permanent (and
// gains the protocol value) after the audit record has been persisted.
//
// Observability: the public method is OpenTelemetry-instrumented; the span
// carries tenant and request identifiers.
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/plugfin/go-webhook-resend/internal/domain"
	"github.com/plugfin/go-webhook-resend/internal/repo"
)

// MaxResendIDs caps the batch size of one resend request.
const MaxResendIDs = 30

// DefaultDedupTTL is the window inside which a structurally identical
// request is rejected as a duplicate.
const DefaultDedupTTL = time.Hour

// ResendRequest is the inbound payload of POST /reenviar. The legacy field
// name for the id list is `id`, singular.
type ResendRequest struct {
	Product string   `json:"product"`
	IDs     []string `json:"id"`
	Kind    string   `json:"kind"`
	Type    string   `json:"type"`
}

// ResendResult reports an accepted resend.
type ResendResult struct {
	Protocolo string
	Dispatch  *DispatchResult
}

// ResendService coordinates the end-to-end resend pipeline.
type ResendService struct {
	DB         *gorm.DB
	Dispatcher *Dispatcher

	// DedupTTL defaults to DefaultDedupTTL when zero.
	DedupTTL time.Duration

	// now is a test seam for payload timestamps.
	now func() time.Time
}

// Now returns the service clock, defaulting to time.Now.
func (s *ResendService) Now() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// ValidateResendRequest checks shape and cardinality of a resend request and
// reports every violated field at once. Pure function, no side effects.
func ValidateResendRequest(req *ResendRequest) error {
	var fields []string
	if !domain.KnownProduct(req.Product) {
		fields = append(fields, "product")
	}
	if len(req.IDs) == 0 || len(req.IDs) > MaxResendIDs {
		fields = append(fields, "id")
	} else {
		for _, id := range req.IDs {
			if strings.TrimSpace(id) == "" {
				fields = append(fields, "id")
				break
			}
		}
	}
	if req.Kind != domain.KindWebhook {
		fields = append(fields, "kind")
	}
	if !domain.KnownType(req.Type) {
		fields = append(fields, "type")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Fingerprint derives the stable dedup key of a request: a SHA-256 over the
// tenant id and the normalized request fields, with ids sorted so that
// permutations of the same batch collapse to one fingerprint.
func Fingerprint(cedenteID uint, req *ResendRequest) string {
	ids := append([]string(nil), req.IDs...)
	sort.Strings(ids)

	h := sha256.New()
	fmt.Fprintf(h, "%d|%s|%s|%s|%s", cedenteID, req.Product, strings.Join(ids, ","), req.Kind, req.Type)
	return hex.EncodeToString(h.Sum(nil))
}

// Resend runs the whole pipeline for one request. On success it returns the
// minted protocol; on failure it returns one of the service error types and
// guarantees that nothing was dispatched or persisted.
func (s *ResendService) Resend(ctx context.Context, principal domain.Principal, req *ResendRequest) (*ResendResult, error) {
	tr := otel.Tracer("services/ResendService")
	ctx, span := tr.Start(ctx, "Resend",
		trace.WithAttributes(
			attribute.Int("cedente.id", int(principal.CedenteID)),
			attribute.String("product", req.Product),
			attribute.String("type", req.Type),
			attribute.Int("ids.count", len(req.IDs)),
		),
	)
	defer span.End()

	if err := ValidateResendRequest(req); err != nil {
		return nil, err
	}

	ttl := s.DedupTTL
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	fp := Fingerprint(principal.CedenteID, req)
	entry, err := repo.ClaimFingerprint(ctx, s.DB, fp, principal.CedenteID, ttl)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			dup := &DuplicateError{}
			if entry != nil {
				dup.Protocolo = entry.Protocolo
			}
			return nil, dup
		}
		return nil, err
	}

	// Any exit before the audit row exists must free the claim. Release,
	// persist and finalize run detached from the request context: a client
	// disconnect mid-pipeline must not strand the claim for the full TTL.
	detached := context.WithoutCancel(ctx)
	committed := false
	defer func() {
		if !committed {
			if rerr := repo.ReleaseFingerprint(detached, s.DB, fp); rerr != nil {
				log.Error().Err(rerr).Str("fingerprint", fp).Msg("release dedup claim")
			}
		}
	}()

	servicos, err := ValidateSituations(ctx, s.DB, principal.CedenteID, req.Product, req.Type, req.IDs)
	if err != nil {
		return nil, err
	}

	cedente, err := repo.GetCedente(ctx, s.DB, principal.CedenteID)
	if err != nil {
		return nil, err
	}

	cfg, err := ResolveNotificationConfig(ctx, s.DB, cedente, req.Product, req.Type)
	if err != nil {
		return nil, err
	}

	body, err := BuildWebhookBody(req.Product, req.Type, servicos, cedente, "", s.Now())
	if err != nil {
		return nil, err
	}
	headers := DeliveryHeaders(cfg)
	envelope := WrapEnvelope(cfg.URL, headers, body, req.Kind)
	payload, err := MarshalEnvelope(envelope)
	if err != nil {
		return nil, err
	}

	// No lock or transaction spans the network call.
	result, err := s.Dispatcher.Send(ctx, cfg.URL, payload, headers)
	if err != nil {
		return nil, err
	}

	rec, err := repo.CreateReprocessado(detached, s.DB, cedente.ID, req.Product, req.Kind, req.Type, req.IDs, payload)
	if err != nil {
		// The remote call already succeeded; the missing audit row is the
		// documented trade-off of persisting only after dispatch.
		return nil, err
	}

	if err := repo.FinalizeFingerprint(detached, s.DB, fp, rec.Protocolo); err != nil {
		return nil, err
	}
	committed = true

	span.SetAttributes(attribute.String("protocolo", rec.Protocolo))
	return &ResendResult{Protocolo: rec.Protocolo, Dispatch: result}, nil
}
