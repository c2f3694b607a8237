// Resend HTTP handler.
//
// This file exposes the write side of the API:
//   - POST /reenviar  (resend webhook notifications for a batch of instruments)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate service errors into the legacy HTTP contract.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plugfin/go-webhook-resend/internal/domain"
	"github.com/plugfin/go-webhook-resend/internal/http/middleware"
	"github.com/plugfin/go-webhook-resend/internal/repo"
	"github.com/plugfin/go-webhook-resend/internal/services"
)

//
// Service contracts (context-aware)
//

// ResendService defines the resend pipeline operation consumed by the
// HTTP handler.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ResendService interface {
	// Resend runs validation, dedup, dispatch and persistence for one request.
	Resend(ctx context.Context, principal domain.Principal, req *services.ResendRequest) (*services.ResendResult, error)
}

// ProtocolService defines the protocol read operations consumed by the
// HTTP handlers.
type ProtocolService interface {
	// List returns the tenant's protocols inside the filter window.
	List(ctx context.Context, cedenteID uint, f repo.ProtocolFilters) ([]services.ProtocolItem, bool, error)
	// Get returns one protocol by uuid.
	Get(ctx context.Context, cedenteID uint, id string) (*services.ProtocolDetail, bool, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints of the resend API. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	resendSvc   ResendService
	protocolSvc ProtocolService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(resendSvc ResendService, protocolSvc ProtocolService) *Handlers {
	return &Handlers{resendSvc: resendSvc, protocolSvc: protocolSvc}
}

//
// DTOs
//

// ResendResponse is the success payload of POST /reenviar.
type ResendResponse struct {
	Message   string `json:"message"   example:"Notificação reprocessada com sucesso"`
	Protocolo string `json:"protocolo" example:"WH4FB4A4287A60B12E29F1"`
}

//
// Handlers
//

// Reenviar godoc
// @ID          reenviar
// @Summary     Resend webhook notifications
// @Description Rebuilds and redelivers the webhook notification for up to 30 instruments of one product, returning the audit protocol.
// @Tags        Reenvio
// @Accept      json
// @Produce     json
//
// @Param       cnpj-sh        header  string  true  "Software house CNPJ"   example(12345678000196)
// @Param       token-sh       header  string  true  "Software house token"
// @Param       cnpj-cedente   header  string  true  "Cedente CNPJ"          example(98765432000198)
// @Param       token-cedente  header  string  true  "Cedente token"
// @Param       body           body    services.ResendRequest  true  "Resend payload"
//
// @Success     200  {object}  handlers.ResendResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Validation or configuration failure"
// @Failure     401  {object}  handlers.ErrorResponse  "Unknown tenant credentials"
// @Failure     422  {object}  handlers.ErrorResponse  "Instrument situation mismatch"
// @Failure     429  {object}  handlers.ErrorResponse  "Duplicate request inside the dedup window"
// @Failure     500  {object}  handlers.ErrorResponse  "Dispatch or persistence failure"
// @Router      /reenviar [post]
func (h *Handlers) Reenviar(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		fail(c, http.StatusUnauthorized, ErrorResponse{Error: "Cedente não autorizado"})
		return
	}

	var req services.ResendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrorResponse{Error: "Parametros obrigatorios ausentes"})
		return
	}

	result, err := h.resendSvc.Resend(c.Request.Context(), *p, &req)
	if err != nil {
		h.failResend(c, &req, err)
		return
	}

	middleware.LoggerFrom(c).Info().
		Str("protocolo", result.Protocolo).
		Str("product", req.Product).
		Int("ids", len(req.IDs)).
		Msg("webhook resent")

	ok(c, http.StatusOK, ResendResponse{
		Message:   "Notificação reprocessada com sucesso",
		Protocolo: result.Protocolo,
	})
}

// failResend maps pipeline errors onto the legacy status/envelope table.
func (h *Handlers) failResend(c *gin.Context, req *services.ResendRequest, err error) {
	var verr *services.ValidationError
	var serr *services.SituationError
	var derr *services.DuplicateError

	switch {
	case errors.As(err, &verr):
		msg := "Parametros obrigatorios ausentes"
		if len(req.IDs) > services.MaxResendIDs {
			msg = "Array de IDs nao pode exceder 30 elementos"
		}
		fail(c, http.StatusBadRequest, ErrorResponse{Error: msg})

	case errors.As(err, &serr):
		fail(c, http.StatusUnprocessableEntity, ErrorResponse{
			Error:      "Não foi possível gerar a notificação. A situação do registro diverge do tipo de notificação solicitado.",
			InvalidIDs: serr.InvalidIDs,
			Product:    serr.Product,
			Type:       serr.Type,
		})

	case errors.As(err, &derr):
		fail(c, http.StatusTooManyRequests, ErrorResponse{
			Error:     "Requisicao duplicada para os mesmos dados nas ultimas 1H",
			Protocolo: derr.Protocolo,
		})

	case errors.Is(err, services.ErrConfigNotFound), errors.Is(err, services.ErrTypeDisabled):
		fail(c, http.StatusBadRequest, ErrorResponse{
			Error: "Configuração de notificação não encontrada ou inválida",
		})

	default:
		// Dispatch failures and storage errors collapse into one sanitized
		// message; details stay in the server log only.
		middleware.LoggerFrom(c).Error().Err(err).Msg("resend pipeline failed")
		fail(c, http.StatusInternalServerError, ErrorResponse{
			Error: "Não foi possível gerar a notificação. Tente novamente mais tarde.",
		})
	}
}
