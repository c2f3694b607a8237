// Protocol HTTP handlers.
//
// This file exposes the read side of the API:
//   - GET /protocolos        (list audit records inside a bounded date window)
//   - GET /protocolos/:uuid  (fetch one audit record, with delivery status)
//
// Both endpoints are served through the query cache; the X-Cache response
// header reports HIT or MISS so operators can see cache behavior without
// touching the payload.
package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/plugfin/go-webhook-resend/internal/http/middleware"
	"github.com/plugfin/go-webhook-resend/internal/repo"
	"github.com/plugfin/go-webhook-resend/internal/services"
)

// cacheHeader reports whether a read was served from the query cache.
const cacheHeader = "X-Cache"

// ListarProtocolos godoc
// @ID          listarProtocolos
// @Summary     List resend protocols
// @Description Returns the tenant's audit records inside an inclusive date window of at most 31 days, newest first.
// @Tags        Protocolos
// @Produce     json
//
// @Param       cnpj-sh        header  string  true   "Software house CNPJ"
// @Param       token-sh       header  string  true   "Software house token"
// @Param       cnpj-cedente   header  string  true   "Cedente CNPJ"
// @Param       token-cedente  header  string  true   "Cedente token"
// @Param       start_date     query   string  true   "Window start (YYYY-MM-DD or RFC3339)"  example(2025-01-01)
// @Param       end_date       query   string  true   "Window end (YYYY-MM-DD or RFC3339)"    example(2025-01-31)
// @Param       product        query   string  false  "Filter by product"                      Enums(boleto, pagamento, pix)
// @Param       id             query   []string false "Filter by instrument id (repeatable)"
// @Param       kind           query   string  false  "Filter by kind"                         Enums(webhook)
// @Param       type           query   string  false  "Filter by notification type"            Enums(disponivel, cancelado, pago)
//
// @Success     200  {array}   services.ProtocolItem
// @Header      200  {string}  X-Cache  "HIT when served from the query cache"
// @Failure     400  {object}  handlers.ErrorResponse  "Missing or invalid dates, window too wide"
// @Failure     401  {object}  handlers.ErrorResponse  "Unknown tenant credentials"
// @Failure     404  {object}  handlers.ErrorResponse  "No protocol inside the window"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /protocolos [get]
func (h *Handlers) ListarProtocolos(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		fail(c, http.StatusUnauthorized, ErrorResponse{Error: "Cedente não autorizado"})
		return
	}

	startRaw := strings.TrimSpace(c.Query("start_date"))
	endRaw := strings.TrimSpace(c.Query("end_date"))
	if startRaw == "" || endRaw == "" {
		fail(c, http.StatusBadRequest, ErrorResponse{Error: "Parâmetros start_date e end_date são obrigatórios."})
		return
	}

	start, errS := parseQueryDate(startRaw, false)
	end, errE := parseQueryDate(endRaw, true)
	if errS != nil || errE != nil {
		fail(c, http.StatusBadRequest, ErrorResponse{Error: "Datas inválidas"})
		return
	}

	filters := repo.ProtocolFilters{
		Start:   start,
		End:     end,
		Product: strings.TrimSpace(c.Query("product")),
		Kind:    strings.TrimSpace(c.Query("kind")),
		Type:    strings.TrimSpace(c.Query("type")),
		IDs:     queryIDs(c),
	}

	items, hit, err := h.protocolSvc.List(c.Request.Context(), p.CedenteID, filters)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDateRange):
			fail(c, http.StatusBadRequest, ErrorResponse{Error: "O intervalo de datas deve ser entre 0 e 31 dias."})
		case errors.Is(err, services.ErrProtocolNotFound):
			fail(c, http.StatusNotFound, ErrorResponse{Error: "Nenhum protocolo encontrado para o período informado."})
		default:
			fail(c, http.StatusInternalServerError, ErrorResponse{Error: "Erro ao listar protocolos"})
		}
		return
	}

	c.Header(cacheHeader, cacheState(hit))
	ok(c, http.StatusOK, items)
}

// BuscarProtocolo godoc
// @ID          buscarProtocolo
// @Summary     Fetch one resend protocol
// @Description Returns a single audit record by its uuid, including the delivery status.
// @Tags        Protocolos
// @Produce     json
//
// @Param       cnpj-sh        header  string  true  "Software house CNPJ"
// @Param       token-sh       header  string  true  "Software house token"
// @Param       cnpj-cedente   header  string  true  "Cedente CNPJ"
// @Param       token-cedente  header  string  true  "Cedente token"
// @Param       uuid           path    string  true  "Audit record uuid"
//
// @Success     200  {object}  services.ProtocolDetail
// @Header      200  {string}  X-Cache  "HIT when served from the query cache"
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed uuid"
// @Failure     401  {object}  handlers.ErrorResponse  "Unknown tenant credentials"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown protocol"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /protocolos/{uuid} [get]
func (h *Handlers) BuscarProtocolo(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		fail(c, http.StatusUnauthorized, ErrorResponse{Error: "Cedente não autorizado"})
		return
	}

	id := strings.TrimSpace(c.Param("uuid"))
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrorResponse{Error: "Parâmetro uuid é obrigatório."})
		return
	}

	detail, hit, err := h.protocolSvc.Get(c.Request.Context(), p.CedenteID, id)
	if err != nil {
		if errors.Is(err, services.ErrProtocolNotFound) {
			fail(c, http.StatusNotFound, ErrorResponse{Error: "Protocolo não encontrado."})
			return
		}
		fail(c, http.StatusInternalServerError, ErrorResponse{Error: "Erro ao buscar protocolo"})
		return
	}

	c.Header(cacheHeader, cacheState(hit))
	ok(c, http.StatusOK, detail)
}

// parseQueryDate accepts plain dates and full RFC3339 timestamps. A plain
// end date is widened to the last instant of that day so the window stays
// inclusive.
func parseQueryDate(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// queryIDs reads the repeatable id query param, also accepting one
// comma-separated value as the legacy clients send it.
func queryIDs(c *gin.Context) []string {
	raw := c.QueryArray("id")
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func cacheState(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
