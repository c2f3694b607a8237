package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/plugfin/go-webhook-resend/internal/domain"
	"github.com/plugfin/go-webhook-resend/internal/repo"
	"github.com/plugfin/go-webhook-resend/internal/services"
)

type fakeResendSvc struct {
	res *services.ResendResult
	err error

	gotPrincipal domain.Principal
	gotReq       *services.ResendRequest
}

func (f *fakeResendSvc) Resend(_ context.Context, p domain.Principal, req *services.ResendRequest) (*services.ResendResult, error) {
	f.gotPrincipal = p
	f.gotReq = req
	return f.res, f.err
}

type fakeProtocolSvc struct {
	items  []services.ProtocolItem
	detail *services.ProtocolDetail
	hit    bool
	err    error

	gotFilters repo.ProtocolFilters
	gotID      string
}

func (f *fakeProtocolSvc) List(_ context.Context, _ uint, filters repo.ProtocolFilters) ([]services.ProtocolItem, bool, error) {
	f.gotFilters = filters
	return f.items, f.hit, f.err
}

func (f *fakeProtocolSvc) Get(_ context.Context, _ uint, id string) (*services.ProtocolDetail, bool, error) {
	f.gotID = id
	return f.detail, f.hit, f.err
}

// newHandlerRouter mounts the handlers behind a stub auth layer that injects
// the given principal.
func newHandlerRouter(resend *fakeResendSvc, protocol *fakeProtocolSvc, p *domain.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if p != nil {
		r.Use(func(c *gin.Context) {
			c.Set("principal", p)
			c.Next()
		})
	}
	h := New(resend, protocol)
	r.POST("/reenviar", h.Reenviar)
	r.GET("/protocolos", h.ListarProtocolos)
	r.GET("/protocolos/:uuid", h.BuscarProtocolo)
	return r
}

func testPrincipal() *domain.Principal {
	return &domain.Principal{SoftwareHouseID: 1, CedenteID: 1, CedenteCNPJ: "98765432000198"}
}

func postResend(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/reenviar", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return m
}

const validResendBody = `{"product":"boleto","id":["BOL001"],"kind":"webhook","type":"disponivel"}`

func TestReenviar_Success(t *testing.T) {
	svc := &fakeResendSvc{res: &services.ResendResult{Protocolo: "WH4FB4A4287A60B12E29F1"}}
	r := newHandlerRouter(svc, &fakeProtocolSvc{}, testPrincipal())

	w := postResend(r, validResendBody)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["message"] != "Notificação reprocessada com sucesso" {
		t.Fatalf("message = %v", body["message"])
	}
	if body["protocolo"] != "WH4FB4A4287A60B12E29F1" {
		t.Fatalf("protocolo = %v", body["protocolo"])
	}
	if svc.gotPrincipal.CedenteID != 1 || svc.gotReq.Product != "boleto" {
		t.Fatalf("service saw %+v %+v", svc.gotPrincipal, svc.gotReq)
	}
}

func TestReenviar_NoPrincipalIs401(t *testing.T) {
	r := newHandlerRouter(&fakeResendSvc{}, &fakeProtocolSvc{}, nil)

	w := postResend(r, validResendBody)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestReenviar_MalformedJSONIs400(t *testing.T) {
	r := newHandlerRouter(&fakeResendSvc{}, &fakeProtocolSvc{}, testPrincipal())

	w := postResend(r, `{"product":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if decode(t, w)["error"] != "Parametros obrigatorios ausentes" {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestReenviar_ValidationError(t *testing.T) {
	svc := &fakeResendSvc{err: &services.ValidationError{Fields: []string{"type"}}}
	r := newHandlerRouter(svc, &fakeProtocolSvc{}, testPrincipal())

	w := postResend(r, `{"product":"boleto","id":["BOL001"],"kind":"webhook","type":"estornado"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if decode(t, w)["error"] != "Parametros obrigatorios ausentes" {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestReenviar_OversizedBatchMessage(t *testing.T) {
	svc := &fakeResendSvc{err: &services.ValidationError{Fields: []string{"id"}}}
	r := newHandlerRouter(svc, &fakeProtocolSvc{}, testPrincipal())

	ids := make([]string, services.MaxResendIDs+1)
	for i := range ids {
		ids[i] = "X"
	}
	raw, _ := json.Marshal(map[string]any{
		"product": "boleto", "id": ids, "kind": "webhook", "type": "pago",
	})
	w := postResend(r, string(raw))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if decode(t, w)["error"] != "Array de IDs nao pode exceder 30 elementos" {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestReenviar_SituationErrorIs422(t *testing.T) {
	svc := &fakeResendSvc{err: &services.SituationError{
		InvalidIDs: []string{"BOL003"}, Product: "boleto", Type: "disponivel",
	}}
	r := newHandlerRouter(svc, &fakeProtocolSvc{}, testPrincipal())

	w := postResend(r, validResendBody)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", w.Code)
	}
	body := decode(t, w)
	if body["error"] != "Não foi possível gerar a notificação. A situação do registro diverge do tipo de notificação solicitado." {
		t.Fatalf("error = %v", body["error"])
	}
	invalid := body["invalidIds"].([]any)
	if len(invalid) != 1 || invalid[0] != "BOL003" {
		t.Fatalf("invalidIds = %v", body["invalidIds"])
	}
	if body["product"] != "boleto" || body["type"] != "disponivel" {
		t.Fatalf("body = %v", body)
	}
}

func TestReenviar_DuplicateIs429WithProtocol(t *testing.T) {
	svc := &fakeResendSvc{err: &services.DuplicateError{Protocolo: "WHAAAAAAAAAAAAAAAAAAAA"}}
	r := newHandlerRouter(svc, &fakeProtocolSvc{}, testPrincipal())

	w := postResend(r, validResendBody)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", w.Code)
	}
	body := decode(t, w)
	if body["error"] != "Requisicao duplicada para os mesmos dados nas ultimas 1H" {
		t.Fatalf("error = %v", body["error"])
	}
	if body["protocolo"] != "WHAAAAAAAAAAAAAAAAAAAA" {
		t.Fatalf("protocolo = %v", body["protocolo"])
	}
}

func TestReenviar_ConfigErrorsAre400(t *testing.T) {
	for _, err := range []error{services.ErrConfigNotFound, services.ErrTypeDisabled} {
		r := newHandlerRouter(&fakeResendSvc{err: err}, &fakeProtocolSvc{}, testPrincipal())
		w := postResend(r, validResendBody)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%v: status = %d", err, w.Code)
		}
		if decode(t, w)["error"] != "Configuração de notificação não encontrada ou inválida" {
			t.Fatalf("%v: body = %s", err, w.Body.String())
		}
	}
}

func TestReenviar_UnexpectedErrorIsSanitized500(t *testing.T) {
	svc := &fakeResendSvc{err: errors.New("pq: connection reset by peer")}
	r := newHandlerRouter(svc, &fakeProtocolSvc{}, testPrincipal())

	w := postResend(r, validResendBody)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	body := decode(t, w)
	if body["error"] != "Não foi possível gerar a notificação. Tente novamente mais tarde." {
		t.Fatalf("error = %v", body["error"])
	}
	if strings.Contains(w.Body.String(), "connection reset") {
		t.Fatalf("internal detail leaked: %s", w.Body.String())
	}
}
