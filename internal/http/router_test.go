package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/plugfin/go-webhook-resend/internal/config"
	"github.com/plugfin/go-webhook-resend/internal/domain"
	"github.com/plugfin/go-webhook-resend/internal/repo"
)

var protocoloRE = regexp.MustCompile(`^WH[0-9A-F]{20}$`)

// newStack wires the full router against a seeded in-memory database whose
// delivery configs point at a local webhook receiver.
func newStack(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if err := repo.Seed(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	receiver := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(receiver.Close)

	// Point every seeded delivery config at the local receiver.
	var ced domain.Cedente
	if err := db.Where("cnpj = ?", "98765432000198").First(&ced).Error; err != nil {
		t.Fatalf("load cedente: %v", err)
	}
	ced.Configuracao.URL = receiver.URL
	if err := db.Save(&ced).Error; err != nil {
		t.Fatalf("save cedente: %v", err)
	}
	var contas []domain.Conta
	if err := db.Where("cedente_id = ?", ced.ID).Find(&contas).Error; err != nil {
		t.Fatalf("load contas: %v", err)
	}
	for i := range contas {
		if contas[i].Configuracao == nil {
			continue
		}
		contas[i].Configuracao.URL = receiver.URL
		if err := db.Save(&contas[i]).Error; err != nil {
			t.Fatalf("save conta: %v", err)
		}
	}

	cfg := config.Config{
		APIBasePath:      "/api/v1",
		WebhookTimeout:   2 * time.Second,
		RateRPS:          1000,
		RateBurst:        1000,
		DedupTTL:         time.Hour,
		ListCacheTTL:     24 * time.Hour,
		ProtocolCacheTTL: time.Hour,
		OTEL:             config.OTELConfig{ServiceName: "go-webhook-resend"},
	}

	r := gin.New()
	RegisterRoutes(r, db, cfg)
	return r, db
}

func authedRequest(method, path, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("cnpj-sh", "12345678000196")
	req.Header.Set("token-sh", "sh_token_123")
	req.Header.Set("cnpj-cedente", "98765432000198")
	req.Header.Set("token-cedente", "cedente_token_456")
	return req
}

func do(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return m
}

func TestAPI_EndToEnd(t *testing.T) {
	r, _ := newStack(t)

	var protocolo string

	t.Run("resend accepted", func(t *testing.T) {
		w := do(r, authedRequest(http.MethodPost, "/api/v1/reenviar",
			`{"product":"boleto","id":["BOL001"],"kind":"webhook","type":"disponivel"}`))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
		}
		body := jsonBody(t, w)
		if body["message"] != "Notificação reprocessada com sucesso" {
			t.Fatalf("message = %v", body["message"])
		}
		protocolo, _ = body["protocolo"].(string)
		if !protocoloRE.MatchString(protocolo) {
			t.Fatalf("protocolo = %q", protocolo)
		}
	})

	t.Run("identical request inside the window is a duplicate", func(t *testing.T) {
		w := do(r, authedRequest(http.MethodPost, "/api/v1/reenviar",
			`{"product":"boleto","id":["BOL001"],"kind":"webhook","type":"disponivel"}`))
		if w.Code != http.StatusTooManyRequests {
			t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
		}
		body := jsonBody(t, w)
		if body["error"] != "Requisicao duplicada para os mesmos dados nas ultimas 1H" {
			t.Fatalf("error = %v", body["error"])
		}
		if body["protocolo"] != protocolo {
			t.Fatalf("duplicate must echo %q, got %v", protocolo, body["protocolo"])
		}
	})

	t.Run("wrong situation is rejected with the offenders", func(t *testing.T) {
		w := do(r, authedRequest(http.MethodPost, "/api/v1/reenviar",
			`{"product":"boleto","id":["BOL003"],"kind":"webhook","type":"disponivel"}`))
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
		}
		body := jsonBody(t, w)
		invalid, _ := body["invalidIds"].([]any)
		if len(invalid) != 1 || invalid[0] != "BOL003" {
			t.Fatalf("invalidIds = %v", body["invalidIds"])
		}
		if body["product"] != "boleto" || body["type"] != "disponivel" {
			t.Fatalf("body = %v", body)
		}
	})

	t.Run("window wider than 31 days is rejected", func(t *testing.T) {
		w := do(r, authedRequest(http.MethodGet,
			"/api/v1/protocolos?start_date=2025-01-01&end_date=2025-02-16", ""))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
		}
		if jsonBody(t, w)["error"] != "O intervalo de datas deve ser entre 0 e 31 dias." {
			t.Fatalf("body = %s", w.Body.String())
		}
	})

	t.Run("listing misses then hits the cache", func(t *testing.T) {
		today := time.Now().UTC().Format("2006-01-02")
		path := "/api/v1/protocolos?start_date=" + today + "&end_date=" + today

		w := do(r, authedRequest(http.MethodGet, path, ""))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
		}
		if w.Header().Get("X-Cache") != "MISS" {
			t.Fatalf("first call X-Cache = %q", w.Header().Get("X-Cache"))
		}
		var items []map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil || len(items) != 1 {
			t.Fatalf("unexpected listing %s (%v)", w.Body.String(), err)
		}
		if items[0]["protocolo"] != protocolo {
			t.Fatalf("listing protocolo = %v", items[0]["protocolo"])
		}

		w = do(r, authedRequest(http.MethodGet, path, ""))
		if w.Code != http.StatusOK || w.Header().Get("X-Cache") != "HIT" {
			t.Fatalf("second call status=%d X-Cache=%q", w.Code, w.Header().Get("X-Cache"))
		}
	})

	t.Run("fetch one protocol with status", func(t *testing.T) {
		today := time.Now().UTC().Format("2006-01-02")
		w := do(r, authedRequest(http.MethodGet,
			"/api/v1/protocolos?start_date="+today+"&end_date="+today, ""))
		var items []map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil || len(items) == 0 {
			t.Fatalf("listing failed: %s", w.Body.String())
		}
		id, _ := items[0]["id"].(string)

		w = do(r, authedRequest(http.MethodGet, "/api/v1/protocolos/"+id, ""))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
		}
		body := jsonBody(t, w)
		if body["status"] != "sent" {
			t.Fatalf("status = %v", body["status"])
		}
		if body["protocolo"] != protocolo {
			t.Fatalf("protocolo = %v", body["protocolo"])
		}
	})

	t.Run("unknown uuid is 404", func(t *testing.T) {
		w := do(r, authedRequest(http.MethodGet,
			"/api/v1/protocolos/9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d", ""))
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
		}
		if jsonBody(t, w)["error"] != "Protocolo não encontrado." {
			t.Fatalf("body = %s", w.Body.String())
		}
	})

	t.Run("missing credentials are rejected before the handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reenviar",
			strings.NewReader(`{"product":"boleto","id":["BOL001"],"kind":"webhook","type":"disponivel"}`))
		w := do(r, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
		}
		if jsonBody(t, w)["error"] != "CNPJ e Token são obrigatórios" {
			t.Fatalf("body = %s", w.Body.String())
		}
	})

	t.Run("health and fallbacks", func(t *testing.T) {
		w := do(r, httptest.NewRequest(http.MethodGet, "/health", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("health status = %d", w.Code)
		}
		w = do(r, httptest.NewRequest(http.MethodGet, "/nope", nil))
		if w.Code != http.StatusNotFound {
			t.Fatalf("no-route status = %d", w.Code)
		}
		w = do(r, httptest.NewRequest(http.MethodDelete, "/health", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Fatalf("no-method status = %d", w.Code)
		}
	})
}
