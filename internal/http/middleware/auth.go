// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements TenantAuth, the credential gate for every tenant
// route. Requests carry two credential pairs in headers:
//
//	cnpj-sh / token-sh           — the software house calling the API
//	cnpj-cedente / token-cedente — the cedente the call acts for
//
// Both pairs must resolve against the database; either miss aborts the
// request before any handler runs. The resolved Principal is stashed in
// the Gin context for handlers, the access logger, and the rate limiter.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/plugfin/go-webhook-resend/internal/domain"
	"github.com/plugfin/go-webhook-resend/internal/repo"
)

// Credential header names, lowercase as the legacy clients send them.
// Header lookup itself is case-insensitive.
const (
	HeaderCNPJSH       = "cnpj-sh"
	HeaderTokenSH      = "token-sh"
	HeaderCNPJCedente  = "cnpj-cedente"
	HeaderTokenCedente = "token-cedente"
)

const (
	// ctxKeyPrincipal holds the resolved *domain.Principal.
	ctxKeyPrincipal = "principal"
	// ctxKeyCedenteCNPJ duplicates the cedente CNPJ as a plain string so the
	// logger and rate limiter can read it without importing domain.
	ctxKeyCedenteCNPJ = "cedenteCNPJ"
)

// cnpjLen is the digit count of a bare CNPJ.
const cnpjLen = 14

// TenantAuth authenticates the software-house/cedente pair carried in the
// request headers.
//
// Responses:
//   - 400 when any of the four headers is missing or a CNPJ is malformed
//   - 401 when the software house or the cedente cannot be resolved
//
// On success the Principal is stored in the context; use PrincipalFrom to
// read it back in handlers.
func TenantAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cnpjSH := strings.TrimSpace(c.GetHeader(HeaderCNPJSH))
		tokenSH := strings.TrimSpace(c.GetHeader(HeaderTokenSH))
		cnpjCed := strings.TrimSpace(c.GetHeader(HeaderCNPJCedente))
		tokenCed := strings.TrimSpace(c.GetHeader(HeaderTokenCedente))

		if cnpjSH == "" || tokenSH == "" || cnpjCed == "" || tokenCed == "" {
			abortAuth(c, http.StatusBadRequest, "CNPJ e Token são obrigatórios")
			return
		}
		if !validCNPJ(cnpjSH) || !validCNPJ(cnpjCed) {
			abortAuth(c, http.StatusBadRequest, "CNPJ inválido")
			return
		}

		sh, err := repo.FindSoftwareHouse(c.Request.Context(), db, cnpjSH, tokenSH)
		if err != nil {
			abortAuth(c, http.StatusUnauthorized, "Software House não autorizada")
			return
		}
		ced, err := repo.FindCedente(c.Request.Context(), db, sh.ID, cnpjCed, tokenCed)
		if err != nil {
			abortAuth(c, http.StatusUnauthorized, "Cedente não autorizado")
			return
		}

		p := &domain.Principal{
			SoftwareHouseID: sh.ID,
			CedenteID:       ced.ID,
			CedenteCNPJ:     ced.CNPJ,
			Token:           tokenCed,
		}
		c.Set(ctxKeyPrincipal, p)
		c.Set(ctxKeyCedenteCNPJ, ced.CNPJ)
		c.Next()
	}
}

// PrincipalFrom returns the Principal resolved by TenantAuth, or nil when
// the middleware did not run (e.g. on unauthenticated routes).
func PrincipalFrom(c *gin.Context) *domain.Principal {
	if v, ok := c.Get(ctxKeyPrincipal); ok {
		if p, ok := v.(*domain.Principal); ok {
			return p
		}
	}
	return nil
}

// validCNPJ accepts exactly 14 digits. Check digits are the issuer's
// problem; the gate only rejects obviously malformed values.
func validCNPJ(s string) bool {
	if len(s) != cnpjLen {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func abortAuth(c *gin.Context, status int, msg string) {
	rid, _ := c.Get(requestIDKey)
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": asString(rid),
		"error":      msg,
	})
}
