// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all endpoints.
// The error envelope follows the legacy wire contract: a Portuguese `error`
// message plus optional context fields (`invalidIds`, `product`, `type`,
// `protocolo`) that only appear on the responses that carry them.
//
// Conventions:
//   - All error responses return an ErrorResponse.
//   - `fail()` centralizes error formatting, ensuring 5xx responses are logged
//     with request context for observability.
//   - `ok()` keeps success responses uniform across handlers.
//
// Example error response:
//
//	HTTP/1.1 422 Unprocessable Entity
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "error": "Os seguintes IDs não estão aptos para reenvio",
//	  "invalidIds": ["BOL003"],
//	  "product": "boleto",
//	  "type": "disponivel"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plugfin/go-webhook-resend/internal/http/middleware"
)

// ErrorResponse is the error envelope returned by all endpoints.
//
// Fields beyond RequestID and Error are populated per-endpoint: situation
// failures carry the rejected ids plus the product/type pair, duplicate
// rejections carry the protocol of the earlier accepted request.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Human-readable message (legacy contract, pt-BR)
	Error string `json:"error" example:"Cedente não autorizado"`
	// Instrument ids rejected by the situation check
	InvalidIDs []string `json:"invalidIds,omitempty" example:"BOL003"`
	// Product of the rejected request
	Product string `json:"product,omitempty" example:"boleto"`
	// Notification type of the rejected request
	Type string `json:"type,omitempty" example:"disponivel"`
	// Protocol of the earlier request that makes this one a duplicate
	Protocolo string `json:"protocolo,omitempty" example:"WH4FB4A4287A60B12E29F1"`
}

// fail aborts the request with a structured error and logs server-side errors.
func fail(c *gin.Context, status int, resp ErrorResponse) {
	if resp.RequestID == "" {
		resp.RequestID = c.Writer.Header().Get("X-Request-ID")
	}

	// Log 5xx (server-side) with request-scoped logger
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("error", resp.Error).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail() for plain-message errors.
//
// External packages (e.g., router setup) should call Fail to return
// consistent error envelopes without directly depending on unexported helpers.
func Fail(c *gin.Context, status int, msg string) {
	fail(c, status, ErrorResponse{Error: msg})
}

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
