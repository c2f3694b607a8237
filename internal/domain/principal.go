// Package domain defines the core persistence models for the application.
package domain

// Principal identifies the authenticated tenant pair for one request:
// the software house that signed the call and the cedente it acts for.
// It is resolved by the auth middleware and immutable afterwards.
type Principal struct {
	SoftwareHouseID uint
	CedenteID       uint
	CedenteCNPJ     string
	Token           string
}
