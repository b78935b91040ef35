package util

import (
	"crypto/rand"
	"fmt"
)

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewID generates a prefixed random identifier, e.g. "EMP-X4T9QZ".
func NewID(prefix string) string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	if prefix == "" {
		return string(buf)
	}
	return fmt.Sprintf("%s-%s", prefix, buf)
}

func NewOrganizationID() string { return NewID("ORG") }
func NewAdminID() string        { return NewID("ADM") }
func NewEmployeeID() string     { return NewID("EMP") }
func NewFacilityID() string     { return NewID("FAC") }
func NewClientID() string       { return NewID("CLT") }
func NewProductID() string      { return NewID("PROD") }
func NewOrderID() string        { return NewID("ORD") }
func NewSaleID() string         { return NewID("SALE") }
func NewVisitID() string        { return NewID("VISIT") }
