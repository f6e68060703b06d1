package earnings

import "strings"

type Courier string

const (
	CourierSPX   Courier = "SPX"
	CourierFlash Courier = "FlashExpress"
)

// ParseCourier accepts the canonical names plus the short forms used by the
// list filters and import files ("spx", "flash", "Flash Express").
func ParseCourier(raw string) (Courier, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	switch normalized {
	case "spx":
		return CourierSPX, nil
	case "flash", "flashexpress":
		return CourierFlash, nil
	}
	return "", &ValidationError{Field: "courier", Reason: "must be SPX or FlashExpress"}
}

func (c Courier) Valid() bool {
	return c == CourierSPX || c == CourierFlash
}

// Slug is the short form used in URLs and list filters.
func (c Courier) Slug() string {
	switch c {
	case CourierSPX:
		return "spx"
	case CourierFlash:
		return "flash"
	}
	return ""
}

func (c Courier) DisplayName() string {
	switch c {
	case CourierSPX:
		return "SPX"
	case CourierFlash:
		return "Flash Express"
	}
	return string(c)
}
