package entity

// EssenceStatus is the derived purchase status of an essence.
type EssenceStatus string

const (
	// StatusCollecting indicates demand is still being pooled.
	StatusCollecting EssenceStatus = "collecting"
	// StatusConfirmed indicates pooled demand reached the target amount.
	StatusConfirmed EssenceStatus = "confirmed"
	// StatusExhausted indicates pooled demand consumed the entire stock.
	StatusExhausted EssenceStatus = "exhausted"
)

// String returns the string representation of the status.
func (s EssenceStatus) String() string {
	return string(s)
}

// Label returns the Turkish display label used on the storefront.
func (s EssenceStatus) Label() string {
	switch s {
	case StatusConfirmed:
		return "Kesin Alım"
	case StatusExhausted:
		return "Bitti"
	default:
		return "Talep Toplanıyor"
	}
}
