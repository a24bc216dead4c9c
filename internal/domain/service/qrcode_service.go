package service

// QRCodeService defines the interface for QR code generation. The catalog
// uses it to produce printable labels linking to an essence's detail page.
type QRCodeService interface {
	// GenerateEssenceQR renders a PNG QR code pointing at the essence with
	// the given id.
	GenerateEssenceQR(essenceID string) ([]byte, error)
}
