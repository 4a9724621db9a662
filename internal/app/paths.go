package app

const (
	Name = "qrgen"

	// Web
	DefaultListen = "127.0.0.1:5000"
	StaticPrefix  = "/static/"
	QRURLPrefix   = "/static/qr_codes/"

	// Artifacts
	DefaultQRDir = "static/qr_codes"
	QRFileSuffix = "_qr_code.png"

	// Sessions
	SessionName = "qrgen"
)
