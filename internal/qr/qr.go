// Package qr renders check-in QR codes.
package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultSize = 256

// CheckInContent is the string embedded in an event's QR code. Scanning
// clients POST the trailing token back to /api/checkin.
func CheckInContent(baseURL, token string) string {
	return fmt.Sprintf("%s/checkin/%s", baseURL, token)
}

// EncodePNG renders content as a PNG at size pixels (square). A size of 0
// uses the default.
func EncodePNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = defaultSize
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}
