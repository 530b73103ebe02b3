package qrcode

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

type Encoder struct {
	level qrcode.RecoveryLevel
}

func NewEncoder() *Encoder {
	return &Encoder{level: qrcode.Medium}
}

// PNG renders content as a size×size PNG.
func (e *Encoder) PNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("empty qr content")
	}
	png, err := qrcode.Encode(content, e.level, size)
	if err != nil {
		return nil, fmt.Errorf("qrcode.Encode: %w", err)
	}
	return png, nil
}
