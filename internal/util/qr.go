package util

import (
	"fmt"
	"io"

	qrcode "github.com/skip2/go-qrcode"
)

// PrintTerminalQR renders value as a QR code made of block characters.
func PrintTerminalQR(w io.Writer, value string) error {
	qr, err := qrcode.New(value, qrcode.Medium)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, qr.ToSmallString(false))
	return err
}
