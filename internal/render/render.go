// Package render produces certificate PDFs. Rendering is decoupled from
// issuance: a failed render can be retried without touching the
// certificate record.
package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// Data is everything a certificate document shows.
type Data struct {
	OrgName        string
	Recipient      string
	Subject        string
	Serial         string
	IssuedAt       time.Time
	VerifyURL      string
	Signatory      string
	SignatoryTitle string
}

// Certificate renders a landscape A4 certificate with a QR code that
// encodes the verification URL.
func Certificate(d Data) ([]byte, error) {
	qr, err := qrcode.Encode(d.VerifyURL, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Certificate "+d.Serial, false)
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	// Border
	pdf.SetLineWidth(1.2)
	pdf.SetDrawColor(30, 60, 120)
	pdf.Rect(8, 8, pageW-16, pageH-16, "D")

	// Header
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(30, 60, 120)
	pdf.SetY(22)
	pdf.CellFormat(0, 10, d.OrgName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 30)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetY(42)
	pdf.CellFormat(0, 14, "Certificate of Appreciation", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 13)
	pdf.SetY(64)
	pdf.CellFormat(0, 8, "proudly presented to", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetY(76)
	pdf.CellFormat(0, 12, d.Recipient, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 13)
	pdf.SetY(94)
	pdf.CellFormat(0, 8, d.Subject, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetY(106)
	pdf.CellFormat(0, 8, "Issued on "+d.IssuedAt.Format("2 January 2006"), "", 1, "C", false, 0, "")

	// Signature block, bottom left
	pdf.SetY(pageH - 55)
	pdf.SetX(30)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(80, 7, d.Signatory, "T", 1, "C", false, 0, "")
	pdf.SetX(30)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(80, 6, d.SignatoryTitle, "", 1, "C", false, 0, "")

	// QR + serial, bottom right
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("verify-qr", opts, bytes.NewReader(qr))
	qrSize := 32.0
	pdf.ImageOptions("verify-qr", pageW-qrSize-20, pageH-qrSize-28, qrSize, qrSize, false, opts, 0, "")
	pdf.SetY(pageH - 26)
	pdf.SetX(pageW - 92)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(72, 5, "Serial: "+d.Serial, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
