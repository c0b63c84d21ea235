package booking

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// Invoicer renders booking invoices. The QR code carries a signed payload
// so a printed invoice can be checked against the booking later.
type Invoicer struct {
	secret []byte
}

func NewInvoicer(secret string) *Invoicer {
	return &Invoicer{secret: []byte(secret)}
}

func (inv *Invoicer) sign(data string) string {
	h := hmac.New(sha256.New, inv.secret)
	h.Write([]byte(data))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// Payload returns bookingID|amount|paymentStatus|signature.
func (inv *Invoicer) Payload(v *View) string {
	data := fmt.Sprintf("%s|%.2f|%s", v.ID, v.TotalAmount, v.PaymentStatus)
	return data + "|" + inv.sign(data)
}

// Verify reports whether payload was produced by this invoicer.
func (inv *Invoicer) Verify(payload string) bool {
	i := strings.LastIndex(payload, "|")
	if i < 0 {
		return false
	}
	want := inv.sign(payload[:i])
	return hmac.Equal([]byte(want), []byte(payload[i+1:]))
}

func (inv *Invoicer) Render(v *View) ([]byte, error) {
	qrPNG, err := qrcode.Encode(inv.Payload(v), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("invoice qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+v.ID, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "Bhraman Travel Invoice")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 12)
	rows := [][2]string{
		{"Booking", v.ID},
		{"Package", v.PackageName},
		{"Customer", v.CustomerName},
		{"Email", v.CustomerEmail},
		{"Phone", v.CustomerPhone},
		{"Start date", v.StartDate.Format("02 Jan 2006")},
		{"Travellers", fmt.Sprintf("%d", v.NumberOfPeople)},
		{"Status", string(v.Status)},
		{"Payment", string(v.PaymentStatus)},
	}
	if v.PaymentID != "" {
		rows = append(rows, [2]string{"Payment ID", v.PaymentID})
	}
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(40, 8, row[0])
		pdf.SetFont("Arial", "", 12)
		pdf.Cell(0, 8, row[1])
		pdf.Ln(8)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Total")
	pdf.Cell(0, 10, fmt.Sprintf("INR %.2f", v.TotalAmount))

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 30, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
