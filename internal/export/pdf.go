package export

import (
	"bytes"
	"fmt"
	"io"
	"itinerary-planner-service/internal/domain"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

var columnWidths = []float64{18, 18, 52, 24, 20, 20, 38}

// WritePDF renders a printable day sheet: heading, the export table and a QR
// code of the directions link.
func WritePDF(w io.Writer, title string, day *domain.DayPlan, directionsURL string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(fmt.Sprintf("%s - %s", title, day.Date.Format("Mon 2 Jan 2006"))))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, tr("Hotel: "+day.Hotel))
	pdf.Ln(6)
	if day.DepartHotelAt != nil {
		pdf.Cell(0, 8, "Leave hotel: "+day.DepartHotelAt.Format("15:04"))
		pdf.Ln(6)
	}
	if day.ReturnHotelAt != nil {
		pdf.Cell(0, 8, "Back at hotel: "+day.ReturnHotelAt.Format("15:04"))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 9)
	for i, h := range Header {
		pdf.CellFormat(columnWidths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, r := range Rows(day) {
		for i, v := range r.Record() {
			pdf.CellFormat(columnWidths[i], 6, tr(truncate(v, 28)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if directionsURL != "" {
		png, err := qrcode.Encode(directionsURL, qrcode.Medium, 256)
		if err != nil {
			return fmt.Errorf("write pdf: encode qr: %w", err)
		}

		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 8, "Scan for directions")
		pdf.Ln(8)

		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("directions-qr", opts, bytes.NewReader(png))
		pdf.ImageOptions("directions-qr", pdf.GetX(), pdf.GetY(), 40, 40, false, opts, 0, directionsURL)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
