package pdfrender

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/zinsou/pharmapay/internal/domain/model"
)

// Renderer produces the printable receipt document. Each receipt is rendered
// once, at generation time; the bytes are stored with the receipt and served
// unchanged on later downloads.
type Renderer struct{}

// New constructs the PDF renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render lays out the receipt document and returns the PDF bytes.
func (r *Renderer) Render(details model.ReceiptDetails) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	// Pin document metadata to the issue date rather than wall-clock time.
	pdf.SetCreationDate(details.IssueDate.UTC())
	pdf.SetModificationDate(details.IssueDate.UTC())
	pdf.SetTitle("Recu "+details.Number, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, details.Pharmacy.Name, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if details.Pharmacy.Address != "" {
		pdf.CellFormat(0, 5, details.Pharmacy.Address, "", 1, "C", false, 0, "")
	}
	if details.Pharmacy.Phone != "" {
		pdf.CellFormat(0, 5, "Tel: "+details.Pharmacy.Phone, "", 1, "C", false, 0, "")
	}
	if details.Pharmacy.TaxID != "" {
		pdf.CellFormat(0, 5, "IFU: "+details.Pharmacy.TaxID, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "RECU / RECEIPT "+details.Number, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, "Date: "+details.IssueDate.UTC().Format("2006-01-02"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Mode de paiement / Payment method: "+string(details.Gateway), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Transaction: "+details.TransactionID, "", 1, "L", false, 0, "")

	if details.Customer != nil {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 5, "Client / Customer", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 5, details.Customer.Name, "", 1, "L", false, 0, "")
		if details.Customer.Phone != "" {
			pdf.CellFormat(0, 5, details.Customer.Phone, "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 6, "Designation / Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 6, "Qte", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "P.U.", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, "Total", "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range details.Lines {
		pdf.CellFormat(90, 6, line.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, formatAmount(line.UnitPrice, details.Currency), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, formatAmount(line.LineTotal, details.Currency), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	pdf.CellFormat(150, 6, "Sous-total / Subtotal (HT)", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, formatAmount(details.Subtotal, details.Currency), "", 1, "R", false, 0, "")
	pdf.CellFormat(150, 6, fmt.Sprintf("TVA / VAT (%.0f%%)", details.TaxRate*100), "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, formatAmount(details.Tax, details.Currency), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(150, 7, "Total TTC", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, formatAmount(details.Total, details.Currency), "", 1, "R", false, 0, "")

	if details.PaidAmount != nil && details.PaidCurrency != nil && details.ExchangeRate != nil {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, fmt.Sprintf("Regle / Paid: %s (taux / rate %.4f)",
			formatAmount(*details.PaidAmount, *details.PaidCurrency), *details.ExchangeRate), "", 1, "R", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.MultiCell(0, 4, "Recu officiel - a conserver pour vos dossiers. TVA incluse conformement a la reglementation en vigueur.", "", "C", false)
	pdf.MultiCell(0, 4, "Official receipt - keep for your records. VAT included in accordance with applicable regulations.", "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func formatAmount(amount float64, currency string) string {
	return fmt.Sprintf("%.2f %s", amount, currency)
}
