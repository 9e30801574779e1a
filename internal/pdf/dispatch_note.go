package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"

	"stockflow-backend/internal/models"
	"stockflow-backend/internal/timeutil"
)

// DispatchNote renders a printable dispatch note for a transfer
// shipment. Returns the PDF bytes ready to stream to the client.
func DispatchNote(slip *models.DispatchSlip, items []models.DispatchItem) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "StockFlow - Dispatch Note", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Shipment info box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Shipment Details", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Dispatch No: %s", slip.DispatchNumber), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Transfer No: %s", slip.TransferNumber), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("From: %s", slip.FromBranch), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("To: %s", slip.ToBranch), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Dispatched: %s", slip.DispatchDate.In(timeutil.Loc).Format("02-Jan-2006 03:04 PM")), "LB", 0, "L", false, 0, "")
	if slip.ExpectedDeliveryDate != nil {
		pdf.CellFormat(95, 7, fmt.Sprintf("Expected: %s", slip.ExpectedDeliveryDate.In(timeutil.Loc).Format("02-Jan-2006")), "RB", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(95, 7, "", "RB", 1, "L", false, 0, "")
	}
	if slip.LoaderName != "" || slip.VehicleInfo != "" {
		pdf.CellFormat(95, 7, fmt.Sprintf("Loader: %s", slip.LoaderName), "LB", 0, "L", false, 0, "")
		pdf.CellFormat(95, 7, fmt.Sprintf("Vehicle: %s", slip.VehicleInfo), "RB", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	// Items table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Dispatched Items", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(35, 7, "Item Code", "1", 0, "C", true, 0, "")
	pdf.CellFormat(95, 7, "Item Name", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Quantity", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Unit", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	total := 0
	for _, it := range items {
		pdf.CellFormat(35, 6, it.ItemCode, "1", 0, "C", false, 0, "")
		pdf.CellFormat(95, 6, it.ItemName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", it.DispatchedQuantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, it.UnitOfMeasure, "1", 1, "C", false, 0, "")
		total += it.DispatchedQuantity
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(130, 7, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, fmt.Sprintf("%d", total), "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 7, "", "1", 1, "C", false, 0, "")
	pdf.Ln(5)

	if slip.Notes != "" {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(190, 7, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(190, 5, slip.Notes, "", "L", false)
		pdf.Ln(3)
	}

	// Signature lines
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 6, "_________________________", "", 0, "C", false, 0, "")
	pdf.CellFormat(95, 6, "_________________________", "", 1, "C", false, 0, "")
	pdf.CellFormat(95, 6, "Dispatched By", "", 0, "C", false, 0, "")
	pdf.CellFormat(95, 6, "Received By", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render dispatch note: %w", err)
	}
	return buf.Bytes(), nil
}
