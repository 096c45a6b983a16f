package csvexport

import (
	"encoding/csv"
	"io"

	"rcmbooks/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row for reconciliation exports.
var columns = []string{
	"Transaction ID",
	"Supplier GSTIN",
	"Invoice Number",
	"Match Status",
	"Claimed Amount",
	"Reported Amount",
	"Difference",
	"Violation",
	"Detail",
}

// Writer wraps csv.Writer for exporting reconciliation results as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteResult writes every claim match of a reconciliation run, matched
// first, then mismatched, then unmatched.
func (w *Writer) WriteResult(result *domain.ReconciliationResult) error {
	for _, group := range [][]domain.ClaimMatch{result.Matched, result.Mismatched, result.Unmatched} {
		for i := range group {
			if err := w.csv.Write(matchToRow(&group[i])); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}

func matchToRow(m *domain.ClaimMatch) []string {
	violation := "no"
	if m.Violation {
		violation = "yes"
	}
	return []string{
		m.TransactionID.String(),
		m.SupplierGSTIN,
		m.InvoiceNumber,
		string(m.Status),
		m.ClaimedAmount.StringFixed(2),
		m.ReportedAmt.StringFixed(2),
		m.Difference.StringFixed(2),
		violation,
		m.Detail,
	}
}
