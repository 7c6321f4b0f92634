package report

import (
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/takudzwan/purchase-ledger-backend/internal/store"
)

// The document layout is fixed: downstream consumers of the emailed report
// parse these tables, so the structure and inline styles must not change.
const (
	docHeader = "<html><header><h1 style='color: #000000; text-align: center; " +
		"font-family: Arial, sans-serif;'>Transactions Report</h1></header>" +
		"<body style='font-family: Arial, sans-serif;'>"
	docFooter = "</body></html>"

	sectionStyle = "color: #006838;"
	headRowStyle = "background-color: #006838; color: white;"
	dataRowStyle = "background-color: #f9f9f9;"
	cellStyle    = "padding: 12px; border: 1px solid #ddd;"

	dateLayout = "2006-01-02 15:04:05"
)

// RenderHTML renders purchases and refunds into the report document. It is a
// pure function of its inputs: rows appear in input order, one row per
// record, no totals or aggregation. Empty inputs produce valid empty tables.
func RenderHTML(purchases []store.Purchase, refunds []store.Refund) string {
	var b strings.Builder
	// Rough preallocation: ~360 bytes per rendered row.
	b.Grow(len(docHeader) + len(docFooter) + 1024 + 360*(len(purchases)+len(refunds)))

	b.WriteString(docHeader)
	writePurchasesTable(&b, purchases)
	writeRefundsTable(&b, refunds)
	b.WriteString(docFooter)
	return b.String()
}

func writePurchasesTable(b *strings.Builder, purchases []store.Purchase) {
	writeSectionHeading(b, "Purchases")
	b.WriteString("<table style='border-collapse: collapse; width: 100%; margin-bottom: 20px;'>")
	writeHeadRow(b, "ID", "First Name", "Last Name", "Phone", "Product", "Amount", "Created Date")

	for _, p := range purchases {
		writeDataRow(b,
			formatID(p.ID),
			html.EscapeString(p.Customer.FirstName),
			html.EscapeString(p.Customer.LastName),
			html.EscapeString(p.Customer.Phone),
			html.EscapeString(p.Product.Name),
			formatAmount(p.Amount),
			formatDate(p.CreatedAt),
		)
	}

	b.WriteString("</table>")
}

func writeRefundsTable(b *strings.Builder, refunds []store.Refund) {
	writeSectionHeading(b, "Refunds")
	b.WriteString("<table style='border-collapse: collapse; width: 100%;'>")
	writeHeadRow(b, "ID", "First Name", "Last Name", "Phone", "Purchase ID", "Amount", "Created Date")

	for _, r := range refunds {
		writeDataRow(b,
			formatID(r.ID),
			html.EscapeString(r.Customer.FirstName),
			html.EscapeString(r.Customer.LastName),
			html.EscapeString(r.Customer.Phone),
			formatID(r.PurchaseID),
			formatAmount(r.Amount),
			formatDate(r.CreatedAt),
		)
	}

	b.WriteString("</table>")
}

func writeSectionHeading(b *strings.Builder, title string) {
	b.WriteString("<h2 style='" + sectionStyle + "'>")
	b.WriteString(title)
	b.WriteString("</h2>")
}

func writeHeadRow(b *strings.Builder, columns ...string) {
	b.WriteString("<tr style='" + headRowStyle + "'>")
	for _, col := range columns {
		b.WriteString("<th style='" + cellStyle + "'>")
		b.WriteString(col)
		b.WriteString("</th>")
	}
	b.WriteString("</tr>")
}

func writeDataRow(b *strings.Builder, cells ...string) {
	b.WriteString("<tr style='" + dataRowStyle + "'>")
	for _, cell := range cells {
		b.WriteString("<td style='" + cellStyle + "'>")
		b.WriteString(cell)
		b.WriteString("</td>")
	}
	b.WriteString("</tr>")
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// formatAmount uses the shortest decimal representation that round-trips:
// no currency symbol, no fixed padding. 599.5 renders as "599.5", 10 as "10".
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
