// Package pdf implementa la representación imprimible de la factura usando
// Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: INVOICE  │  N° Factura + Fechas + Estado           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FROM: emisor + empresa + GST                               │
//	│  TO: cliente + empresa + GST                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Cant | Tarifa | Importe               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuesto / Descuento / TOTAL           │
//	│           Pagado / Saldo (si hay pagos)                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Datos bancarios + Términos + Notas + agradecimiento        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/tu-usuario/invoice-pro/internal/application/billing"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
)

var _ billing.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 33, Green: 37, Blue: 41}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const dateLayout = "02/01/2006"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	inv *entity.Invoice,
	issuer *entity.User,
	client *entity.Client,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+inv.InvoiceNumber, true).
		WithAuthor(issuer.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(issuer, client))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de líneas
	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(inv.Items) {
		m.AddRows(r)
	}

	// Totales
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range totalsRows(inv) {
		m.AddRows(r)
	}

	// Pie: banco, términos, notas, agradecimiento
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(inv, issuer) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título INVOICE (izq) y número + fechas + estado (der).
func headerRow(inv *entity.Invoice) core.Row {
	return row.New(24).Add(
		col.New(7).Add(
			text.New("INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 18, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(5).Add(
			text.New(inv.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Date: "+inv.InvoiceDate.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Due Date: "+inv.DueDate.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New("Status: "+strings.ToUpper(inv.Status), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 18,
			}),
		),
	)
}

// partiesRow: bloques From (emisor) y To (cliente) lado a lado.
func partiesRow(issuer *entity.User, client *entity.Client) core.Row {
	return row.New(34).Add(
		partyCol("From:",
			issuer.Name,
			issuer.Business.CompanyName,
			issuer.Business.Address,
			"GST: "+nonEmpty(issuer.Business.GSTNo, "N/A"),
		),
		partyCol("To:",
			client.Name,
			client.Company.Name,
			client.Company.Address,
			client.Email,
			"GST: "+nonEmpty(client.Company.GSTNo, "N/A"),
		),
	)
}

func partyCol(title string, lines ...string) core.Col {
	c := col.New(6).Add(text.New(title, props.Text{
		Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1,
	}))
	top := 7.0
	for _, l := range lines {
		if l == "" {
			continue
		}
		c.Add(text.New(l, props.Text{Size: 8, Top: top, Color: colorGray}))
		top += 5
	}
	return c
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Description", 6, align.Left),
		h("Qty", 2, align.Center),
		h("Rate (Rs.)", 2, align.Right),
		h("Amount (Rs.)", 2, align.Right),
	)
}

// tableItemRows: una fila por línea de la factura.
func tableItemRows(items []entity.LineItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(
				it.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				it.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				it.Rate.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				it.Amount.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRows: bloque de totales alineado a la derecha. El descuento solo
// aparece cuando es mayor que cero; Pagado/Saldo solo cuando hay pagos.
func totalsRows(inv *entity.Invoice) []core.Row {
	amountRow := func(label, value string, bold bool) core.Row {
		style := fontstyle.Normal
		size := 9.0
		color := colorGray
		if bold {
			style = fontstyle.Bold
			size = 10
			color = colorPrimary
		}
		return row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(label, props.Text{
				Style: fontstyle.Bold, Size: size, Align: align.Right, Right: 2, Color: color,
			})),
			col.New(3).Add(text.New(value, props.Text{
				Style: style, Size: size, Align: align.Right, Right: 1, Color: color,
			})),
		)
	}

	rows := []core.Row{
		amountRow("Subtotal:", "Rs. "+inv.Subtotal.StringFixed(2), false),
		amountRow("Tax:", "Rs. "+inv.TaxAmount.StringFixed(2), false),
	}
	if inv.DiscountAmount.IsPositive() {
		rows = append(rows, amountRow("Discount:", "Rs. "+inv.DiscountAmount.StringFixed(2), false))
	}
	rows = append(rows, amountRow("Total:", "Rs. "+inv.TotalAmount.StringFixed(2), true))
	if inv.TotalPaid.IsPositive() {
		rows = append(rows,
			amountRow("Paid:", "Rs. "+inv.TotalPaid.StringFixed(2), false),
			amountRow("Balance:", "Rs. "+inv.RemainingAmount.StringFixed(2), true),
		)
	}
	return rows
}

// footerRows: datos bancarios del emisor, términos, notas y agradecimiento.
func footerRows(inv *entity.Invoice, issuer *entity.User) []core.Row {
	var rows []core.Row

	bank := issuer.Business.Bank
	if bank.AccountNumber != "" {
		rows = append(rows,
			row.New(5).Add(col.New(12).Add(
				text.New("Payment Details", props.Text{
					Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
				}),
			)),
			row.New(10).Add(col.New(12).Add(
				text.New(fmt.Sprintf("Bank: %s   |   Account Name: %s   |   Account No: %s",
					nonEmpty(bank.BankName, "—"),
					nonEmpty(bank.AccountName, "—"),
					bank.AccountNumber,
				), props.Text{Size: 7.5, Top: 1, Color: colorGray}),
			)),
		)
	}

	if inv.Terms != "" {
		rows = append(rows, paragraphRows("Terms & Conditions:", inv.Terms)...)
	}
	if inv.Notes != "" {
		rows = append(rows, paragraphRows("Notes:", inv.Notes)...)
	}

	rows = append(rows, row.New(10).Add(col.New(12).Add(
		text.New("Thank you for your business!", props.Text{
			Size: 8, Align: align.Center, Color: colorGray, Top: 4,
		}),
	)))
	return rows
}

// paragraphRows: título en negrita seguido del texto libre.
func paragraphRows(title, body string) []core.Row {
	return []core.Row{
		row.New(5).Add(col.New(12).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 7.5, Top: 1}),
		)),
		row.New(10).Add(col.New(12).Add(
			text.New(body, props.Text{Size: 7.5, Top: 1, Color: colorGray}),
		)),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
