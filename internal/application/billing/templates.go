package billing

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
)

// Plantillas HTML de las notificaciones al cliente. El núcleo renderiza el
// cuerpo completo; el Mailer solo transporta el mensaje.

const emailDateLayout = "Mon Jan 02 2006"

var invoiceEmailTmpl = template.Must(template.New("invoice").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Invoice {{.InvoiceNumber}}</h2>
  <p>Dear {{.ClientCompany}},</p>
  <p>Please find attached your invoice for the amount of <strong>₹{{.TotalAmount}}</strong></p>
  {{if .CustomMessage}}<p><em>{{.CustomMessage}}</em></p>{{end}}
  <div style="background-color: #f5f5f5; padding: 20px; margin: 20px 0;">
    <h3>Invoice Details:</h3>
    <p><strong>Invoice Number:</strong> {{.InvoiceNumber}}</p>
    <p><strong>Invoice Date:</strong> {{.InvoiceDate}}</p>
    <p><strong>Due Date:</strong> {{.DueDate}}</p>
    <p><strong>Amount:</strong> ₹{{.TotalAmount}}</p>
    <p><strong>Status:</strong> {{.Status}}</p>
  </div>
  <p>Thank you for your business!</p>
  <p>Best regards,<br>{{.UserName}}{{if .CompanyName}}<br>{{.CompanyName}}{{end}}</p>
</div>
`))

var reminderEmailTmpl = template.Must(template.New("reminder").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #d32f2f;">Payment Reminder</h2>
  <p>Dear {{.ClientCompany}},</p>
  <p>{{.ReminderMessage}}</p>
  {{if .CustomMessage}}<p><em>{{.CustomMessage}}</em></p>{{end}}
  <div style="background-color: #fff3cd; border: 1px solid #ffeaa7; padding: 20px; margin: 20px 0;">
    <h3>Outstanding Invoice:</h3>
    <p><strong>Invoice Number:</strong> {{.InvoiceNumber}}</p>
    <p><strong>Due Date:</strong> {{.DueDate}}</p>
    <p><strong>Amount Due:</strong> ₹{{.RemainingAmount}}</p>
    {{if gt .DaysOverdue 0}}<p><strong>Days Overdue:</strong> {{.DaysOverdue}}</p>{{end}}
  </div>
  <p>Please arrange payment at your earliest convenience.</p>
  <p>Best regards,<br>{{.UserName}}{{if .CompanyName}}<br>{{.CompanyName}}{{end}}</p>
</div>
`))

var paymentReceivedTmpl = template.Must(template.New("payment").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #4caf50;">Payment Confirmation</h2>
  <p>Dear {{.ClientCompany}},</p>
  <p>Thank you! We have received your payment for Invoice {{.InvoiceNumber}}.</p>
  <div style="background-color: #e8f5e8; border: 1px solid #4caf50; padding: 20px; margin: 20px 0;">
    <h3>Payment Details:</h3>
    <p><strong>Amount Received:</strong> ₹{{.AmountPaid}}</p>
    <p><strong>Payment Method:</strong> {{.Method}}</p>
    <p><strong>Payment Date:</strong> {{.PaidAt}}</p>
    <p><strong>Invoice Status:</strong> {{.Status}}</p>
    {{if .HasBalance}}<p><strong>Remaining Balance:</strong> ₹{{.RemainingAmount}}</p>{{end}}
  </div>
  <p>We appreciate your business!</p>
  <p>Best regards,<br>{{.UserName}}{{if .CompanyName}}<br>{{.CompanyName}}{{end}}</p>
</div>
`))

type invoiceEmailData struct {
	InvoiceNumber string
	ClientCompany string
	CustomMessage string
	TotalAmount   decimal.Decimal
	InvoiceDate   string
	DueDate       string
	Status        string
	UserName      string
	CompanyName   string
}

type reminderEmailData struct {
	InvoiceNumber   string
	ClientCompany   string
	ReminderMessage string
	CustomMessage   string
	DueDate         string
	RemainingAmount decimal.Decimal
	DaysOverdue     int
	UserName        string
	CompanyName     string
}

type paymentEmailData struct {
	InvoiceNumber   string
	ClientCompany   string
	AmountPaid      decimal.Decimal
	Method          string
	PaidAt          string
	Status          string
	HasBalance      bool
	RemainingAmount decimal.Decimal
	UserName        string
	CompanyName     string
}

// Mensajes por tipo de recordatorio.
var reminderMessages = map[string]string{
	"gentle": "This is a gentle reminder that your invoice is due.",
	"urgent": "URGENT: Your invoice is overdue. Please arrange payment immediately.",
	"final":  "FINAL NOTICE: This is the final reminder for your overdue invoice.",
}

func renderTemplate(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("renderizar plantilla %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func daysOverdue(dueDate, now time.Time) int {
	if !dueDate.Before(now) {
		return 0
	}
	return int(now.Sub(dueDate).Hours()/24) + 1
}
