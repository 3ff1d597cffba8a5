package billing

import (
	"context"

	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
)

// Attachment adjunto de un correo (el PDF de la factura).
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// Message correo saliente ya renderizado. El núcleo arma el HTML con las
// plantillas de templates.go; el adaptador solo lo transporta.
type Message struct {
	To         string
	ToName     string
	FromName   string
	Subject    string
	HTML       string
	Attachment *Attachment
}

// Mailer puerto del colaborador de notificaciones. Devuelve el ID del mensaje
// asignado por el servicio de correo (queda en el emailLog).
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// InvoicePDFGenerator puerto del colaborador de documentos: renderiza la
// representación imprimible de la factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, inv *entity.Invoice, issuer *entity.User, client *entity.Client) ([]byte, error)
}

// ObjectStorage puerto de almacenamiento de artefactos (PDF). La key devuelta
// por la generación se guarda en pdfPath.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
