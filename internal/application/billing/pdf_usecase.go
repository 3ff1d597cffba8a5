package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/invoice-pro/internal/application/dto"
	"github.com/tu-usuario/invoice-pro/internal/domain"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
	"github.com/tu-usuario/invoice-pro/internal/domain/repository"
)

// PDFUseCase genera, almacena y sirve la representación imprimible (PDF) de
// una factura. El artefacto vive en el object storage bajo la key guardada en
// pdfPath; la factura siempre puede regenerarse desde el agregado.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	userRepo    repository.UserRepository
	generator   InvoicePDFGenerator
	storage     ObjectStorage
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	userRepo repository.UserRepository,
	generator InvoicePDFGenerator,
	storage ObjectStorage,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		userRepo:    userRepo,
		generator:   generator,
		storage:     storage,
	}
}

func pdfKey(invoiceNumber string, now time.Time) string {
	return fmt.Sprintf("invoices/invoice-%s-%s.pdf", invoiceNumber, now.Format("20060102"))
}

func pdfFilename(invoiceNumber string) string {
	return fmt.Sprintf("invoice-%s.pdf", invoiceNumber)
}

// render carga emisor y cliente y produce los bytes del PDF.
func (uc *PDFUseCase) render(ctx context.Context, inv *entity.Invoice) ([]byte, error) {
	issuer, err := uc.userRepo.GetByID(inv.UserID)
	if err != nil || issuer == nil {
		return nil, fmt.Errorf("pdf: obtener emisor: %w", err)
	}
	client, err := uc.clientRepo.GetByID(inv.ClientID)
	if err != nil || client == nil {
		return nil, fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	data, err := uc.generator.GenerateInvoicePDF(ctx, inv, issuer, client)
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return data, nil
}

// generateAndStore renderiza el PDF, lo sube al storage y fija pdfPath.
// No persiste el agregado: eso queda en manos del caller.
func (uc *PDFUseCase) generateAndStore(ctx context.Context, inv *entity.Invoice) ([]byte, error) {
	data, err := uc.render(ctx, inv)
	if err != nil {
		return nil, err
	}
	key := pdfKey(inv.InvoiceNumber, time.Now().UTC())
	if err := uc.storage.Put(ctx, key, data, "application/pdf"); err != nil {
		return nil, fmt.Errorf("pdf: subir artefacto: %w", err)
	}
	inv.PDFPath = key
	return data, nil
}

// ensurePDF retorna los bytes del artefacto vigente, generándolo si no existe
// o si la key guardada ya no está en el storage. Si hubo que regenerar,
// persiste el pdfPath nuevo.
func (uc *PDFUseCase) ensurePDF(ctx context.Context, inv *entity.Invoice) ([]byte, error) {
	if inv.PDFPath != "" {
		if data, err := uc.storage.Get(ctx, inv.PDFPath); err == nil {
			return data, nil
		}
		// Artefacto perdido; se regenera desde el agregado.
	}
	data, err := uc.generateAndStore(ctx, inv)
	if err != nil {
		return nil, err
	}
	if err := uc.invoiceRepo.Save(inv); err != nil {
		return nil, fmt.Errorf("pdf: persistir referencia: %w", err)
	}
	return data, nil
}

// Generate genera (o regenera) el PDF de la factura del usuario emisor y deja
// la referencia en pdfPath.
func (uc *PDFUseCase) Generate(ctx context.Context, userID, invoiceID string) (*dto.PDFGeneratedResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if _, err := uc.generateAndStore(ctx, inv); err != nil {
		return nil, err
	}
	if err := uc.invoiceRepo.Save(inv); err != nil {
		return nil, fmt.Errorf("pdf: persistir referencia: %w", err)
	}
	return &dto.PDFGeneratedResponse{
		PDFPath:  inv.PDFPath,
		Filename: pdfFilename(inv.InvoiceNumber),
	}, nil
}

// Download retorna el PDF para descarga del usuario emisor, generándolo si aún
// no existe.
func (uc *PDFUseCase) Download(ctx context.Context, userID, invoiceID string) ([]byte, string, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", err
	}
	if inv.UserID != userID {
		return nil, "", domain.ErrForbidden
	}
	data, err := uc.ensurePDF(ctx, inv)
	if err != nil {
		return nil, "", err
	}
	return data, pdfFilename(inv.InvoiceNumber), nil
}

// ViewForClient retorna el PDF para el portal del cliente. La primera vista
// sella client_viewed_at y promueve sent→viewed con su entrada de auditoría.
func (uc *PDFUseCase) ViewForClient(ctx context.Context, clientID, invoiceID string) ([]byte, string, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", err
	}
	if inv.ClientID != clientID {
		return nil, "", domain.ErrForbidden
	}
	data, err := uc.ensurePDF(ctx, inv)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	inv.MarkClientAccess(now)
	if inv.Status == entity.StatusSent {
		inv.SetStatus(entity.StatusViewed, entity.ClientActor(clientID), "Invoice viewed by client", now, uuid.New().String())
	}
	if err := uc.invoiceRepo.Save(inv); err != nil {
		return nil, "", fmt.Errorf("pdf: sellar vista del cliente: %w", err)
	}
	return data, pdfFilename(inv.InvoiceNumber), nil
}

// DeleteArtifact borra el PDF almacenado y limpia pdfPath. El agregado queda
// intacto: el PDF siempre puede regenerarse.
func (uc *PDFUseCase) DeleteArtifact(ctx context.Context, userID, invoiceID string) error {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return err
	}
	if inv.UserID != userID {
		return domain.ErrForbidden
	}
	if inv.PDFPath == "" {
		return domain.ErrNotFound
	}
	if err := uc.storage.Delete(ctx, inv.PDFPath); err != nil {
		return fmt.Errorf("pdf: borrar artefacto: %w", err)
	}
	inv.PDFPath = ""
	if err := uc.invoiceRepo.Save(inv); err != nil {
		return fmt.Errorf("pdf: persistir referencia: %w", err)
	}
	return nil
}
