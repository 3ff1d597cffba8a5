package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/invoice-pro/internal/application/billing"
	"github.com/tu-usuario/invoice-pro/internal/application/dto"
)

// PDFHandler maneja la generación, descarga y borrado del PDF de la factura.
type PDFHandler struct {
	uc *billing.PDFUseCase
}

// NewPDFHandler construye el handler.
func NewPDFHandler(uc *billing.PDFUseCase) *PDFHandler {
	return &PDFHandler{uc: uc}
}

// Generate genera (o regenera) el PDF y guarda el artefacto.
// POST /api/pdf/generate/:id
func (h *PDFHandler) Generate(c *fiber.Ctx) error {
	resp, err := h.uc.Generate(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Download descarga el PDF como adjunto (ruta del emisor).
// GET /api/pdf/download/:id
func (h *PDFHandler) Download(c *fiber.Ctx) error {
	data, filename, err := h.uc.Download(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

// View muestra el PDF inline al cliente del portal. Una factura en sent pasa a
// viewed con su entrada de auditoría.
// GET /api/pdf/view/:id
func (h *PDFHandler) View(c *fiber.Ctx) error {
	data, filename, err := h.uc.ViewForClient(c.Context(), GetClientID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", filename))
	return c.Send(data)
}

// Delete borra el artefacto PDF y limpia pdfPath (la factura no se toca).
// DELETE /api/pdf/delete/:id
func (h *PDFHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteArtifact(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "PDF eliminado"})
}
