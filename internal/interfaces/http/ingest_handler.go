package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-stream/internal/application/alerts"
	"github.com/jhoicas/Inventario-stream/internal/application/dto"
	"github.com/jhoicas/Inventario-stream/internal/application/inventory"
	"github.com/jhoicas/Inventario-stream/internal/domain"
)

// IngestHandler recibe lotes CSV, notificaciones de carga y registros del change feed.
type IngestHandler struct {
	ingest   *inventory.IngestUseCase
	consumer *alerts.ConsumerUseCase
}

// NewIngestHandler construye el handler.
func NewIngestHandler(ingest *inventory.IngestUseCase, consumer *alerts.ConsumerUseCase) *IngestHandler {
	return &IngestHandler{ingest: ingest, consumer: consumer}
}

// Upload godoc
// @Summary      Cargar lote CSV
// @Tags         ingest
// @Security     Bearer
// @Accept       plain
// @Produce      json
// @Success      200  {object}  dto.IngestResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/uploads [post]
func (h *IngestHandler) Upload(c *fiber.Ctx) error {
	res, err := h.ingest.Ingest(c.Context(), c.Body())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Error: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(res)
}

// UploadEvent godoc
// @Summary      Notificación de objeto creado
// @Description  Descarga cada objeto referenciado y lo aplica como lote.
// @Tags         ingest
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.S3EventNotification  true  "Records[].s3.bucket.name / object.key"
// @Success      200  {object}  dto.UploadEventResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.UploadEventResult
// @Router       /api/uploads/events [post]
func (h *IngestHandler) UploadEvent(c *fiber.Ctx) error {
	var in dto.S3EventNotification
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Error: "cuerpo inválido"})
	}
	out, err := h.ingest.HandleUploadEvent(c.Context(), in)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(out)
	}
	return c.JSON(out)
}

// StreamRecords godoc
// @Summary      Entregar registros del change feed
// @Description  Evalúa cada INSERT/MODIFY contra el umbral de stock bajo y publica las alertas.
// @Tags         stream
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StreamBatchRequest  true  "Records[].eventName / dynamodb.NewImage"
// @Success      200  {object}  dto.StreamBatchResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.StreamBatchResult
// @Router       /api/stream/records [post]
func (h *IngestHandler) StreamRecords(c *fiber.Ctx) error {
	var in dto.StreamBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Error: "cuerpo inválido"})
	}
	out, err := h.consumer.HandleBatch(c.Context(), in.ToChangeEvents())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(out)
	}
	return c.JSON(out)
}
