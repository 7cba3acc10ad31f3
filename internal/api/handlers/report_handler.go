package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/contentpulse/backend/internal/report"
	"github.com/contentpulse/backend/internal/storage/sqlite"
	"github.com/contentpulse/backend/pkg/logger"
)

type ReportHandler struct {
	engine  *report.Engine
	history *sqlite.Client
}

func NewReportHandler(engine *report.Engine, history *sqlite.Client) *ReportHandler {
	return &ReportHandler{
		engine:  engine,
		history: history,
	}
}

func (h *ReportHandler) GenerateReport(c *fiber.Ctx) error {
	var query report.AnalyticsQuery

	if err := c.BodyParser(&query); err != nil {
		logger.Error("Failed to parse report request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	rep, err := h.engine.GenerateReport(c.Context(), query)
	if err != nil {
		var cfgErr *report.ConfigurationError
		if errors.As(err, &cfgErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": cfgErr.Error(),
			})
		}
		logger.Error("Failed to generate report", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate report",
		})
	}

	return c.JSON(rep)
}

func (h *ReportHandler) GetReportHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 200 {
		limit = 20
	}

	entries, err := h.history.ListReports(limit)
	if err != nil {
		logger.Error("Failed to list report history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list report history",
		})
	}

	if entries == nil {
		entries = []sqlite.ReportEntry{}
	}

	return c.JSON(fiber.Map{
		"reports": entries,
	})
}

func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	reportID := c.Params("id")
	if reportID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Report id is required",
		})
	}

	rep, err := h.history.GetReport(reportID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Report not found",
		})
	}

	return c.JSON(rep)
}
