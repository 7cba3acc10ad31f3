package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/contentpulse/backend/internal/report"
	"github.com/contentpulse/backend/pkg/logger"
)

// WebSocketHandler streams report pipeline progress: one stage message per
// completed stage, then the finished report.
type WebSocketHandler struct {
	engine *report.Engine
}

func NewWebSocketHandler(engine *report.Engine) *WebSocketHandler {
	return &WebSocketHandler{
		engine: engine,
	}
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg struct {
			Type  string                `json:"type"`
			Query report.AnalyticsQuery `json:"query"`
		}

		if err := c.ReadJSON(&msg); err != nil {
			logger.Debug("WebSocket read ended", zap.Error(err))
			break
		}

		if msg.Type != "generate" {
			continue
		}

		if err := h.streamReport(c, msg.Query); err != nil {
			logger.Error("Failed to stream report", zap.Error(err))
			h.sendError(c, err)
		}
	}
}

func (h *WebSocketHandler) streamReport(c *websocket.Conn, query report.AnalyticsQuery) error {
	progress := func(stage string) {
		c.WriteJSON(map[string]interface{}{
			"type":  "stage",
			"stage": stage,
		})
	}

	rep, err := h.engine.GenerateReportWithProgress(context.Background(), query, progress)
	if err != nil {
		return err
	}

	return c.WriteJSON(map[string]interface{}{
		"type":   "complete",
		"report": rep,
	})
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, err error) {
	message := "Failed to generate report"

	var cfgErr *report.ConfigurationError
	if errors.As(err, &cfgErr) {
		message = cfgErr.Error()
	}

	c.WriteJSON(map[string]interface{}{
		"type":  "error",
		"error": message,
	})
}
