package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/danisworo/wicara/internal/export"
	"github.com/danisworo/wicara/usecase"
)

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, sessions *usecase.SessionService, logger *zap.Logger) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "wicara",
		})
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// API v1 routes
	v1 := e.Group("/api/v1")

	v1.POST("/session/connect", func(c echo.Context) error {
		return connectSession(c, sessions, logger)
	})
	v1.POST("/session/disconnect", func(c echo.Context) error {
		return disconnectSession(c, sessions, logger)
	})

	v1.GET("/status", func(c echo.Context) error {
		return c.JSON(http.StatusOK, sessions.Status())
	})

	v1.GET("/transcript", func(c echo.Context) error {
		return getTranscript(c, sessions)
	})
	v1.GET("/records", func(c echo.Context) error {
		return getRecords(c, sessions)
	})

	v1.GET("/export/records.csv", func(c echo.Context) error {
		return exportRecords(c, sessions)
	})
	v1.GET("/export/transcript.csv", func(c echo.Context) error {
		return exportTranscript(c, sessions)
	})
}

func connectSession(c echo.Context, sessions *usecase.SessionService, logger *zap.Logger) error {
	if err := sessions.Connect(c.Request().Context()); err != nil {
		logger.Error("Session connect failed", zap.Error(err))
		return c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "connect_failed",
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, ConnectResponse{
		Status:      "connected",
		ConnectedAt: time.Now(),
	})
}

func disconnectSession(c echo.Context, sessions *usecase.SessionService, logger *zap.Logger) error {
	if err := sessions.Disconnect(); err != nil {
		logger.Error("Session disconnect failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "disconnect_failed",
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "disconnected"})
}

func getTranscript(c echo.Context, sessions *usecase.SessionService) error {
	messages := sessions.Transcript()
	resp := TranscriptResponse{Messages: make([]TranscriptMessage, 0, len(messages))}
	for _, m := range messages {
		resp.Messages = append(resp.Messages, TranscriptMessage{
			Role:      string(m.Role),
			Text:      m.Text,
			Timestamp: m.Timestamp,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func getRecords(c echo.Context, sessions *usecase.SessionService) error {
	records := sessions.Records()
	resp := RecordsResponse{Records: make([]RecordItem, 0, len(records))}
	for _, r := range records {
		resp.Records = append(resp.Records, RecordItem{
			ID:          r.ID,
			Name:        r.Name,
			Contact:     r.Contact,
			ServiceType: r.ServiceType,
			Budget:      r.Budget,
			Notes:       r.Notes,
			CapturedAt:  r.CapturedAt,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func exportRecords(c echo.Context, sessions *usecase.SessionService) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="records.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	return export.WriteRecords(c.Response(), sessions.Records())
}

func exportTranscript(c echo.Context, sessions *usecase.SessionService) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="transcript.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	return export.WriteTranscript(c.Response(), sessions.Transcript())
}
