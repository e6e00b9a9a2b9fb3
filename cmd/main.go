package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/danisworo/wicara/adapters/live"
	"github.com/danisworo/wicara/adapters/mongo"
	"github.com/danisworo/wicara/domain/entities"
	"github.com/danisworo/wicara/domain/repositories"
	"github.com/danisworo/wicara/internal/api"
	"github.com/danisworo/wicara/internal/audio"
	"github.com/danisworo/wicara/repository"
	"github.com/danisworo/wicara/usecase"
)

const defaultSystemInstruction = "You are a friendly receptionist for a creative services studio. " +
	"Greet callers, answer questions about services, and once a caller wants to make an inquiry, " +
	"collect their name, contact, the service they need, their budget, and any notes, then call " +
	"the capture_inquiry function with all of them."

// deviceFactory bridges the concrete audio backend to the session service.
type deviceFactory struct {
	devices *audio.Devices
}

func (f deviceFactory) OpenCapture() (usecase.AudioCapture, error) {
	capture, err := f.devices.OpenCapture()
	if err != nil {
		return nil, err
	}
	return capture, nil
}

func (f deviceFactory) OpenOutput() (audio.OutputContext, error) {
	return f.devices.OpenOutput()
}

func main() {
	// Load .env if present
	godotenv.Load()

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Initialize agent channel (requires GEMINI_API_KEY)
	channel, err := live.NewGeminiChannel(logger)
	if err != nil {
		logger.Fatal("failed to initialize agent channel", zap.Error(err))
	}

	// Initialize audio backend
	devices, err := audio.NewDevices(logger)
	if err != nil {
		logger.Fatal("failed to initialize audio devices", zap.Error(err))
	}
	defer devices.Close()

	// Session archive: MongoDB when configured, in-memory otherwise
	var archive repositories.ArchiveRepository
	var mongoClient *mongo.Client
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoClient, err = mongo.NewClient(connectCtx, mongo.Config{
			URI:      uri,
			Database: os.Getenv("MONGODB_DATABASE"),
		}, logger)
		cancel()
		if err != nil {
			logger.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		archive = mongo.NewArchiveRepository(mongoClient.Database())
	} else {
		logger.Info("MONGODB_URI not set, archiving sessions in memory")
		archive = repository.NewMemoryArchiveRepository()
	}

	// Initialize usecase services
	transcript := entities.NewTranscript()
	records := entities.NewRecordLog()

	intake := usecase.NewIntakeService(records, logger)
	router := usecase.NewToolRouter(logger)
	router.Register(usecase.IntakeToolName, intake.Handle)

	model := os.Getenv("WICARA_MODEL")
	if model == "" {
		model = "models/gemini-2.0-flash-live-001"
	}
	systemInstruction := os.Getenv("WICARA_SYSTEM_INSTRUCTION")
	if systemInstruction == "" {
		systemInstruction = defaultSystemInstruction
	}

	sessions := usecase.NewSessionService(
		channel,
		deviceFactory{devices: devices},
		router,
		transcript,
		records,
		archive,
		usecase.SessionConfig{
			Model:             model,
			SystemInstruction: systemInstruction,
			Tools:             []*genai.FunctionDeclaration{intake.Declaration()},
		},
		logger,
	)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize API routes
	api.InitRoutes(e, sessions, logger)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("port", port), zap.String("model", model))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	if err := sessions.Disconnect(); err != nil {
		logger.Error("failed to end live session", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if mongoClient != nil {
		if err := mongoClient.Close(ctx); err != nil {
			logger.Error("failed to close MongoDB connection", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}
