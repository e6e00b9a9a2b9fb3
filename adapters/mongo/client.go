package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const defaultDatabase = "wicara"

// Config selects the archive database. The caller resolves these (from env
// or flags); the adapter never reads the environment itself.
type Config struct {
	URI      string
	Database string
}

// Client holds the connection behind the archive repository.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// NewClient connects and verifies the server is reachable. The archive is
// written by a single session at a time, so the pool stays small.
func NewClient(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo URI is required")
	}
	if cfg.Database == "" {
		cfg.Database = defaultDatabase
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(2).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to archive database: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("archive database unreachable: %w", err)
	}

	logger.Info("archive database connected", zap.String("database", cfg.Database))

	return &Client{
		client: client,
		db:     client.Database(cfg.Database),
		logger: logger,
	}, nil
}

// Database returns the handle repositories are built on.
func (c *Client) Database() *mongo.Database {
	return c.db
}

// Close disconnects from the archive database.
func (c *Client) Close(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from archive database: %w", err)
	}
	c.logger.Info("archive database disconnected")
	return nil
}
