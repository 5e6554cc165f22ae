package messagebroker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// NatsClient wraps a NATS connection used for fire-and-forget event publication.
type NatsClient struct {
	conn   *nats.Conn
	logger *slog.Logger
}

var ErrNotConnected = errors.New("nats: client not connected")

// NewNatsClient connects to url and keeps reconnecting forever in the background.
func NewNatsClient(url, clientName string, logger *slog.Logger) (*NatsClient, error) {
	log := logger.With("component", "nats_client")

	opts := []nats.Option{
		nats.Name(clientName),
		nats.Timeout(10 * time.Second),
		nats.PingInterval(20 * time.Second),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			log.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	log.Info("Connected to NATS", "url", nc.ConnectedUrl())
	return &NatsClient{conn: nc, logger: log}, nil
}

// Publish sends data on subject. The context is only checked before sending;
// core NATS publishes do not block on the server.
func (c *NatsClient) Publish(ctx context.Context, subject string, data []byte) error {
	if c == nil || c.conn == nil {
		return ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

// Close drains pending messages before closing the connection.
func (c *NatsClient) Close() {
	if c == nil || c.conn == nil {
		return
	}
	if err := c.conn.Drain(); err != nil {
		c.logger.Warn("NATS drain failed, closing", "error", err)
		c.conn.Close()
	}
}
