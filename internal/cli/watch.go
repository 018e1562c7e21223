package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/xiaot623/debate/internal/hub"
	"github.com/xiaot623/debate/internal/render"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream accepted debate records from a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			url, _ := cmd.Flags().GetString("url")
			noColor, _ := cmd.Flags().GetBool("no-color")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			fmt.Fprintf(cmd.ErrOrStderr(), "Connecting to %s...\n", url)
			return watch(ctx, url, render.New(cmd.OutOrStdout(), !noColor))
		},
	}
	cmd.Flags().String("url", "ws://localhost:8080/v1/debate/stream", "record stream address")
	cmd.Flags().Bool("no-color", false, "disable colored output")
	return cmd
}

// Client reads records from the server's stream endpoint.
type Client struct {
	conn *websocket.Conn
}

// NewClient connects to the stream at addr.
func NewClient(ctx context.Context, addr string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the client connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// ReadRecords passes every streamed record to r until the connection
// closes. Messages of other types are skipped.
func (c *Client) ReadRecords(ctx context.Context, r *render.Renderer) error {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		var msg hub.StreamMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != hub.MessageTypeRecord {
			continue
		}
		if err := r.HandleRecord(ctx, msg.Record); err != nil {
			return err
		}
	}
}

func watch(ctx context.Context, addr string, r *render.Renderer) error {
	client, err := NewClient(ctx, addr)
	if err != nil {
		return err
	}

	// Closing the connection unblocks ReadRecords on interrupt.
	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			client.Close()
		case <-stopped:
		}
	}()

	defer client.Close()
	return client.ReadRecords(ctx, r)
}
