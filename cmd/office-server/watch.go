package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/MRamiBalles/PocketOffice/server/internal/events"
	"github.com/MRamiBalles/PocketOffice/server/internal/network"
)

var (
	watchURL      string
	watchDuration time.Duration
	watchDayTicks bool
	watchSpeed    float64
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print notifications from a running server",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchURL, "url", "ws://localhost:8080/ws", "WebSocket server URL")
	watchCmd.Flags().DurationVar(&watchDuration, "duration", 0, "Stop after this long, 0 runs until interrupted")
	watchCmd.Flags().BoolVar(&watchDayTicks, "days", false, "Also print day ticks and cash changes")
	watchCmd.Flags().Float64Var(&watchSpeed, "speed", 0, "Ask the server for this speed multiplier on connect")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if watchDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, watchDuration)
		defer cancel()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, watchURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", watchURL, err)
	}
	defer conn.Close()

	if watchSpeed > 0 {
		payload, _ := json.Marshal(map[string]float64{"multiplier": watchSpeed})
		cmdMsg := network.Command{Type: network.CommandSetSpeed, Payload: payload}
		if err := conn.WriteJSON(cmdMsg); err != nil {
			return fmt.Errorf("failed to send speed: %w", err)
		}
	}

	go func() {
		<-ctx.Done()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		conn.Close()
	}()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "watching %s\n", watchURL)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("connection lost: %w", err)
		}
		// the hub packs queued messages into one frame, newline separated
		for _, msg := range bytes.Split(raw, []byte{'\n'}) {
			printFrame(out, msg, watchDayTicks)
		}
	}
}

// printFrame renders one server message. Replies to commands share the socket with notifications.
func printFrame(w io.Writer, raw []byte, verbose bool) {
	var reply network.Reply
	if err := json.Unmarshal(raw, &reply); err == nil && reply.Command != "" {
		if reply.Error != "" {
			fmt.Fprintf(w, "! %s failed: %s\n", reply.Command, reply.Error)
		} else {
			fmt.Fprintf(w, "> %s ok: %v\n", reply.Command, reply.Result)
		}
		return
	}

	var n struct {
		events.GameEvent
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(raw, &n); err != nil {
		fmt.Fprintf(w, "? %s\n", raw)
		return
	}
	switch n.Type {
	case events.EventTypeDayPassed, events.EventTypeCashChanged:
		if !verbose {
			return
		}
	}
	fmt.Fprintf(w, "[%04d-%02d-%02d] #%d %s %s\n", n.Year, n.Month, n.Day, n.Seq, n.Type, n.Payload)
}
