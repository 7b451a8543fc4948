// Package main is the entry point for the Pocket Office simulation server.
// It only wires dependencies; no game rules belong here.
package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MRamiBalles/PocketOffice/server/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "office-server",
	Short: "Pocket Office simulation server",
	Long:  "Runs the Pocket Office company simulation: a real-time server with HTTP and WebSocket surfaces, a headless fast-forward, and a notification watcher.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newRand seeds the simulation. A zero seed is replaced by the wall clock.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
