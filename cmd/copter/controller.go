package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/copter/internal/link"
	"github.com/vovakirdan/copter/internal/platform/tui"
)

var (
	flagScoreMode       string
	flagControllerBoost int
)

var controllerCmd = &cobra.Command{
	Use:   "controller <target>",
	Short: "Run the remote controller",
	Long: `Drive a running game over the link protocol and show the score it
reports back.

Targets:
  dial:ADDR    - connect to a game started with --link listen:ADDR
  listen:ADDR  - wait for a game started with --link dial:ADDR
  PATH         - serial or Bluetooth device

Controls:
  Space/Up   - Button (held for a few ticks per press)
  P          - Pause
  Q/Esc      - Quit

Examples:
  copter controller dial:localhost:7000
  copter controller /dev/ttyUSB0 --score-mode increment`,
	Args: cobra.ExactArgs(1),
	RunE: runController,
}

func init() {
	controllerCmd.Flags().StringVar(&flagScoreMode, "score-mode", "", "Score report format: payload or increment (default from config)")
	controllerCmd.Flags().IntVar(&flagControllerBoost, "boost-hold", tui.DefaultBoostHold, "Ticks a button press stays down")
}

func runController(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	modeName := cfg.Link.ScoreMode
	if flagScoreMode != "" {
		modeName = flagScoreMode
	}
	mode, err := link.ParseScoreMode(modeName)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger("copter-controller", nil)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := link.Open(ctx, args[0], logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	logger.Info("controller connected", "target", args[0], "mode", mode)
	return tui.RunController(ctx, tui.NewControllerModel(conn, mode, flagFPS, flagControllerBoost))
}
