package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
	"tinygo.org/x/tinyfs"

	"github.com/vovakirdan/copter/internal/config"
	"github.com/vovakirdan/copter/internal/core"
	"github.com/vovakirdan/copter/internal/link"
	"github.com/vovakirdan/copter/internal/panel"
	"github.com/vovakirdan/copter/internal/platform/tui"
	"github.com/vovakirdan/copter/internal/session"
	"github.com/vovakirdan/copter/internal/storage"
)

var (
	flagLink      string
	flagNVRAM     bool
	flagBoostHold int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play copter",
	Long: `Start a game on an emulated 160x128 panel.

Controls:
  Space/Up   - Climb (held for a few ticks per press)
  P/Esc      - Pause
  R          - Restart (after game over)
  Q/Ctrl+C   - Quit

A remote controller can drive the copter over --link:
  listen:ADDR  - wait for a controller to connect over TCP
  dial:ADDR    - connect to a controller over TCP
  PATH         - open a serial or Bluetooth device

High scores live in the sqlite database unless --nvram is set, which keeps a
single 4-byte cell in a flash image like the handheld does.

Examples:
  copter play
  copter play --difficulty easy
  copter play --link listen::7000
  copter play --link /dev/rfcomm0 --nvram`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLink, "link", "", "Controller link: listen:ADDR, dial:ADDR or device path")
	playCmd.Flags().BoolVar(&flagNVRAM, "nvram", false, "Keep the high score in the NVRAM flash image")
	playCmd.Flags().IntVar(&flagBoostHold, "boost-hold", tui.DefaultBoostHold, "Ticks a boost key press keeps climbing")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagNVRAM {
		cfg.Storage.Backend = config.BackendNVRAM
	}

	logger, closeLog, err := newLogger("copter", nil)
	if err != nil {
		return err
	}
	defer closeLog()

	p := panel.NewPanel(cfg.Display.Width, cfg.Display.Height)
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		needW, needH := tui.TerminalSize(p)
		if w < needW || h < needH {
			fmt.Fprintf(os.Stderr, "Warning: terminal is %dx%d, the panel needs %dx%d\n", w, h, needW, needH)
		}
	}

	highScores, closeStore, err := openHighScores(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := session.Options{
		Display:       p,
		Scene:         cfg.SceneConfig(),
		Seed:          flagSeed,
		HighScores:    highScores,
		ScoreInterval: cfg.Link.ScoreInterval,
		Logger:        logger,
	}

	var conn *link.Conn
	if flagLink != "" {
		mode, modeErr := cfg.ScoreMode()
		if modeErr != nil {
			return modeErr
		}
		fmt.Fprintf(os.Stderr, "Waiting for controller on %s...\n", flagLink)
		conn, err = link.Open(ctx, flagLink, logger)
		if err != nil {
			return err
		}
		defer conn.Close()
		opts.Receiver = link.NewReceiver(conn)
		opts.Transmitter = link.NewTransmitter(conn, mode)
	}

	game, err := session.New(opts)
	if err != nil {
		return err
	}
	model, err := tui.NewModel(game, p, core.RuntimeConfig{TickRate: flagFPS, Seed: flagSeed}, flagBoostHold)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return tui.Run(gctx, model)
	})
	if conn != nil {
		g.Go(func() error {
			select {
			case <-conn.Done():
				logger.Warn("controller disconnected", "error", conn.Err())
			case <-gctx.Done():
			}
			return nil
		})
	}
	return g.Wait()
}

// openHighScores picks the high score backend. When the configured backend
// cannot be opened the game keeps running on a volatile in-memory cell.
func openHighScores(cfg config.CopterConfig, logger *log.Logger) (session.HighScoreStore, func(), error) {
	if cfg.Storage.Backend == config.BackendNVRAM {
		path := config.ExpandHome(cfg.Storage.NVRAMImage)
		nv, img, err := storage.OpenNVRAMImage(path)
		if err == nil {
			logger.Info("high score in flash image", "path", path)
			return nv, func() {
				if err := img.Close(); err != nil {
					logger.Error("cannot close flash image", "error", err)
				}
			}, nil
		}
		fmt.Fprintf(os.Stderr, "Warning: could not open flash image: %v\n", err)
	} else {
		store, err := storage.Open(flagDBPath)
		if err == nil {
			return storage.Ledger{Store: store, GameID: tui.GameID, Player: os.Getenv("USER")}, func() { store.Close() }, nil
		}
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
	}

	dev := tinyfs.NewMemoryDevice(storage.DefaultPageSize, storage.DefaultBlockSize, storage.DefaultBlockCount)
	nv, err := storage.NewNVRAM(dev, 0)
	if err == nil {
		err = nv.Erase()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create volatile high score cell: %w", err)
	}
	return nv, func() {}, nil
}
