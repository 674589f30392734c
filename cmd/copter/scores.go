package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/copter/internal/config"
	"github.com/vovakirdan/copter/internal/platform/tui"
	"github.com/vovakirdan/copter/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresPlain bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the best runs. In a terminal this opens an interactive table;
with --plain or when piped it prints the top runs.

The NVRAM flash image is read as well when it exists.

Examples:
  copter scores
  copter scores --plain --limit 20
  copter scores --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to print in plain mode")
	scoresCmd.Flags().BoolVar(&flagScoresPlain, "plain", false, "Print instead of opening the table")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all recorded scores and the NVRAM cell")
}

func runScores(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagScoresClear {
		return clearScores(store, cfg)
	}

	if !flagScoresPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(store, tui.GameID, width, height)
	}

	scores, err := store.TopScores(tui.GameID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Println("High Scores - Copter")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'copter play' to set the first high score!")
	} else {
		fmt.Printf("  %-4s  %-12s  %-10s  %s\n", "Rank", "Player", "Score", "When")
		fmt.Printf("  %-4s  %-12s  %-10s  %s\n", "----", "------", "-----", "----")
		for i, entry := range scores {
			player := entry.Player
			if player == "" {
				player = "-"
			}
			fmt.Printf("  %-4d  %-12s  %-10s  %s\n", i+1, player, humanize.Comma(int64(entry.Score)), humanize.Time(entry.CreatedAt))
		}
	}

	fmt.Println()
	if high, err := store.HighScore(tui.GameID); err == nil {
		fmt.Printf("Best: %s\n", humanize.Comma(int64(high)))
	} else if !errors.Is(err, storage.ErrNoScore) {
		return err
	}

	path := config.ExpandHome(cfg.Storage.NVRAMImage)
	if _, statErr := os.Stat(path); statErr == nil {
		nv, img, err := storage.OpenNVRAMImage(path)
		if err != nil {
			return err
		}
		defer img.Close()
		high, err := nv.LoadHighScore()
		if err != nil {
			return err
		}
		fmt.Printf("NVRAM: %s (%s)\n", humanize.Comma(int64(high)), path)
	}
	return nil
}

func clearScores(store *storage.Store, cfg config.CopterConfig) error {
	if err := store.ClearScores(tui.GameID); err != nil {
		return err
	}
	fmt.Println("Cleared score history.")

	path := config.ExpandHome(cfg.Storage.NVRAMImage)
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	nv, img, err := storage.OpenNVRAMImage(path)
	if err != nil {
		return err
	}
	if err := nv.Erase(); err != nil {
		img.Close()
		return err
	}
	fmt.Println("Erased NVRAM cell.")
	return img.Close()
}
