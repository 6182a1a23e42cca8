package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/t2048/internal/core"
	"github.com/vovakirdan/t2048/internal/platform/tui"
	"github.com/vovakirdan/t2048/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play 2048",
	Long: `Start playing 2048. Without a mode the mode menu opens first, and leaving
a game (Esc while paused or after game over) returns to it.

Controls:
  Arrows/WASD  - Slide tiles
  N            - Add a tile without moving
  Space        - Toggle always-spawn
  Tab          - Identity inspector
  P/Esc        - Pause
  R            - Reset the board
  Q/Ctrl+C     - Quit

Examples:
  t2048 play
  t2048 play 2048
  t2048 play 2048_easy --seed 7
  t2048 play --config ./my-2048.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	if len(args) == 1 && !registry.Exists(args[0]) {
		return fmt.Errorf("unknown mode %q, run 't2048 list' to see available modes", args[0])
	}

	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: opts.FPS,
		Seed:     opts.Seed,
	}

	if len(args) == 1 {
		_, err := playMode(args[0], cfg)
		return err
	}

	for {
		res, err := tui.RunModeMenu(cfg)
		if err != nil {
			return err
		}
		if res.Quit {
			return nil
		}
		cfg = res.Config

		back, err := playMode(res.GameID, cfg)
		if err != nil || !back {
			return err
		}
	}
}

func playMode(id string, cfg core.RuntimeConfig) (bool, error) {
	game, err := registry.Create(id)
	if err != nil {
		return false, err
	}
	logger.Info("game started", "mode", id, "seed", cfg.Seed, "fps", cfg.TickRate)
	back, err := tui.Run(game, cfg)
	if err != nil {
		return false, fmt.Errorf("running game: %w", err)
	}
	return back, nil
}
