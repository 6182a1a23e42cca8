// t2048 is a terminal 2048 with tile-identity animation.
//
// Usage:
//
//	t2048 list              - List available modes
//	t2048 play [mode]       - Play a mode (menu when omitted)
//	t2048 serve             - Start SSH server for remote play
//	t2048 simulate          - Play headless random games and check the engine
//
// Global flags (also read from T2048_* environment variables):
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--config <path>     - Custom game config YAML
//	--easy              - Always spawn a tile after every move
//	--log-level <lvl>   - debug, info, warn, error
//	--log-file <path>   - Write logs to a file
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vovakirdan/t2048/internal/core"
	"github.com/vovakirdan/t2048/internal/games/t2048"
)

// settings are the global options after flags and environment are merged.
type settings struct {
	FPS      int
	Seed     int64
	Config   string
	Easy     bool
	LogLevel string
	LogFile  string
}

var (
	v       = viper.New()
	opts    settings
	logger  *log.Logger
	logSink io.Closer
)

func main() {
	err := errors.Join(rootCmd.Execute(), closeLogSink())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// closeLogSink closes the log file opened by newLogger, if any.
func closeLogSink() error {
	if logSink == nil {
		return nil
	}
	err := logSink.Close()
	logSink = nil
	if err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 in your terminal",
	Long: `t2048 plays 2048 in the terminal. Every tile keeps its identity from move
to move, so slides, merges and spawns are animated one result at a time.

Available commands:
  list      - Show available modes
  play      - Play a mode (opens the mode menu without an argument)
  serve     - Start SSH server for remote play
  simulate  - Play headless random games and verify the engine

Examples:
  t2048 play
  t2048 play 2048_easy
  t2048 play --seed 42 --fps 30
  T2048_EASY=true t2048 play 2048
  t2048 serve --ssh :2222
  t2048 simulate --games 100`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		opts, err = loadSettings(v)
		if err != nil {
			return err
		}
		logger, err = newLogger(opts, cmd.Name())
		if err != nil {
			return err
		}
		t2048.SetConfigPath(opts.Config)
		t2048.SetAlwaysSpawn(opts.Easy)
		t2048.SetLogger(logger)
		return nil
	},
}

func init() {
	fs := rootCmd.PersistentFlags()
	fs.Int("fps", core.DefaultConfig().TickRate, "Tick rate (frames per second)")
	fs.Int64("seed", 0, "RNG seed (0 = random based on time)")
	fs.String("config", "", "Path to custom game config YAML")
	fs.Bool("easy", false, "Always spawn a tile after every move")
	fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	fs.String("log-file", "", "Write logs to this file")

	if err := bindFlags(v, fs); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
}

// bindFlags makes every flag in fs readable through v, with T2048_ env
// variables (dashes become underscores) taking effect when the flag is unset.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	v.SetEnvPrefix("T2048")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v.BindPFlags(fs)
}

func loadSettings(v *viper.Viper) (settings, error) {
	s := settings{
		FPS:      v.GetInt("fps"),
		Seed:     v.GetInt64("seed"),
		Config:   v.GetString("config"),
		Easy:     v.GetBool("easy"),
		LogLevel: v.GetString("log-level"),
		LogFile:  v.GetString("log-file"),
	}
	if s.FPS <= 0 || s.FPS > 1000 {
		return s, fmt.Errorf("fps must be between 1 and 1000, got %d", s.FPS)
	}
	return s, nil
}

// newLogger builds the process logger. Interactive commands log nowhere
// unless a log file is given, since stderr belongs to the terminal UI.
func newLogger(s settings, command string) (*log.Logger, error) {
	level, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", s.LogLevel, err)
	}

	var w io.Writer = os.Stderr
	switch {
	case s.LogFile != "":
		f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logSink = f
		w = f
	case command == "play":
		w = io.Discard
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "t2048",
		Level:           level,
	}), nil
}
