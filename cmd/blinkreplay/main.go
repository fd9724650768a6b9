// Command blinkreplay replays recorded landmark traces through the blink
// effect and renders the result, which helps tuning the thresholds offline.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/esimov/blinkfade/config"
	"github.com/esimov/blinkfade/logging"
	"github.com/facebookincubator/go-belt"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	cfgFlags   = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "blinkreplay",
	Short: "Replay landmark traces through the blink fade effect",
	Long: `blinkreplay feeds recorded (or synthetic) face landmark traces to the
blink detector, ratchets the blur and fade effect on every blink and
optionally writes the painted frames as PNG files.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initEnv)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	cfgFlags.BindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(replayCmd, synthCmd)
}

func initEnv() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// loadConfig merges the defaults, the config file, the environment and the
// explicitly set flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withLogger returns a context carrying a logrus backed logger at the configured level.
func withLogger(ctx context.Context, cfg *config.Config) (context.Context, error) {
	return logging.WithLogger(ctx, cfg.LogLevel)
}

func main() {
	ctx := context.Background()
	err := rootCmd.ExecuteContext(ctx)
	belt.Flush(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
