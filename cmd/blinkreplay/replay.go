package main

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/esimov/blinkfade/config"
	"github.com/esimov/blinkfade/detector"
	"github.com/esimov/blinkfade/render"
	"github.com/esimov/blinkfade/session"
	"github.com/esimov/blinkfade/source"
	"github.com/esimov/blinkfade/trace"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/cobra"
)

var outDir string

var replayCmd = &cobra.Command{
	Use:   "replay <trace.jsonl>",
	Short: "Run a landmark trace through a blink session",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	replayCmd.Flags().StringVarP(&outDir, "out", "o", "", "directory to write the painted frames to")
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, err := withLogger(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	player, err := trace.Open(args[0])
	if err != nil {
		return err
	}
	logger.Debugf(ctx, "loaded %d frames from %s", player.Len(), args[0])

	provider, err := newProvider(ctx, cfg, player)
	if err != nil {
		return err
	}

	blur, err := render.BlurBackend(cfg.Render.Blur)
	if err != nil {
		return err
	}
	surface := render.NewImageSurface(cfg.Render.Width, cfg.Render.Height, blur)

	s, err := session.New(cfg.Effect)
	if err != nil {
		return err
	}

	params := session.RunParams{
		Source:   player,
		Provider: provider,
		Surface:  surface,
		FPS:      cfg.Render.FPS,
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("failed creating the output directory: %w", err)
		}
		var painted int
		params.OnPaint = func(ctx context.Context, frame source.Frame) error {
			painted++
			path := filepath.Join(outDir, fmt.Sprintf("paint_%05d.png", painted))
			logger.Tracef(ctx, "writing frame %d to %s", frame.Seq, path)
			return writePNG(path, surface)
		}
	}

	if err := s.Run(ctx, params); err != nil {
		return err
	}

	st, stats := s.State(), s.Stats()
	fmt.Fprintf(cmd.OutOrStdout(),
		"session %s: %d frames, %d skipped, %d blinks, blur level %d (%dpx), fade %.2f\n",
		s.ID, stats.Frames, stats.Skipped, stats.Blinks, st.BlurLevel, s.BlurRadius(), st.FadeProgress,
	)
	return nil
}

// newProvider returns the trace itself, wrapped by the pigo face gate when enabled.
func newProvider(ctx context.Context, cfg *config.Config, player *trace.Player) (session.LandmarkProvider, error) {
	if !cfg.Gate.Enabled {
		return player, nil
	}

	cascade, err := detector.LoadCascade(ctx, cfg.Gate.Cascade)
	if err != nil {
		return nil, err
	}
	det := detector.NewDetector()
	if err := det.UnpackCascades(cascade); err != nil {
		return nil, err
	}
	logger.Infof(ctx, "face gate enabled with minimum quality %v", cfg.Gate.MinQuality)

	return &detector.Gate{
		Finder:     det,
		Provider:   player,
		MinQuality: cfg.Gate.MinQuality,
	}, nil
}

func writePNG(path string, surface *render.ImageSurface) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, surface.Image()); err != nil {
		f.Close()
		return fmt.Errorf("failed encoding %s: %w", path, err)
	}
	return f.Close()
}
