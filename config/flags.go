package config

import (
	"github.com/spf13/pflag"
)

// BindFlags registers the configuration fields on the flag set. Flags parsed
// after Load and ApplyEnv override both.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.Float64Var(&c.Effect.EARThreshold, "ear-threshold", c.Effect.EARThreshold, "eye aspect ratio under which the eyes count as closed")
	fs.IntVar(&c.Effect.BlurStep, "blur-step", c.Effect.BlurStep, "blur radius in pixels added per blink")
	fs.IntVar(&c.Effect.MaxBlur, "max-blur", c.Effect.MaxBlur, "blur radius cap in pixels")
	fs.Float64Var(&c.Effect.FadeStep, "fade-step", c.Effect.FadeStep, "overlay opacity added per blink")

	fs.IntVar(&c.Render.Width, "width", c.Render.Width, "render surface width")
	fs.IntVar(&c.Render.Height, "height", c.Render.Height, "render surface height")
	fs.IntVar(&c.Render.FPS, "fps", c.Render.FPS, "render refresh rate")
	fs.StringVar(&c.Render.Blur, "blur", c.Render.Blur, "blur backend: stack or gaussian")

	fs.BoolVar(&c.Gate.Enabled, "face-gate", c.Gate.Enabled, "drop landmarks on frames where pigo finds no face")
	fs.StringVar(&c.Gate.Cascade, "face-cascade", c.Gate.Cascade, "pigo facefinder cascade path or URL")
	fs.Float32Var(&c.Gate.MinQuality, "face-quality", c.Gate.MinQuality, "minimum pigo detection quality")

	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")
}

// ApplyFlags copies the values of the flags explicitly set on fs into c.
// It lets a config loaded after flag parsing keep command line overrides.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	own := pflag.NewFlagSet("config", pflag.ContinueOnError)
	c.BindFlags(own)

	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil || own.Lookup(f.Name) == nil {
			return
		}
		err = own.Set(f.Name, f.Value.String())
	})
	return err
}
