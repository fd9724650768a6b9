// Package logging sets up the go-belt logger shared by the CLI and the browser build.
package logging

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
)

// WithLogger returns a context carrying a logrus backed logger at the given
// level. The logger also becomes logger.Default, so code running on a
// context without a logger uses the same level.
func WithLogger(ctx context.Context, level string) (context.Context, error) {
	lvl := logger.LevelInfo
	if err := lvl.Set(level); err != nil {
		return ctx, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	l := logrus.Default().WithLevel(lvl)
	logger.Default = func() logger.Logger {
		return l
	}
	return logger.CtxWithLogger(ctx, l), nil
}
