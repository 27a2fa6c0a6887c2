package config

import (
	"io"

	"github.com/ardriveapp/astatine/utils/logging"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogConfig enables the rotating file logger. Zero fields take the defaults
// of the logging package.
type LogConfig struct {
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"maxSize"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAge     int    `yaml:"maxAge"`
	Compress   bool   `yaml:"compress"`
}

func (l *LogConfig) rotation() logging.RotationOptions {
	if l == nil {
		return logging.RotationOptions{}
	}
	return logging.RotationOptions{
		Dir:        l.Path,
		MaxSize:    l.MaxSize,
		MaxBackups: l.MaxBackups,
		MaxAge:     l.MaxAge,
		Compress:   l.Compress,
	}
}

// writesToFile reports whether logs go to a rotated file instead of stderr.
func (c *Config) writesToFile() bool {
	return c.LogFile != "" || c.Logger != nil
}

// CreateLogger builds the logger of one command. Every entry carries the
// component name. The returned closer releases the log file, if any.
func (c *Config) CreateLogger(component string, debug bool) (
	*zap.Logger,
	io.Closer,
	error,
) {
	if c.writesToFile() {
		logger, closer, err := logging.NewRotatingFileLogger(
			debug,
			component,
			c.LogFile,
			c.Logger.rotation(),
		)
		if err != nil {
			return nil, nil, errors.Wrap(err, "create logger")
		}
		return logger, closer, nil
	}

	zapConfig := zap.NewProductionConfig()
	if debug {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.EncoderConfig.TimeKey = "ts"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, nil, errors.Wrap(err, "create logger")
	}
	if component != "" {
		logger = logger.With(zap.String("component", component))
	}

	return logger, io.NopCloser(nil), nil
}
