package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// RotationOptions tunes the rotating file writer. Zero values fall back to
// the defaults below.
type RotationOptions struct {
	Dir        string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

func (o RotationOptions) withDefaults() RotationOptions {
	cpy := o
	if cpy.Dir == "" {
		cpy.Dir = "./logs"
	}
	if cpy.MaxSize == 0 {
		cpy.MaxSize = 50 // megabytes per file before rotation
	}
	if cpy.MaxBackups == 0 {
		cpy.MaxBackups = 5
	}
	if cpy.MaxAge == 0 {
		cpy.MaxAge = 14 // days
	}
	return cpy
}

func filenameForComponent(component string) string {
	if component == "" {
		return "astatine.log"
	}
	return fmt.Sprintf("%s.log", component)
}

func NewRotatingFileLogger(
	debug bool,
	component string,
	filename string,
	opts RotationOptions,
) (
	*zap.Logger,
	io.Closer,
	error,
) {
	opts = opts.withDefaults()
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, nil, err
	}

	if filename == "" {
		filename = filenameForComponent(component)
	}

	path := filepath.Join(opts.Dir, filename)

	rot := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    opts.MaxSize,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAge,
		Compress:   opts.Compress,
	}

	encCfg := zap.NewProductionEncoderConfig()
	if debug {
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	enc := zapcore.NewConsoleEncoder(encCfg)

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	ws := zapcore.AddSync(rot)
	core := zapcore.NewCore(enc, ws, level)
	logger := zap.New(core, zap.AddCaller())
	if component != "" {
		logger = logger.With(zap.String("component", component))
	}

	return logger, rot, nil
}
