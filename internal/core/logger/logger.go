package logger

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"duso-api/internal/core/config"
)

// New builds the process logger from the Log config section: console or
// JSON encoding, stdout always, optional rotated file sink.
func New(cfg config.Log) (*zap.Logger, func()) {
	var lvl zapcore.Level
	if err := lvl.Set(cfg.Level); err != nil {
		lvl = zapcore.InfoLevel
	}

	var enc zapcore.Encoder
	if cfg.JSON {
		c := zap.NewProductionEncoderConfig()
		c.EncodeTime = zapcore.ISO8601TimeEncoder
		c.TimeKey = "ts"
		c.EncodeCaller = zapcore.ShortCallerEncoder
		enc = zapcore.NewJSONEncoder(c)
	} else {
		c := zap.NewDevelopmentEncoderConfig()
		c.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
		c.EncodeLevel = zapcore.CapitalColorLevelEncoder
		c.EncodeCaller = zapcore.ShortCallerEncoder
		enc = zapcore.NewConsoleEncoder(c)
	}

	sinks := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), lvl),
	}

	if cfg.File.Enable {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    max(1, cfg.File.MaxSizeMB),
			MaxBackups: max(0, cfg.File.MaxBackups),
			MaxAge:     max(0, cfg.File.MaxAgeDays),
			Compress:   cfg.File.Compress,
		}
		sinks = append(sinks, zapcore.NewCore(enc, zapcore.AddSync(rotWriter{rotator}), lvl))
	}

	core := zapcore.NewSamplerWithOptions(zapcore.NewTee(sinks...), time.Second, 100, 100)

	opts := []zap.Option{zap.AddCaller()}
	if !cfg.JSON {
		opts = append(opts, zap.Development())
	}
	l := zap.New(core, opts...)
	return l, func() { _ = l.Sync() }
}

type rotWriter struct{ *lumberjack.Logger }

func (w rotWriter) Write(p []byte) (int, error) { return w.Logger.Write(p) }
func (w rotWriter) Sync() error                 { return nil }
