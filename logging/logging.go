// Package logging builds the process-wide structured logger. The teacher
// pulls in go.uber.org/zap only indirectly (through its pingcap/tidb
// dependency chain) and otherwise logs with fmt.Println; this module
// promotes zap to a direct dependency. The engine holds the logger and
// uses it to warn about joins planned as cross products.
package logging

import (
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls where and how verbosely the logger writes. A nil
// *Options from New() gives sane interactive defaults (info level,
// stderr only, no file rotation).
type Options struct {
	// LogFilePath, when non-empty, adds a rotating file sink alongside
	// stderr via lumberjack — present in the teacher's go.mod as an
	// indirect dependency of its own logging setup.
	LogFilePath string
	MaxSizeMB   int
	MaxBackups  int
	Debug       bool
}

// New builds a *zap.Logger. Never returns an error: the stderr sink is
// always present, and when LogFilePath is set a lumberjack file sink is
// added beside it without checking that the file can be opened.
func New(opts *Options) *zap.Logger {
	if opts == nil {
		opts = &Options{}
	}
	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(os.Stderr)), level),
	}
	if opts.LogFilePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.LogFilePath,
			MaxSize:    maxOr(opts.MaxSizeMB, 50),
			MaxBackups: maxOr(opts.MaxBackups, 3),
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotator), level))
	}

	return zap.New(zapcore.NewTee(cores...))
}

func maxOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
