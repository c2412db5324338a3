// Package logging builds the zap logger used by the command line.
package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/phobologic/funcatalog/internal/config"
)

// New returns a logger writing to w at the configured level, with a console
// or JSON encoder.
func New(conf config.Log, w io.Writer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(conf.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	var enc zapcore.Encoder
	switch conf.Format {
	case "json":
		enc = jsonEncoder()
	case "console", "":
		enc = consoleEncoder()
	default:
		return nil, fmt.Errorf("unsupported log format %q", conf.Format)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return zap.New(core), nil
}

func jsonEncoder() zapcore.Encoder {
	conf := zap.NewProductionEncoderConfig()
	conf.CallerKey = ""
	conf.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(conf)
}

func consoleEncoder() zapcore.Encoder {
	conf := zap.NewDevelopmentEncoderConfig()
	conf.CallerKey = ""
	conf.TimeKey = ""
	return zapcore.NewConsoleEncoder(conf)
}
