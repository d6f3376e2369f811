package logger

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is a no-op logger until InitLogger replaces it, so packages can log
// unconditionally (including under test).
var (
	Log = zap.NewNop()
)

type Config struct {
	Level      string
	Filename   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
	// Console switches stdout to a human readable encoder; the rotated file
	// always receives JSON.
	Console bool
}

// InitLogger initializes the global logger
func InitLogger(cfg *Config) error {
	var level = new(zapcore.Level)
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return err
	}

	fileCore := zapcore.NewCore(jsonEncoder(), fileWriter(cfg), level)

	stdoutEncoder := jsonEncoder()
	if cfg.Console {
		stdoutEncoder = consoleEncoder()
	}
	stdoutCore := zapcore.NewCore(stdoutEncoder, zapcore.AddSync(os.Stdout), level)

	Log = zap.New(zapcore.NewTee(stdoutCore, fileCore), zap.AddCaller())
	zap.ReplaceGlobals(Log)

	return nil
}

func jsonEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}

func consoleEncoder() zapcore.Encoder {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func fileWriter(cfg *Config) zapcore.WriteSyncer {
	rotating := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	return &zapcore.BufferedWriteSyncer{
		WS:            zapcore.AddSync(rotating),
		Size:          256 * 1024,
		FlushInterval: 5 * time.Second,
	}
}

// Named returns a child of the global logger tagged with a component name.
func Named(component string) *zap.Logger {
	return Log.Named(component)
}

// Sync flushes any buffered log entries
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
