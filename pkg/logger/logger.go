package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InfoLogger — общий логгер процесса. До Init это no-op, чтобы пакеты можно было тестировать без настройки.
var InfoLogger = zap.NewNop()

type Config struct {
	File  string // append-only файл; пусто — только stdout
	Level string
}

// EncoderConfig даёт строки вида "<ISO-timestamp> - <LEVEL> - <message>".
func EncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " - ",
	}
}

// Init собирает tee stdout + файл и подменяет InfoLogger. Возвращает функцию закрытия файла.
func Init(conf Config) (func(), error) {
	level := parseLevel(conf.Level)
	enc := zapcore.NewConsoleEncoder(EncoderConfig())

	cores := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.Lock(os.Stdout), level),
	}

	closeFn := func() {}
	if conf.File != "" {
		f, err := os.OpenFile(conf.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", conf.File, err)
		}
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(f), level))
		closeFn = func() { _ = f.Close() }
	}

	InfoLogger = zap.New(zapcore.NewTee(cores...))
	return func() {
		_ = InfoLogger.Sync()
		closeFn()
	}, nil
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func Debug(format string, args ...interface{}) {
	InfoLogger.Debug(fmt.Sprintf(format, args...))
}

func Info(format string, args ...interface{}) {
	InfoLogger.Info(fmt.Sprintf(format, args...))
}

func Warn(format string, args ...interface{}) {
	InfoLogger.Warn(fmt.Sprintf(format, args...))
}

func Error(format string, args ...interface{}) {
	InfoLogger.Error(fmt.Sprintf(format, args...))
}

func Fatal(format string, args ...interface{}) {
	InfoLogger.Fatal(fmt.Sprintf(format, args...))
}
