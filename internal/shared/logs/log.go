package logs

import (
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"EmpireBuilder/internal/shared/serverconfig"
)

// 进程级 logger。Init 之前是 Nop，级别由 atomicLevel 统一控制，可热更新。
var (
	logger      = zap.NewNop()
	atomicLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func Logger() *zap.Logger {
	return logger
}

func parseLevel(s string) (zapcore.Level, bool) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return zapcore.InfoLevel, false
	}
	return lvl, true
}

// SetLevel 配置热更新时调用，无法解析时保持原级别并返回 false。
func SetLevel(level string) bool {
	lvl, ok := parseLevel(level)
	if ok {
		atomicLevel.SetLevel(lvl)
	}
	return ok
}

// Init 控制台输出彩色文本；配置了 file_dir 时另写一份 JSON 到 lumberjack 滚动文件。
func Init(appName string, cfg serverconfig.LogConfig) error {
	lvl, _ := parseLevel(cfg.Level)
	atomicLevel.SetLevel(lvl)

	// 2026-01-28T10:00:00.000+0800  INFO  empire  production sweep done  app/production.go:41
	enc := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	console := enc
	console.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(console), zapcore.Lock(os.Stderr), atomicLevel),
	}

	if cfg.FileDir != "" {
		file := enc
		file.EncodeLevel = zapcore.CapitalLevelEncoder
		rolling := &lumberjack.Logger{
			Filename:   cfg.FileDir,
			MaxSize:    max(1, cfg.MaxSize), // MB
			MaxBackups: max(0, cfg.MaxBackups),
			MaxAge:     max(0, cfg.MaxAge), // 天
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(file), zapcore.AddSync(rolling), atomicLevel))
	}

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Dev {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	} else {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	_ = logger.Sync()
	logger = zap.New(zapcore.NewTee(cores...), opts...).Named(appName)
	return nil
}

// Sync 退出前刷盘。stderr 上的 Sync 错误可以忽略。
func Sync() {
	_ = logger.Sync()
}

// 包级便捷函数走 logger.WithOptions(AddCallerSkip(1))，caller 指向业务调用处。

func Debug(msg string, fields ...zap.Field) { skip().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { skip().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { skip().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { skip().Error(msg, fields...) }

// Fatal 记录后 os.Exit(1)，只在 main 启动阶段使用。
func Fatal(msg string, fields ...zap.Field) { skip().Fatal(msg, fields...) }

func skip() *zap.Logger {
	return logger.WithOptions(zap.AddCallerSkip(1))
}
