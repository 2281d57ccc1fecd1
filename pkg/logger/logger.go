package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	global *zap.Logger
	once   sync.Once
)

// Init 初始化全局日志器
// 开发环境使用彩色控制台输出，生产环境使用JSON结构化日志
func Init(production bool) *zap.Logger {
	once.Do(func() {
		var cfg zap.Config
		if production {
			cfg = zap.NewProductionConfig()
		} else {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}

		l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
		if err != nil {
			panic(err)
		}
		global = l
	})
	return global
}

// L 返回全局日志器（未初始化时退回 zap.NewNop，方便测试）
func L() *zap.Logger {
	if global == nil {
		return zap.NewNop()
	}
	return global
}

// Sync flushes any buffered log entries.
func Sync() {
	if global != nil {
		_ = global.Sync()
	}
}
