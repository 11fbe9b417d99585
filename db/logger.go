package db

import (
	"context"
	"fmt"
	"time"

	"github.com/JoshSmithXRM/tablekit/logger"
	"go.uber.org/zap"
	glogger "gorm.io/gorm/logger"
)

// gormLogger adapts the toolkit logger to GORM's logger.Interface so the
// SQL issued by the record provider lands in the same structured stream as
// the rest of the module.
type gormLogger struct {
	logger        logger.Logger
	level         glogger.LogLevel
	slowThreshold time.Duration
}

func (g *gormLogger) enabled(level glogger.LogLevel) bool {
	return g.level >= level
}

// LogMode returns a copy of the logger at the given level
func (g *gormLogger) LogMode(level glogger.LogLevel) glogger.Interface {
	return &gormLogger{
		logger:        g.logger,
		level:         level,
		slowThreshold: g.slowThreshold,
	}
}

func (g *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if g.enabled(glogger.Info) {
		g.logger.Info(fmt.Sprintf(msg, data...), zap.String("component", "gorm"))
	}
}

func (g *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if g.enabled(glogger.Warn) {
		g.logger.Warn(fmt.Sprintf(msg, data...), zap.String("component", "gorm"))
	}
}

func (g *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if g.enabled(glogger.Error) {
		g.logger.Error(fmt.Sprintf(msg, data...), zap.String("component", "gorm"))
	}
}

// Trace logs one executed statement with its timing and row count. Failed
// statements log at error, statements over the slow threshold at warn,
// everything else at info.
func (g *gormLogger) Trace(
	ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error,
) {
	if g.level <= glogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := []zap.Field{
		zap.String("component", "gorm"),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}

	switch {
	case err != nil && g.enabled(glogger.Error):
		g.logger.Error("sql error", append(fields, zap.Error(err))...)
	case g.slowThreshold != 0 && elapsed > g.slowThreshold && g.enabled(glogger.Warn):
		g.logger.Warn("slow sql", append(fields, zap.Duration("threshold", g.slowThreshold))...)
	case g.enabled(glogger.Info):
		g.logger.Info("sql trace", fields...)
	}
}
