package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// scopedCore enforces its own minimum level instead of the global one.
type scopedCore struct {
	zapcore.Core

	// level is the minimum level this core writes.
	level zapcore.Level
}

// Enabled implements zapcore.LevelEnabler.
func (c *scopedCore) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l)
}

// Check implements zapcore.Core.
//
//nolint:gocritic // AddCore requires ent to be passed by value.
func (c *scopedCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(ent.Level) {
		return ce
	}

	return ce.AddCore(ent, c)
}

// With implements zapcore.Core and keeps the scoped level.
//
//nolint:ireturn,nolintlint // Returning zapcore.Core is intended for zap integration.
func (c *scopedCore) With(fields []zapcore.Field) zapcore.Core {
	return &scopedCore{Core: c.Core.With(fields), level: c.level}
}

// WithLevel is a zap option that makes a logger ignore the global level and
// use lvl instead, in either direction.
//
//nolint:ireturn,nolintlint // Returning zap.Option is intended for zap integration.
func WithLevel(lvl zapcore.Level) zap.Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &scopedCore{Core: core, level: lvl}
	})
}

// WithScopedLevel returns a context whose logger writes at lvl and above,
// whatever the global level is. alarm-ctl uses it for --verbose.
func WithScopedLevel(ctx context.Context, lvl zapcore.Level) context.Context {
	return ToContext(ctx, FromContext(ctx).WithOptions(WithLevel(lvl)))
}
