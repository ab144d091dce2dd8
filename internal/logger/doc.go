// Package logger wraps zap for the alarm clock binaries.
//
// It keeps a global sugared console logger whose level can be changed at
// runtime, and context helpers (ToContext, FromContext, WithName, WithKV)
// so that the scheduler, transports and CLI log with scoped fields.
package logger
