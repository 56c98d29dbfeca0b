package goCred

import (
	"go.uber.org/zap"

	"github.com/MrEthical07/goCred/internal/audit"
)

// AuditEvent is one credential audit record. Events never carry passwords,
// salts, tokens or the identifier typed at login.
type AuditEvent = audit.Event

// AuditSink receives audit events from the engine's dispatcher goroutine.
type AuditSink = audit.Sink

// NoOpSink drops audit events.
type NoOpSink = audit.NoOpSink

// ChannelSink buffers audit events in a channel read through Events.
type ChannelSink = audit.ChannelSink

// NewChannelSink returns a ChannelSink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewZapAuditSink writes audit events as structured zap entries.
func NewZapAuditSink(logger *zap.Logger) AuditSink {
	return audit.NewZapSink(logger)
}
