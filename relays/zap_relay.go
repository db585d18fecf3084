package relays

import (
	relayDTO "github.com/joy-dx/relay/dto"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapRelay forwards relay events to a zap logger. Fatal events are logged at
// error level; a library never exits the process.
type ZapRelay struct {
	logger *zap.Logger
}

func NewZapRelay(logger *zap.Logger) *ZapRelay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapRelay{logger: logger}
}

func (r *ZapRelay) Debug(data relayDTO.RelayEventInterface) { r.log(zapcore.DebugLevel, data) }
func (r *ZapRelay) Info(data relayDTO.RelayEventInterface)  { r.log(zapcore.InfoLevel, data) }
func (r *ZapRelay) Warn(data relayDTO.RelayEventInterface)  { r.log(zapcore.WarnLevel, data) }
func (r *ZapRelay) Error(data relayDTO.RelayEventInterface) { r.log(zapcore.ErrorLevel, data) }
func (r *ZapRelay) Fatal(data relayDTO.RelayEventInterface) {
	r.log(zapcore.ErrorLevel, data, zap.Bool("fatal", true))
}
func (r *ZapRelay) Meta(data relayDTO.RelayEventInterface) { r.log(zapcore.DebugLevel, data) }

func (r *ZapRelay) log(level zapcore.Level, data relayDTO.RelayEventInterface, extra ...zap.Field) {
	if data == nil {
		return
	}
	ce := r.logger.Check(level, data.Message())
	if ce == nil {
		return
	}
	attrs := data.ToSlog()
	fields := make([]zap.Field, 0, len(attrs)+len(extra)+2)
	fields = append(fields,
		zap.String("channel", string(data.RelayChannel())),
		zap.String("type", string(data.RelayType())),
	)
	for _, a := range attrs {
		fields = append(fields, zap.Any(a.Key, a.Value.Resolve().Any()))
	}
	fields = append(fields, extra...)
	ce.Write(fields...)
}

// NopRelay discards every event.
type NopRelay struct{}

func (NopRelay) Debug(data relayDTO.RelayEventInterface) {}
func (NopRelay) Info(data relayDTO.RelayEventInterface)  {}
func (NopRelay) Warn(data relayDTO.RelayEventInterface)  {}
func (NopRelay) Error(data relayDTO.RelayEventInterface) {}
func (NopRelay) Fatal(data relayDTO.RelayEventInterface) {}
func (NopRelay) Meta(data relayDTO.RelayEventInterface)  {}
