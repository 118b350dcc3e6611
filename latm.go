package latm

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/llehouerou/go-latm/internal/syntax"
	"github.com/llehouerou/go-latm/internal/tables"
)

// ObjectType is an MPEG-4 audio object type.
type ObjectType = tables.ObjectType

// Audio object types commonly carried in LATM.
const (
	ObjectTypeMain  = tables.ObjectTypeMain
	ObjectTypeLC    = tables.ObjectTypeLC
	ObjectTypeLTP   = tables.ObjectTypeLTP
	ObjectTypeSBR   = tables.ObjectTypeSBR
	ObjectTypeERLC  = tables.ObjectTypeERLC
	ObjectTypeERLD  = tables.ObjectTypeERLD
	ObjectTypePS    = tables.ObjectTypePS
	ObjectTypeERLTP = tables.ObjectTypeERLTP
)

// AudioConfig is a parsed AudioSpecificConfig together with the extradata
// used to open the decoder.
type AudioConfig = syntax.AudioConfig

// StreamMuxConfig is the LATM multiplex configuration in effect.
type StreamMuxConfig = syntax.StreamMuxConfig

// Mode is the synchronization mode of a Parser.
type Mode uint8

// Synchronization modes.
const (
	ModeSeeking Mode = iota // scanning for the syncword
	ModeLocked              // parsing elements back to back
)

func (m Mode) String() string {
	switch m {
	case ModeSeeking:
		return "seeking"
	case ModeLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// DefaultBufferSize is the default accumulation buffer capacity in bytes.
const DefaultBufferSize = 8 * 1024

// DefaultChannel is the metrics label used when Config.Channel is empty.
const DefaultChannel = "default"

// Config contains Parser and Session options. The zero value is usable.
type Config struct {
	// BufferSize is the accumulation buffer capacity. 0 means
	// DefaultBufferSize.
	BufferSize int

	// Logger receives sync and decoder lifecycle events. nil disables
	// logging.
	Logger *zap.Logger

	// Registerer receives the channel's metrics. nil keeps them in a
	// private registry.
	Registerer prometheus.Registerer

	// Channel labels the metrics of this channel.
	Channel string

	// DisableReopen keeps the decoder opened with the first configuration
	// even when a later StreamMuxConfig changes it.
	DisableReopen bool
}

func (c Config) withDefaults() Config {
	if c.BufferSize <= 0 {
		c.BufferSize = DefaultBufferSize
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Channel == "" {
		c.Channel = DefaultChannel
	}
	return c
}

// Stats are running counters of a Parser.
type Stats struct {
	Payloads      uint64 // payloads returned by Next
	Resyncs       uint64 // lock losses
	SkippedBytes  uint64 // bytes skipped while seeking
	DroppedBytes  uint64 // unconsumed bytes dropped by a full buffer
	ConfigChanges uint64 // StreamMuxConfigs that changed the extradata
	Unsupported   uint64 // elements using an unsupported LATM variant
}
