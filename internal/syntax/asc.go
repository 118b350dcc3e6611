package syntax

import (
	"bytes"
	"fmt"

	"github.com/llehouerou/go-latm/internal/bits"
	"github.com/llehouerou/go-latm/internal/tables"
)

// MaxExtradataSize is the largest re-serialized AudioSpecificConfig. A GA
// config with an explicit rate, a core coder delay and a program config
// carrying every element it can declare fits in 57 bytes once the comment
// is dropped.
const MaxExtradataSize = 64

// implicitSBRMaxRate is the highest core sample rate that is doubled when SBR
// is not signalled explicitly.
const implicitSBRMaxRate = 24000

// AudioConfig holds a parsed AudioSpecificConfig.
//
// Extradata is a normalized copy of the config, suitable for initializing a
// decoder. It is only valid after a successful parse.
//
// Source: ISO/IEC 14496-3 Table 1.15 (AudioSpecificConfig),
// Table 4.1 (GASpecificConfig)
type AudioConfig struct {
	ObjectType             tables.ObjectType
	SamplingFrequencyIndex uint8
	SamplingFrequency      uint32 // Hz, after implicit SBR doubling
	ChannelConfiguration   uint8
	Channels               uint8

	// GA Specific Info
	FrameLengthFlag    bool
	DependsOnCoreCoder bool
	CoreCoderDelay     uint16
	ExtensionFlag      bool
	LayerNr            uint8

	// ProgramConfig is set when channelConfiguration is 0.
	ProgramConfig *ProgramConfig

	// SBRPresent is set when SBR is signalled explicitly (object type 5).
	// The SBR specific fields themselves are not parsed.
	SBRPresent bool

	Extradata     []byte
	ExtradataBits uint
}

// SameExtradata reports whether both configs would initialize a decoder
// identically.
func (c *AudioConfig) SameExtradata(other *AudioConfig) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.ExtradataBits == other.ExtradataBits && bytes.Equal(c.Extradata, other.Extradata)
}

// ParseAudioSpecificConfig parses an AudioSpecificConfig and re-serializes it
// into AudioConfig.Extradata. It returns the number of bits consumed from r,
// which lets the caller skip trailing fill bits exactly.
//
// Errors wrap bits.ErrTruncated when r runs out of data. Unknown object
// types are accepted; only their common header is parsed.
func ParseAudioSpecificConfig(r *bits.Reader) (*AudioConfig, uint, error) {
	start := r.GetProcessedBits()
	w := bits.NewWriter(MaxExtradataSize)
	cfg := &AudioConfig{}

	// 5 bits: audioObjectType, 31 escapes to 32 + 6-bit extension
	ot := r.GetBits(5)
	w.PutBits(ot, 5)
	if tables.ObjectType(ot) == tables.ObjectTypeEscape {
		ext := r.GetBits(6)
		w.PutBits(ext, 6)
		ot = uint32(tables.ObjectTypeEscapeFirst) + ext
	}
	cfg.ObjectType = tables.ObjectType(ot)

	// 4 bits: samplingFrequencyIndex, 0x0F means an explicit 24-bit rate
	cfg.SamplingFrequencyIndex = uint8(r.GetBits(4))
	w.PutBits(uint32(cfg.SamplingFrequencyIndex), 4)
	cfg.SamplingFrequency = tables.GetSampleRate(cfg.SamplingFrequencyIndex)
	if cfg.SamplingFrequencyIndex == tables.ExplicitFrequencyIndex {
		cfg.SamplingFrequency = r.GetBits(24)
		w.PutBits(cfg.SamplingFrequency, 24)
	}

	// 4 bits: channelConfiguration
	cfg.ChannelConfiguration = uint8(r.GetBits(4))
	w.PutBits(uint32(cfg.ChannelConfiguration), 4)
	cfg.Channels = tables.GetChannelCount(cfg.ChannelConfiguration)

	// Explicit SBR: the extension sampling frequency and the underlying
	// object type that follow are left to the decoder.
	if cfg.ObjectType == tables.ObjectTypeSBR {
		cfg.SBRPresent = true
	}

	if cfg.ObjectType.IsGeneralAudio() {
		parseGASpecificConfig(cfg, r, w, start)
	}

	if !cfg.SBRPresent && cfg.SamplingFrequency <= implicitSBRMaxRate {
		cfg.SamplingFrequency *= 2
	}

	if err := r.Err(); err != nil {
		return nil, 0, fmt.Errorf("AudioSpecificConfig: %w", err)
	}

	cfg.ExtradataBits = w.Count()
	cfg.Extradata = bytes.Clone(w.Bytes())
	if err := w.Err(); err != nil {
		return nil, 0, fmt.Errorf("AudioSpecificConfig: %w", err)
	}

	return cfg, r.GetProcessedBits() - start, nil
}

// parseGASpecificConfig parses GASpecificConfig. The extension regions are
// skipped and not written to the extradata.
//
// Source: ISO/IEC 14496-3 Table 4.1
func parseGASpecificConfig(cfg *AudioConfig, r *bits.Reader, w *bits.Writer, start uint) {
	cfg.FrameLengthFlag = r.GetBool()
	w.PutBits(b2u(cfg.FrameLengthFlag), 1)

	cfg.DependsOnCoreCoder = r.GetBool()
	w.PutBits(b2u(cfg.DependsOnCoreCoder), 1)
	if cfg.DependsOnCoreCoder {
		cfg.CoreCoderDelay = uint16(r.GetBits(14))
		w.PutBits(uint32(cfg.CoreCoderDelay), 14)
	}

	cfg.ExtensionFlag = r.GetBool()
	w.PutBits(b2u(cfg.ExtensionFlag), 1)

	if cfg.ChannelConfiguration == 0 {
		cfg.ProgramConfig = parseProgramConfig(r, w, start)
		cfg.Channels = cfg.ProgramConfig.Channels
	}

	if cfg.ObjectType.HasLayerNr() {
		cfg.LayerNr = uint8(r.GetBits(3))
		w.PutBits(uint32(cfg.LayerNr), 3)
	}

	if !cfg.ExtensionFlag {
		return
	}

	if cfg.ObjectType == tables.ObjectTypeERBSAC {
		r.FlushBits(5)  // numOfSubFrame
		r.FlushBits(11) // layer_length
	}

	switch cfg.ObjectType {
	case tables.ObjectTypeERLC, tables.ObjectTypeERLTP,
		tables.ObjectTypeERScalable, tables.ObjectTypeERLD:
		r.FlushBits(3) // section, scalefactor and spectral data resilience flags
	}

	r.FlushBits(1) // extensionFlag3
}

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
