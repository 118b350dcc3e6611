package syntax

import (
	"fmt"

	"github.com/llehouerou/go-latm/internal/bits"
)

// Frame length types (frameLengthType in StreamMuxConfig).
//
// Source: ISO/IEC 14496-3 Table 1.41
const (
	FrameLengthVariable   uint8 = 0 // payload length coded in PayloadLengthInfo
	FrameLengthFixed      uint8 = 1 // payload length fixed by frameLength
	FrameLengthCELPFixed  uint8 = 3 // CELP, fixed frame length
	FrameLengthCELPOneOf2 uint8 = 4 // CELP, one of two lengths
	FrameLengthCELPOneOf4 uint8 = 5 // CELP, one of four lengths
	FrameLengthHVXCFixed  uint8 = 6 // HVXC, fixed frame length
	FrameLengthHVXCOneOf4 uint8 = 7 // HVXC, one of four lengths
)

// fixedFrameLengthOffset is added to frameLength to get the payload size in
// bytes for frameLengthType 1.
const fixedFrameLengthOffset = 20

// StreamMuxConfig holds the LATM multiplex configuration for a single
// program with a single layer.
//
// Source: ISO/IEC 14496-3 Table 1.42
type StreamMuxConfig struct {
	AudioMuxVersion    uint8
	AudioMuxVersionA   uint8
	TaraBufferFullness uint32 // audioMuxVersion 1 only

	AllStreamsSameTimeFraming bool
	NumSubFrames              uint8
	NumProgram                uint8
	NumLayer                  uint8

	Audio *AudioConfig

	FrameLengthType    uint8
	LatmBufferFullness uint8  // frameLengthType 0
	FrameLength        uint16 // frameLengthType 1
	CELPTableIndex     uint8  // frameLengthType 3, 4, 5
	HVXCTableIndex     uint8  // frameLengthType 6, 7

	OtherDataPresent bool
	OtherDataLenBits uint32

	CRCCheckPresent bool
	CRCCheckSum     uint8 // stored, not verified
}

// LatmGetValue reads an escaped length: a 2-bit count of extra bytes
// followed by that many plus one bytes, most significant first.
//
// Source: ISO/IEC 14496-3 Table 1.43 (LatmGetValue)
func LatmGetValue(r *bits.Reader) uint32 {
	bytesForValue := r.GetBits(2)
	var value uint32
	for i := uint32(0); i <= bytesForValue; i++ {
		value = value<<8 | r.GetBits(8)
	}
	return value
}

// ParseStreamMuxConfig parses a StreamMuxConfig.
//
// Streams using audioMuxVersionA 1, more than one program or more than one
// layer return ErrUnsupported. Errors wrap bits.ErrTruncated when r runs
// out of data.
func ParseStreamMuxConfig(r *bits.Reader) (*StreamMuxConfig, error) {
	smc := &StreamMuxConfig{}

	smc.AudioMuxVersion = r.Get1Bit()
	if smc.AudioMuxVersion == 1 {
		smc.AudioMuxVersionA = r.Get1Bit()
	}
	if smc.AudioMuxVersionA != 0 {
		return nil, fmt.Errorf("%w: audioMuxVersionA %d", ErrUnsupported, smc.AudioMuxVersionA)
	}

	if smc.AudioMuxVersion == 1 {
		smc.TaraBufferFullness = LatmGetValue(r)
	}

	smc.AllStreamsSameTimeFraming = r.GetBool()
	smc.NumSubFrames = uint8(r.GetBits(6))
	smc.NumProgram = uint8(r.GetBits(4))
	if smc.NumProgram != 0 {
		return nil, fmt.Errorf("%w: %d programs", ErrUnsupported, smc.NumProgram+1)
	}
	smc.NumLayer = uint8(r.GetBits(3))
	if smc.NumLayer != 0 {
		return nil, fmt.Errorf("%w: %d layers", ErrUnsupported, smc.NumLayer+1)
	}

	if err := parseLayerConfig(smc, r); err != nil {
		return nil, err
	}

	smc.OtherDataPresent = r.GetBool()
	if smc.OtherDataPresent {
		if smc.AudioMuxVersion == 1 {
			smc.OtherDataLenBits = LatmGetValue(r)
		} else {
			for {
				esc := r.GetBool()
				smc.OtherDataLenBits = smc.OtherDataLenBits<<8 | r.GetBits(8)
				if !esc {
					break
				}
			}
		}
	}

	smc.CRCCheckPresent = r.GetBool()
	if smc.CRCCheckPresent {
		smc.CRCCheckSum = uint8(r.GetBits(8))
	}

	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("StreamMuxConfig: %w", err)
	}
	return smc, nil
}

// parseLayerConfig parses the AudioSpecificConfig and frame length fields of
// the single layer.
func parseLayerConfig(smc *StreamMuxConfig, r *bits.Reader) error {
	if smc.AudioMuxVersion == 0 {
		asc, _, err := ParseAudioSpecificConfig(r)
		if err != nil {
			return err
		}
		smc.Audio = asc
	} else {
		ascLen := uint(LatmGetValue(r))
		asc, used, err := ParseAudioSpecificConfig(r)
		if err != nil {
			return err
		}
		smc.Audio = asc
		if ascLen > used {
			r.FlushBits(ascLen - used) // fill bits
		}
	}

	smc.FrameLengthType = uint8(r.GetBits(3))
	switch smc.FrameLengthType {
	case FrameLengthVariable:
		smc.LatmBufferFullness = uint8(r.GetBits(8))
	case FrameLengthFixed:
		smc.FrameLength = uint16(r.GetBits(9))
	case FrameLengthCELPFixed, FrameLengthCELPOneOf2, FrameLengthCELPOneOf4:
		smc.CELPTableIndex = uint8(r.GetBits(6))
	case FrameLengthHVXCFixed, FrameLengthHVXCOneOf4:
		smc.HVXCTableIndex = uint8(r.GetBits(1))
	}
	return nil
}
