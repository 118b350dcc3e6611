package syntax

import (
	"errors"
	"fmt"

	"github.com/llehouerou/go-latm/internal/bits"
)

// AudioSyncStream framing constants.
//
// Source: ISO/IEC 14496-3 Table 1.28
const (
	SyncWord     = 0x2B7 // 11 bits
	SyncWordBits = 11
	HeaderSize   = 3 // syncword + audioMuxLengthBytes
	MaxMuxLength = 1<<13 - 1
)

// MuxState is the multiplex state carried from one AudioMuxElement to the
// next. It is a value so a failed parse leaves the caller's copy untouched.
type MuxState struct {
	Config     *StreamMuxConfig // nil until the first StreamMuxConfig
	SlotLength int              // muxSlotLengthBytes of the last payload
}

// PayloadLengthInfo returns the payload length in bytes for the next
// payload, given the active config and the previous slot length.
//
// frameLengthType 0 sums bytes until one is below 255, so [255 255 10]
// is 520 and [5] is 5. frameLengthType 1 uses frameLength + 20.
// Types 3, 5 and 7 carry a 2-bit field that is read and ignored; they and
// all remaining types keep the previous slot length.
//
// Source: ISO/IEC 14496-3 Table 1.44 (PayloadLengthInfo)
func PayloadLengthInfo(r *bits.Reader, smc *StreamMuxConfig, prev int) int {
	switch smc.FrameLengthType {
	case FrameLengthVariable:
		length := 0
		for {
			tmp := r.GetBits(8)
			length += int(tmp)
			if tmp != 255 {
				return length
			}
		}
	case FrameLengthFixed:
		return int(smc.FrameLength) + fixedFrameLengthOffset
	case FrameLengthCELPFixed, FrameLengthCELPOneOf4, FrameLengthHVXCOneOf4:
		r.FlushBits(2) // MuxSlotLengthCoded / HvxcFrameLengthCoded
		return prev
	default:
		return prev
	}
}

// ReadAudioMuxElement parses one AudioMuxElement (with muxConfigPresent set)
// and appends its payload to dst[:0].
//
// On error the returned state equals st.
//
// Source: ISO/IEC 14496-3 Table 1.41 (AudioMuxElement)
func ReadAudioMuxElement(r *bits.Reader, st MuxState, dst []byte) (MuxState, []byte, error) {
	next := st

	useSameStreamMux := r.GetBool()
	if !useSameStreamMux {
		smc, err := ParseStreamMuxConfig(r)
		if err != nil {
			if errors.Is(err, bits.ErrTruncated) {
				return st, nil, fmt.Errorf("%w: %w", ErrMalformed, err)
			}
			return st, nil, err
		}
		next.Config = smc
	}
	if next.Config == nil {
		return st, nil, ErrNoConfig
	}

	// audioMuxVersionA 1 never reaches this point.
	next.SlotLength = PayloadLengthInfo(r, next.Config, st.SlotLength)
	if r.Err() != nil || uint(next.SlotLength)*8 > r.BitsLeft() {
		return st, nil, fmt.Errorf("%w: payload of %d bytes exceeds element", ErrMalformed, next.SlotLength)
	}

	payload := dst[:0]
	for i := 0; i < next.SlotLength; i++ {
		payload = append(payload, byte(r.GetBits(8)))
	}

	if next.Config.OtherDataPresent {
		r.FlushBits(uint(next.Config.OtherDataLenBits))
	}

	if err := r.Err(); err != nil {
		return st, nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return next, payload, nil
}

// ReadAudioSyncStream parses the AudioSyncStream frame at the start of data:
// syncword, audioMuxLengthBytes and the AudioMuxElement.
//
// It returns ErrNoSync when data does not start with the syncword and
// ErrIncomplete when the frame is not fully present; in both cases nothing
// is consumed. Otherwise it returns the frame size in bytes together with
// the updated state and the payload, which aliases dst's storage.
//
// Source: ISO/IEC 14496-3 Table 1.28 (AudioSyncStream)
func ReadAudioSyncStream(data []byte, st MuxState, dst []byte) (int, MuxState, []byte, error) {
	if len(data) < HeaderSize {
		return 0, st, nil, ErrIncomplete
	}

	r := bits.NewReader(data[:HeaderSize])
	if r.GetBits(SyncWordBits) != SyncWord {
		return 0, st, nil, ErrNoSync
	}
	muxLength := int(r.GetBits(13))
	total := HeaderSize + muxLength
	if total > len(data) {
		return 0, st, nil, ErrIncomplete
	}

	er := bits.NewReader(data[HeaderSize:total])
	next, payload, err := ReadAudioMuxElement(er, st, dst)
	if err != nil {
		return 0, st, nil, err
	}
	return total, next, payload, nil
}
