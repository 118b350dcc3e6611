package syntax

import (
	"fmt"

	"github.com/llehouerou/go-latm/internal/bits"
	"github.com/llehouerou/go-latm/internal/tables"
)

// testMux describes a single-program, single-layer StreamMuxConfig.
type testMux struct {
	version       uint8
	versionA      uint8
	numProgram    uint32
	numLayer      uint32
	objectType    tables.ObjectType
	sampleRate    uint32
	channelConfig uint32
	ascFillBits   uint   // version 1: bits after the ASC covered by ascLen
	frameLenType  uint32 // 0 unless set
	frameLength   uint32 // frameLengthType 1
	otherDataBits uint32
	crc           bool
}

func lcStereo(rate uint32) *testMux {
	return &testMux{objectType: tables.ObjectTypeLC, sampleRate: rate, channelConfig: 2}
}

func putZeros(w *bits.Writer, n uint) {
	for n > 32 {
		w.PutBits(0, 32)
		n -= 32
	}
	w.PutBits(0, n)
}

// copyWriterBits appends the first n bits of src to w.
func copyWriterBits(w *bits.Writer, src []byte, n uint) {
	r := bits.NewReaderBits(src, n)
	for r.BitsLeft() > 0 {
		k := min(r.BitsLeft(), 8)
		w.PutBits(r.GetBits(k), k)
	}
}

func putLatmValue(w *bits.Writer, v uint32) {
	n := uint(0)
	for t := v >> 8; t > 0; t >>= 8 {
		n++
	}
	w.PutBits(uint32(n), 2)
	for i := int(n); i >= 0; i-- {
		w.PutBits(v>>(8*uint(i))&0xFF, 8)
	}
}

// putASC writes a GA AudioSpecificConfig with all GASpecificConfig flags
// cleared. It is 16 bits long.
func putASC(w *bits.Writer, m *testMux) {
	w.PutBits(uint32(m.objectType), 5)
	w.PutBits(srIndex(m.sampleRate), 4)
	w.PutBits(m.channelConfig, 4)
	w.PutBits(0, 3)
}

func putStreamMuxConfig(w *bits.Writer, m *testMux) {
	w.PutBits(uint32(m.version), 1)
	if m.version == 1 {
		w.PutBits(uint32(m.versionA), 1)
		if m.versionA == 1 {
			return
		}
		putLatmValue(w, 0xFF) // taraBufferFullness
	}
	w.PutBits(1, 1) // allStreamsSameTimeFraming
	w.PutBits(0, 6) // numSubFrames
	w.PutBits(m.numProgram, 4)
	w.PutBits(m.numLayer, 3)
	if m.numProgram != 0 || m.numLayer != 0 {
		return
	}

	if m.version == 1 {
		putLatmValue(w, uint32(16+m.ascFillBits))
	}
	putASC(w, m)
	if m.version == 1 {
		putZeros(w, m.ascFillBits)
	}

	w.PutBits(m.frameLenType, 3)
	switch m.frameLenType {
	case 0:
		w.PutBits(0xFF, 8)
	case 1:
		w.PutBits(m.frameLength, 9)
	}

	if m.otherDataBits > 0 {
		w.PutBits(1, 1)
		if m.version == 1 {
			putLatmValue(w, m.otherDataBits)
		} else {
			w.PutBits(0, 1) // otherDataLenEsc
			w.PutBits(m.otherDataBits, 8)
		}
	} else {
		w.PutBits(0, 1)
	}

	if m.crc {
		w.PutBits(1, 1)
		w.PutBits(0x5A, 8)
	} else {
		w.PutBits(0, 1)
	}
}

// buildElement returns an AudioMuxElement. A nil config sets
// useSameStreamMux; active describes the config in effect for the payload.
func buildElement(config, active *testMux, payload []byte) []byte {
	w := bits.NewWriter(1 << 13)
	if config == nil {
		w.PutBits(1, 1)
	} else {
		w.PutBits(0, 1)
		putStreamMuxConfig(w, config)
		active = config
	}

	if active == nil || active.frameLenType == 0 {
		n := len(payload)
		for n >= 255 {
			w.PutBits(255, 8)
			n -= 255
		}
		w.PutBits(uint32(n), 8)
	}
	for _, b := range payload {
		w.PutBits(uint32(b), 8)
	}
	if active != nil {
		putZeros(w, uint(active.otherDataBits))
	}
	return w.Bytes()
}

// frameWithLength prepends an AudioSyncStream header announcing muxLength.
func frameWithLength(elem []byte, muxLength int) []byte {
	v := uint32(SyncWord)<<13 | uint32(muxLength)
	return append([]byte{byte(v >> 16), byte(v >> 8), byte(v)}, elem...)
}

func frame(elem []byte) []byte {
	return frameWithLength(elem, len(elem))
}

func testPayload(n int, fill byte) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = fill + byte(i%7)
	}
	return p
}

// srIndex returns the table index of an exact sample rate.
func srIndex(rate uint32) uint32 {
	for i, r := range tables.SampleRates {
		if r == rate {
			return uint32(i)
		}
	}
	panic(fmt.Sprintf("no sampling frequency index for %d Hz", rate))
}
