package latm

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/llehouerou/go-latm/internal/bits"
	"github.com/llehouerou/go-latm/internal/syntax"
	"github.com/llehouerou/go-latm/internal/tables"
)

// testConfig describes a version 0 StreamMuxConfig with one GA layer.
type testConfig struct {
	objectType    tables.ObjectType
	rate          uint32
	channelConfig uint32
	numProgram    uint32
}

var (
	lc44 = testConfig{objectType: tables.ObjectTypeLC, rate: 44100, channelConfig: 2}
	lc48 = testConfig{objectType: tables.ObjectTypeLC, rate: 48000, channelConfig: 1}
)

func putMuxConfig(w *bits.Writer, c testConfig) {
	w.PutBits(0, 1) // audioMuxVersion
	w.PutBits(1, 1) // allStreamsSameTimeFraming
	w.PutBits(0, 6) // numSubFrames
	w.PutBits(c.numProgram, 4)
	if c.numProgram != 0 {
		return
	}
	w.PutBits(0, 3) // numLayer

	w.PutBits(uint32(c.objectType), 5)
	w.PutBits(srIndex(c.rate), 4)
	w.PutBits(c.channelConfig, 4)
	w.PutBits(0, 3) // GASpecificConfig flags

	w.PutBits(0, 3)    // frameLengthType
	w.PutBits(0xFF, 8) // latmBufferFullness
	w.PutBits(0, 1)    // otherDataPresent
	w.PutBits(0, 1)    // crcCheckPresent
}

// loasFrame builds one AudioSyncStream frame. A nil config sets
// useSameStreamMux.
func loasFrame(c *testConfig, payload []byte) []byte {
	w := bits.NewWriter(syntax.MaxMuxLength)
	if c == nil {
		w.PutBits(1, 1)
	} else {
		w.PutBits(0, 1)
		putMuxConfig(w, *c)
	}
	n := len(payload)
	for n >= 255 {
		w.PutBits(255, 8)
		n -= 255
	}
	w.PutBits(uint32(n), 8)
	for _, b := range payload {
		w.PutBits(uint32(b), 8)
	}
	elem := w.Bytes()

	v := uint32(syntax.SyncWord)<<13 | uint32(len(elem))
	return append([]byte{byte(v >> 16), byte(v >> 8), byte(v)}, elem...)
}

// loasStream builds a stream carrying c in its first frame only.
func loasStream(c testConfig, payloads [][]byte) []byte {
	var out []byte
	for i, p := range payloads {
		if i == 0 {
			out = append(out, loasFrame(&c, p)...)
		} else {
			out = append(out, loasFrame(nil, p)...)
		}
	}
	return out
}

// testPayloads returns n distinct payloads. Their bytes never form a
// syncword, even shifted by the one-bit useSameStreamMux flag.
func testPayloads(n, size int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = bytes.Repeat([]byte{byte(0x20 + i)}, size+i)
	}
	return out
}

// drain calls Next until it needs more data and returns the payloads and
// diagnostics seen.
func drain(p *Parser) ([][]byte, []error) {
	var payloads [][]byte
	var diags []error
	for {
		payload, err := p.Next()
		if errors.Is(err, ErrNeedMoreData) {
			return payloads, diags
		}
		if err != nil {
			diags = append(diags, err)
			continue
		}
		payloads = append(payloads, bytes.Clone(payload))
	}
}

// fakeDecoder returns each access unit as its PCM.
type fakeDecoder struct {
	fail   func(au []byte) error
	closed int
}

func (d *fakeDecoder) Decode(au []byte) (Frame, error) {
	if d.fail != nil {
		if err := d.fail(au); err != nil {
			return Frame{}, err
		}
	}
	return Frame{PCM: bytes.Clone(au), SampleRate: 44100, Channels: 2}, nil
}

func (d *fakeDecoder) Close() error {
	d.closed++
	return nil
}

type fakeOpener struct {
	openErrs  []error // consumed one per Open call
	fail      func(au []byte) error
	extradata [][]byte
	decoders  []*fakeDecoder
}

func (o *fakeOpener) Open(extradata []byte) (Decoder, error) {
	o.extradata = append(o.extradata, bytes.Clone(extradata))
	if len(o.openErrs) > 0 {
		err := o.openErrs[0]
		o.openErrs = o.openErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	d := &fakeDecoder{fail: o.fail}
	o.decoders = append(o.decoders, d)
	return d, nil
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
