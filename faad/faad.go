// Package faad provides a latm.Opener backed by FAAD2 running in a
// WebAssembly sandbox, so no cgo toolchain is required.
package faad

import (
	"fmt"

	faad2 "github.com/llehouerou/go-faad2"

	latm "github.com/llehouerou/go-latm"
	"github.com/llehouerou/go-latm/internal/pcm"
)

// Opener opens FAAD2 decoders. The zero value is ready to use.
type Opener struct{}

// Open creates a decoder initialized with the AudioSpecificConfig in
// extradata.
func (Opener) Open(extradata []byte) (latm.Decoder, error) {
	d, err := faad2.NewDecoder()
	if err != nil {
		return nil, fmt.Errorf("faad: create decoder: %w", err)
	}
	if err := d.Init(extradata); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("faad: init with % x: %w", extradata, err)
	}
	return &Decoder{dec: d}, nil
}

// Decoder decodes raw AAC access units. The PCM of a returned Frame is
// only valid until the next Decode call.
type Decoder struct {
	dec *faad2.Decoder
	buf []byte
}

// Decode decodes one access unit. FAAD2 withholds output for the first
// access unit after Init; that case reports latm.ErrNeedMoreData.
func (d *Decoder) Decode(au []byte) (latm.Frame, error) {
	samples, err := d.dec.Decode(au)
	if err != nil {
		return latm.Frame{}, err
	}
	if len(samples) == 0 {
		return latm.Frame{}, latm.ErrNeedMoreData
	}
	d.buf = pcm.AppendS16LE(d.buf[:0], samples)
	return latm.Frame{
		PCM:        d.buf,
		SampleRate: d.dec.SampleRate(),
		Channels:   d.dec.Channels(),
	}, nil
}

// Close releases the FAAD2 instance.
func (d *Decoder) Close() error {
	return d.dec.Close()
}
