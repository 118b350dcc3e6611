// Package syntax implements LATM (ISO/IEC 14496-3 section 1.7) bitstream
// syntax parsing: AudioSyncStream, AudioMuxElement, StreamMuxConfig and the
// embedded AudioSpecificConfig.
package syntax

import "errors"

// AudioSyncStream errors.
var (
	// ErrNoSync indicates the data does not start with the 11-bit LATM syncword.
	ErrNoSync = errors.New("syntax: LATM syncword not found")

	// ErrIncomplete indicates the AudioMuxElement announced by the header is
	// not fully buffered yet. Nothing was consumed.
	ErrIncomplete = errors.New("syntax: incomplete AudioMuxElement")
)

// AudioMuxElement errors.
var (
	// ErrMalformed indicates the element contents overrun its declared
	// muxLength, which only happens on corrupt data or a false sync.
	ErrMalformed = errors.New("syntax: malformed AudioMuxElement")

	// ErrNoConfig indicates an element reuses a StreamMuxConfig that has
	// not been received yet.
	ErrNoConfig = errors.New("syntax: no StreamMuxConfig received yet")
)

// StreamMuxConfig errors.
var (
	// ErrUnsupported indicates a valid but unimplemented LATM variant:
	// audioMuxVersionA == 1, more than one program, or more than one layer.
	ErrUnsupported = errors.New("syntax: unsupported LATM variant")
)
