package latm

import (
	"errors"

	"github.com/llehouerou/go-latm/internal/bits"
	"github.com/llehouerou/go-latm/internal/syntax"
)

// Framing errors.
var (
	// ErrNeedMoreData indicates no complete element is buffered. It is also
	// returned by a Decoder that needs further access units before it can
	// produce output.
	ErrNeedMoreData = errors.New("latm: need more data")

	// ErrTruncated indicates a bit read ran past the end of its data.
	ErrTruncated = bits.ErrTruncated

	// ErrUnsupported indicates a valid but unimplemented LATM variant:
	// audioMuxVersionA 1, more than one program, or more than one layer.
	ErrUnsupported = syntax.ErrUnsupported

	// ErrSyncLost indicates a locked parser failed to parse the element at
	// its offset and went back to seeking.
	ErrSyncLost = errors.New("latm: sync lost")
)

// Decoder session errors. None of them is fatal; the session keeps
// accepting input.
var (
	// ErrOpenFailed indicates the decoder rejected the extradata. Opening is
	// retried on the next payload.
	ErrOpenFailed = errors.New("latm: decoder open failed")

	// ErrDecodeFailed indicates the decoder rejected an access unit.
	ErrDecodeFailed = errors.New("latm: decode failed")

	// ErrOverflow indicates decoded PCM did not fit in the output buffer.
	// Frames that did not fit were dropped.
	ErrOverflow = errors.New("latm: output buffer overflow")

	// ErrClosed indicates the session was closed.
	ErrClosed = errors.New("latm: session closed")
)

// diagnostics collects non-fatal errors, keeping the first error of each
// kind.
type diagnostics []error

var diagnosticKinds = []error{
	ErrSyncLost, ErrUnsupported, ErrOpenFailed, ErrDecodeFailed, ErrOverflow,
}

func (d *diagnostics) add(err error) {
	for _, kind := range diagnosticKinds {
		if !errors.Is(err, kind) {
			continue
		}
		for _, seen := range *d {
			if errors.Is(seen, kind) {
				return
			}
		}
		break
	}
	*d = append(*d, err)
}

func (d diagnostics) err() error {
	return errors.Join(d...)
}
