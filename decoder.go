package latm

// Opener opens a decoder from AudioSpecificConfig extradata.
type Opener interface {
	Open(extradata []byte) (Decoder, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(extradata []byte) (Decoder, error)

// Open calls f(extradata).
func (f OpenerFunc) Open(extradata []byte) (Decoder, error) {
	return f(extradata)
}

// Decoder decodes raw AAC access units.
//
// Decode returns ErrNeedMoreData when the access unit was accepted but no
// PCM is available yet. Any other error rejects the access unit only; the
// decoder stays usable.
type Decoder interface {
	Decode(au []byte) (Frame, error)
	Close() error
}

// Frame is the output of one decoded access unit.
type Frame struct {
	PCM        []byte // interleaved signed 16-bit little-endian samples
	SampleRate uint32 // Hz, 0 if unknown
	Channels   uint8  // 0 if unknown
}
