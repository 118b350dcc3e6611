// Package latm extracts AAC access units from LATM/LOAS streams
// (ISO/IEC 14496-3 section 1.7) and feeds them to an AAC decoder.
//
// Input arrives in arbitrarily sized chunks, typically from a transport
// stream demultiplexer. The package buffers it, finds the AudioSyncStream
// syncword, parses StreamMuxConfig and AudioMuxElement, and hands each
// payload to a decoder opened from the in-band AudioSpecificConfig.
//
// # Basic Usage
//
// With a decoder backend such as the faad subpackage:
//
//	s := latm.NewSession(faad.Opener{}, latm.Config{})
//	defer s.Close()
//
//	out := make([]byte, 64*1024)
//	for chunk := range chunks {
//	    res, err := s.Receive(chunk, out)
//	    if err != nil {
//	        log.Println(err) // diagnostics, never fatal
//	    }
//	    play(out[:res.N], res.SampleRate, res.Channels)
//	}
//
// A Parser can be used on its own to extract payloads without decoding.
//
// # Supported Streams
//
// One program with one layer, audioMuxVersionA 0, any audioMuxVersion.
// Other variants are reported as ErrUnsupported and skipped.
//
// # Thread Safety
//
// Parser and Session are NOT safe for concurrent use. Each channel should
// be owned by a single goroutine.
package latm
