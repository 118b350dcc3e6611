package latm

import (
	"bytes"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/llehouerou/go-latm/internal/metrics"
)

// Result describes one Receive call.
type Result struct {
	Consumed   int    // input bytes accepted, len(data) unless closed
	N          int    // PCM bytes written to out
	Payloads   int    // access units extracted
	Frames     int    // access units that produced PCM
	SampleRate uint32 // valid when the decoder is open
	Channels   uint8  // valid when the decoder is open
}

// Session pairs a Parser with a lazily opened Decoder.
//
// The decoder is opened from the extradata of the first payload parsed in
// ModeLocked. When a later StreamMuxConfig changes the extradata, the
// decoder is closed and opened again with the new configuration.
type Session struct {
	cfg     Config
	opener  Opener
	parser  *Parser
	log     *zap.Logger
	metrics *metrics.Metrics

	dec        Decoder
	extradata  []byte
	sampleRate uint32
	channels   uint8
	closed     bool
}

// NewSession creates a session. No decoder is opened until a payload
// carrying a configuration has been parsed.
func NewSession(opener Opener, cfg Config) *Session {
	cfg = cfg.withDefaults()
	m := metrics.New(cfg.Registerer, cfg.Channel, cfg.Logger)
	return &Session{
		cfg:     cfg,
		opener:  opener,
		parser:  newParser(cfg, m),
		log:     cfg.Logger,
		metrics: m,
	}
}

// Receive buffers data, extracts every complete payload and decodes it,
// appending whole PCM frames to out while they fit.
//
// data is fully consumed unless the session is closed; incomplete elements
// stay buffered for the next call. The returned error, if any, joins non-fatal diagnostics
// (ErrSyncLost, ErrUnsupported, ErrOpenFailed, ErrDecodeFailed,
// ErrOverflow) and never means the session is unusable. Only ErrClosed is
// final.
func (s *Session) Receive(data, out []byte) (Result, error) {
	if s.closed {
		return Result{}, ErrClosed
	}
	res := Result{Consumed: len(data)}

	s.parser.Write(data)

	var diag diagnostics
	overflowed := false
	for {
		payload, err := s.parser.Next()
		if errors.Is(err, ErrNeedMoreData) {
			break
		}
		if err != nil {
			diag.add(err)
			continue
		}
		res.Payloads++

		if !s.ensureOpen(&diag) {
			continue
		}

		frame, err := s.dec.Decode(payload)
		if errors.Is(err, ErrNeedMoreData) {
			break
		}
		if err != nil {
			s.metrics.DecodeErrors.Inc()
			diag.add(fmt.Errorf("%w: %w", ErrDecodeFailed, err))
			continue
		}
		res.Frames++
		if frame.SampleRate != 0 {
			s.sampleRate = frame.SampleRate
		}
		if frame.Channels != 0 {
			s.channels = frame.Channels
		}

		if overflowed || res.N+len(frame.PCM) > len(out) {
			if !overflowed {
				s.log.Warn("output buffer full, dropping decoded frames",
					zap.Int("capacity", len(out)), zap.Int("frame_bytes", len(frame.PCM)))
			}
			overflowed = true
			s.metrics.Overflows.Inc()
			diag.add(fmt.Errorf("%w: %d byte frame, %d of %d bytes used",
				ErrOverflow, len(frame.PCM), res.N, len(out)))
			continue
		}
		res.N += copy(out[res.N:], frame.PCM)
	}

	if s.Opened() {
		res.SampleRate = s.sampleRate
		res.Channels = s.channels
	}
	return res, diag.err()
}

// ensureOpen opens the decoder for the current configuration, reopening it
// when the extradata changed. It reports whether a decoder is ready.
func (s *Session) ensureOpen(diag *diagnostics) bool {
	if s.parser.Mode() != ModeLocked {
		return false
	}
	cfg := s.parser.AudioConfig()
	if cfg == nil || len(cfg.Extradata) == 0 {
		return s.dec != nil
	}

	if s.dec != nil {
		if s.cfg.DisableReopen || bytes.Equal(s.extradata, cfg.Extradata) {
			return true
		}
		s.log.Debug("configuration changed, reopening decoder",
			zap.Binary("old", s.extradata), zap.Binary("new", cfg.Extradata))
		s.closeDecoder()
	}

	dec, err := s.opener.Open(cfg.Extradata)
	if err != nil {
		s.metrics.OpenFailures.Inc()
		s.log.Warn("decoder open failed", zap.Error(err), zap.Binary("extradata", cfg.Extradata))
		diag.add(fmt.Errorf("%w: %w", ErrOpenFailed, err))
		return false
	}

	s.dec = dec
	s.extradata = bytes.Clone(cfg.Extradata)
	s.sampleRate = cfg.SamplingFrequency
	s.channels = cfg.Channels
	s.metrics.Opens.Inc()
	s.log.Debug("decoder opened",
		zap.Uint32("sample_rate", s.sampleRate), zap.Uint8("channels", s.channels))
	return true
}

func (s *Session) closeDecoder() {
	if s.dec == nil {
		return
	}
	if err := s.dec.Close(); err != nil {
		s.log.Warn("decoder close failed", zap.Error(err))
	}
	s.dec = nil
	s.extradata = nil
	s.sampleRate = 0
	s.channels = 0
}

// Opened reports whether a decoder is open.
func (s *Session) Opened() bool { return s.dec != nil }

// SampleRate returns the output sample rate. Only valid when Opened.
func (s *Session) SampleRate() uint32 { return s.sampleRate }

// Channels returns the output channel count. Only valid when Opened.
func (s *Session) Channels() uint8 { return s.channels }

// Parser returns the session's parser, for inspection.
func (s *Session) Parser() *Parser { return s.parser }

// Reset discards buffered input and closes the decoder, as needed after a
// seek. The session stays usable.
func (s *Session) Reset() {
	s.parser.Flush()
	s.closeDecoder()
}

// Close releases the decoder. It is safe to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var err error
	if s.dec != nil {
		err = s.dec.Close()
		s.dec = nil
	}
	return err
}
