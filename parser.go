package latm

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/llehouerou/go-latm/internal/metrics"
	"github.com/llehouerou/go-latm/internal/stream"
	"github.com/llehouerou/go-latm/internal/syntax"
)

// Parser extracts AudioMuxElement payloads from a LOAS byte stream.
//
// While seeking, it scans the buffered bytes one at a time for the
// syncword. Once an element parses it is locked and parses the next
// element directly at the following offset. A failure while locked drops
// it back to seeking one byte past the failed syncword.
type Parser struct {
	buf     *stream.Buffer
	mode    Mode
	state   syntax.MuxState
	scratch []byte

	log     *zap.Logger
	metrics *metrics.Metrics
	stats   Stats
}

// NewParser creates a Parser in ModeSeeking.
func NewParser(cfg Config) *Parser {
	cfg = cfg.withDefaults()
	return newParser(cfg, metrics.New(cfg.Registerer, cfg.Channel, cfg.Logger))
}

func newParser(cfg Config, m *metrics.Metrics) *Parser {
	return &Parser{
		buf:     stream.NewBuffer(cfg.BufferSize),
		scratch: make([]byte, 0, syntax.MaxMuxLength),
		log:     cfg.Logger,
		metrics: m,
	}
}

// Write appends data to the accumulation buffer. It returns the number of
// buffered bytes that were dropped to make room, which is 0 unless the
// caller writes faster than it calls Next.
func (p *Parser) Write(data []byte) int {
	dropped := p.buf.Write(data)
	if dropped > 0 {
		p.stats.DroppedBytes += uint64(dropped)
		p.metrics.DroppedBytes.Add(float64(dropped))
		p.log.Warn("accumulation buffer full, dropped unconsumed data",
			zap.Int("dropped", dropped), zap.Int("capacity", p.buf.Cap()))
	}
	return dropped
}

// Next returns the next payload.
//
// It returns ErrNeedMoreData when no complete element is buffered. Errors
// wrapping ErrSyncLost or ErrUnsupported are diagnostics: the offending
// bytes have been skipped and Next can be called again.
//
// The payload is only valid until the next call to Next.
func (p *Parser) Next() ([]byte, error) {
	for {
		data := p.buf.Unread()
		if p.mode == ModeSeeking && len(data) <= 2 {
			return nil, ErrNeedMoreData
		}

		n, st, payload, err := syntax.ReadAudioSyncStream(data, p.state, p.scratch)
		if err == nil {
			return p.commit(n, st, payload), nil
		}
		if errors.Is(err, syntax.ErrIncomplete) {
			return nil, ErrNeedMoreData
		}

		if p.mode == ModeLocked {
			p.mode = ModeSeeking
			p.skip(1)
			p.stats.Resyncs++
			p.metrics.Resyncs.Inc()
			if errors.Is(err, ErrUnsupported) {
				p.countUnsupported()
			}
			p.log.Debug("sync lost", zap.Error(err), zap.Int("buffered", p.buf.Len()))
			return nil, fmt.Errorf("%w: %w", ErrSyncLost, err)
		}

		p.skip(1)
		if errors.Is(err, ErrUnsupported) {
			p.countUnsupported()
			return nil, err
		}
	}
}

func (p *Parser) commit(n int, st syntax.MuxState, payload []byte) []byte {
	if p.mode == ModeSeeking {
		p.mode = ModeLocked
		p.log.Debug("sync acquired", zap.Int("offset", p.buf.Offset()))
	}
	if st.Config != p.state.Config {
		p.configChanged(st.Config)
	}

	p.buf.Consume(n)
	p.state = st
	p.scratch = payload[:0]

	p.stats.Payloads++
	p.metrics.Payloads.Inc()
	p.metrics.PayloadBytes.Observe(float64(len(payload)))
	return payload
}

func (p *Parser) configChanged(next *syntax.StreamMuxConfig) {
	var prev *AudioConfig
	if p.state.Config != nil {
		prev = p.state.Config.Audio
	}
	if next.Audio.SameExtradata(prev) {
		return
	}
	if prev != nil {
		p.stats.ConfigChanges++
		p.metrics.ConfigChanges.Inc()
	}
	p.log.Debug("stream mux config",
		zap.Uint8("object_type", uint8(next.Audio.ObjectType)),
		zap.Uint32("sample_rate", next.Audio.SamplingFrequency),
		zap.Uint8("channels", next.Audio.Channels),
		zap.Uint8("mux_version", next.AudioMuxVersion),
		zap.Binary("extradata", next.Audio.Extradata))
}

func (p *Parser) skip(n int) {
	p.buf.Consume(n)
	p.stats.SkippedBytes += uint64(n)
	p.metrics.SkippedBytes.Add(float64(n))
}

func (p *Parser) countUnsupported() {
	p.stats.Unsupported++
	p.metrics.Unsupported.Inc()
}

// Flush discards buffered data and returns to ModeSeeking. The last
// StreamMuxConfig is kept so elements reusing it still parse.
func (p *Parser) Flush() {
	p.buf.Flush()
	p.mode = ModeSeeking
	p.state.SlotLength = 0
}

// Mode returns the synchronization mode.
func (p *Parser) Mode() Mode { return p.mode }

// Buffered returns the number of unconsumed bytes.
func (p *Parser) Buffered() int { return p.buf.Len() }

// MuxConfig returns the StreamMuxConfig in effect, or nil before the first
// one has been parsed.
func (p *Parser) MuxConfig() *StreamMuxConfig { return p.state.Config }

// AudioConfig returns the AudioSpecificConfig in effect, or nil before the
// first StreamMuxConfig has been parsed.
func (p *Parser) AudioConfig() *AudioConfig {
	if p.state.Config == nil {
		return nil
	}
	return p.state.Config.Audio
}

// Stats returns the parser counters.
func (p *Parser) Stats() Stats { return p.stats }
