// Command latmdec decodes a LOAS/LATM AAC stream to raw s16le PCM.
//
// Usage:
//
//	latmdec -i input.loas -o output.raw
//	cat input.loas | latmdec > output.raw
//
// The output sample rate and channel count are logged once the decoder
// opens. Set -metrics-addr (or LATMDEC_METRICS_ADDR) to expose Prometheus
// metrics while decoding.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	latm "github.com/llehouerou/go-latm"
	"github.com/llehouerou/go-latm/faad"
)

const readSize = 4096

func main() {
	var (
		input       = flag.String("i", "-", "input LOAS file, - for stdin")
		output      = flag.String("o", "-", "output PCM file, - for stdout")
		verbose     = flag.Bool("v", false, "log sync and decoder events")
		bufferSize  = flag.Int("buffer", latm.DefaultBufferSize, "accumulation buffer size in bytes")
		channel     = flag.String("channel", getEnv("LATMDEC_CHANNEL", latm.DefaultChannel), "metrics channel label")
		metricsAddr = flag.String("metrics-addr", getEnv("LATMDEC_METRICS_ADDR", ""), "serve /metrics on this address")
	)
	flag.Parse()

	logger, _ := zap.NewProduction()
	if *verbose {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	if *metricsAddr != "" {
		srv := serveMetrics(*metricsAddr, reg, logger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	in, out, err := openFiles(*input, *output)
	if err != nil {
		logger.Fatal("failed to open files", zap.Error(err))
	}
	defer in.Close()
	defer out.Close()

	s := latm.NewSession(faad.Opener{}, latm.Config{
		BufferSize: *bufferSize,
		Logger:     logger,
		Registerer: reg,
		Channel:    *channel,
	})
	defer s.Close()

	n, err := run(ctx, s, in, out, logger)
	if err != nil {
		logger.Fatal("decode failed", zap.Error(err))
	}
	st := s.Parser().Stats()
	logger.Info("done",
		zap.Int64("pcm_bytes", n),
		zap.Uint64("payloads", st.Payloads),
		zap.Uint64("resyncs", st.Resyncs),
		zap.Uint64("skipped_bytes", st.SkippedBytes),
	)
}

// run feeds in to the session until EOF, then drains elements the decoder
// left buffered. It returns the number of PCM bytes written.
func run(ctx context.Context, s *latm.Session, in io.Reader, out io.Writer, logger *zap.Logger) (int64, error) {
	w := bufio.NewWriter(out)
	pcm := make([]byte, 256*1024)
	chunk := make([]byte, readSize)
	var total int64
	announced := false

	emit := func(res latm.Result, err error) error {
		if err != nil {
			logger.Warn("stream diagnostics", zap.Error(err))
		}
		if res.SampleRate != 0 && !announced {
			announced = true
			logger.Info("decoding",
				zap.Uint32("sample_rate", res.SampleRate),
				zap.Uint8("channels", res.Channels))
		}
		written, err := w.Write(pcm[:res.N])
		total += int64(written)
		return err
	}

	for ctx.Err() == nil {
		n, rerr := in.Read(chunk)
		if n > 0 {
			if err := emit(s.Receive(chunk[:n], pcm)); err != nil {
				return total, fmt.Errorf("write pcm: %w", err)
			}
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return total, fmt.Errorf("read input: %w", rerr)
		}
	}

	for ctx.Err() == nil {
		res, err := s.Receive(nil, pcm)
		if werr := emit(res, err); werr != nil {
			return total, fmt.Errorf("write pcm: %w", werr)
		}
		if res.Payloads == 0 {
			break
		}
	}
	return total, w.Flush()
}

func openFiles(input, output string) (io.ReadCloser, io.WriteCloser, error) {
	in := io.ReadCloser(os.Stdin)
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return nil, nil, err
		}
		in = f
	}
	out := io.WriteCloser(os.Stdout)
	if output != "-" {
		f, err := os.Create(output)
		if err != nil {
			in.Close()
			return nil, nil, err
		}
		out = f
	}
	return in, out, nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("metrics listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	return srv
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
