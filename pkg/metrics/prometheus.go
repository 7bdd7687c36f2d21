package metrics

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/openrtx/m17modem/pkg/logger"
)

// PrometheusConfig holds Prometheus server configuration
type PrometheusConfig struct {
	Enabled bool
	Port    int
	Path    string
}

// PrometheusHandler handles Prometheus metrics HTTP requests
type PrometheusHandler struct {
	collector *Collector
}

// NewPrometheusHandler creates a new Prometheus handler
func NewPrometheusHandler(collector *Collector) *PrometheusHandler {
	return &PrometheusHandler{
		collector: collector,
	}
}

// ServeHTTP handles HTTP requests for metrics
func (h *PrometheusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	var output strings.Builder

	output.WriteString("# HELP m17_frames_decoded_total Total frames successfully decoded\n")
	output.WriteString("# TYPE m17_frames_decoded_total counter\n")
	output.WriteString(fmt.Sprintf("m17_frames_decoded_total %d\n", h.collector.GetFramesDecoded()))

	output.WriteString("# HELP m17_lsf_frames_decoded_total Total LSF frames decoded\n")
	output.WriteString("# TYPE m17_lsf_frames_decoded_total counter\n")
	output.WriteString(fmt.Sprintf("m17_lsf_frames_decoded_total %d\n", h.collector.GetLSFFramesDecoded()))

	output.WriteString("# HELP m17_stream_frames_decoded_total Total stream frames decoded\n")
	output.WriteString("# TYPE m17_stream_frames_decoded_total counter\n")
	output.WriteString(fmt.Sprintf("m17_stream_frames_decoded_total %d\n", h.collector.GetStreamFramesDecoded()))

	output.WriteString("# HELP m17_crc_failures_total Total frames that failed CRC validation\n")
	output.WriteString("# TYPE m17_crc_failures_total counter\n")
	output.WriteString(fmt.Sprintf("m17_crc_failures_total %d\n", h.collector.GetCRCFailures()))

	output.WriteString("# HELP m17_golay_corrections_total Total Golay codewords requiring bit correction\n")
	output.WriteString("# TYPE m17_golay_corrections_total counter\n")
	output.WriteString(fmt.Sprintf("m17_golay_corrections_total %d\n", h.collector.GetGolayCorrections()))

	output.WriteString("# HELP m17_golay_uncorrectable_total Total Golay codewords that proved uncorrectable\n")
	output.WriteString("# TYPE m17_golay_uncorrectable_total counter\n")
	output.WriteString(fmt.Sprintf("m17_golay_uncorrectable_total %d\n", h.collector.GetGolayUncorrectable()))

	output.WriteString("# HELP m17_locked Whether the demodulator currently holds a syncword lock\n")
	output.WriteString("# TYPE m17_locked gauge\n")
	locked := 0
	if h.collector.GetLocked() {
		locked = 1
	}
	output.WriteString(fmt.Sprintf("m17_locked %d\n", locked))

	output.WriteString("# HELP m17_active_calls Number of currently active calls\n")
	output.WriteString("# TYPE m17_active_calls gauge\n")
	output.WriteString(fmt.Sprintf("m17_active_calls %d\n", h.collector.GetActiveCalls()))

	output.WriteString("# HELP m17_calls_total Total calls observed\n")
	output.WriteString("# TYPE m17_calls_total counter\n")
	output.WriteString(fmt.Sprintf("m17_calls_total %d\n", h.collector.GetTotalCalls()))

	output.WriteString("# HELP m17_ctcss_detections_total Total CTCSS tone detection events\n")
	output.WriteString("# TYPE m17_ctcss_detections_total counter\n")
	output.WriteString(fmt.Sprintf("m17_ctcss_detections_total %d\n", h.collector.GetCTCSSDetections()))

	w.Write([]byte(output.String()))
}

// PrometheusServer is an HTTP server for Prometheus metrics
type PrometheusServer struct {
	config    PrometheusConfig
	collector *Collector
	log       *logger.Logger
	server    *http.Server
}

// NewPrometheusServer creates a new Prometheus metrics server
func NewPrometheusServer(config PrometheusConfig, collector *Collector, log *logger.Logger) *PrometheusServer {
	if log == nil {
		log = logger.New(logger.Config{Level: "info", Format: "text"})
	}

	return &PrometheusServer{
		config:    config,
		collector: collector,
		log:       log.WithComponent("metrics"),
	}
}

// Start starts the Prometheus metrics server
func (s *PrometheusServer) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.log.Info("Prometheus metrics server disabled")
		return nil
	}

	handler := NewPrometheusHandler(s.collector)
	mux := http.NewServeMux()
	mux.Handle(s.config.Path, handler)

	// Use a listener to get the actual port (useful for testing with port 0)
	addr := fmt.Sprintf(":%d", s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	actualPort := listener.Addr().(*net.TCPAddr).Port

	s.server = &http.Server{
		Handler: mux,
	}

	s.log.Info("Starting Prometheus metrics server",
		logger.Int("port", actualPort),
		logger.String("path", s.config.Path))

	// Start server
	errChan := make(chan error, 1)
	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.log.Info("Shutting down Prometheus metrics server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown error: %w", err)
		}
		return ctx.Err()
	case err := <-errChan:
		return err
	}
}

// Stop stops the Prometheus metrics server
func (s *PrometheusServer) Stop() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.server.Shutdown(ctx)
	}
}
