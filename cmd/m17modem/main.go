package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/openrtx/m17modem/pkg/audio"
	"github.com/openrtx/m17modem/pkg/audio/sim"
	"github.com/openrtx/m17modem/pkg/config"
	"github.com/openrtx/m17modem/pkg/ctcss"
	"github.com/openrtx/m17modem/pkg/database"
	"github.com/openrtx/m17modem/pkg/logger"
	"github.com/openrtx/m17modem/pkg/metrics"
	"github.com/openrtx/m17modem/pkg/modem"
	"github.com/openrtx/m17modem/pkg/mqtt"
	"github.com/openrtx/m17modem/pkg/web"
)

var (
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	validate := flag.Bool("validate", false, "Validate configuration and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("m17modem %s\n", version)
		fmt.Printf("Git Commit: %s\n", gitCommit)
		fmt.Printf("Built: %s\n", buildTime)
		os.Exit(0)
	}

	log := logger.New(logger.Config{Level: "info", Format: "text"})
	log.Info("Starting m17modem",
		logger.String("version", version),
		logger.String("commit", gitCommit),
		logger.String("build_time", buildTime))

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Error("Failed to load configuration", logger.Error(err))
		os.Exit(1)
	}

	if *validate {
		log.Info("Configuration is valid")
		os.Exit(0)
	}

	log.Info("Configuration loaded successfully", logger.String("config_file", *configFile))

	log = logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	log.Debug("Debug logging enabled")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	metricsCollector := metrics.NewCollector()

	db, err := database.NewDB(database.Config{Path: "data/m17modem.db"}, log.WithComponent("database"))
	if err != nil {
		log.Error("Failed to initialize database", logger.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	callRepo := database.NewCallRepository(db.GetDB())
	stationRepo := database.NewStationRepository(db.GetDB())
	log.Info("Database initialized")

	if cfg.Metrics.Enabled && cfg.Metrics.Prometheus.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			metricsServer := metrics.NewPrometheusServer(
				metrics.PrometheusConfig{
					Enabled: cfg.Metrics.Prometheus.Enabled,
					Port:    cfg.Metrics.Prometheus.Port,
					Path:    cfg.Metrics.Prometheus.Path,
				},
				metricsCollector,
				log.WithComponent("metrics"),
			)
			if err := metricsServer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("Prometheus metrics server error", logger.Error(err))
			}
		}()
		log.Info("Prometheus metrics server started",
			logger.Int("port", cfg.Metrics.Prometheus.Port),
			logger.String("path", cfg.Metrics.Prometheus.Path))
	}

	var mqttPublisher *mqtt.Publisher
	if cfg.MQTT.Enabled {
		mqttPublisher = mqtt.New(
			mqtt.Config{
				Enabled:     cfg.MQTT.Enabled,
				Broker:      cfg.MQTT.Broker,
				TopicPrefix: cfg.MQTT.TopicPrefix,
				ClientID:    cfg.MQTT.ClientID,
				Username:    cfg.MQTT.Username,
				Password:    cfg.MQTT.Password,
				QoS:         cfg.MQTT.QoS,
				Retained:    cfg.MQTT.Retained,
			},
			log.WithComponent("mqtt"),
		)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := mqttPublisher.Start(ctx); err != nil && err != context.Canceled {
				log.Error("MQTT publisher error", logger.Error(err))
			}
		}()
		log.Info("MQTT publisher started",
			logger.String("broker", cfg.MQTT.Broker),
			logger.String("topic_prefix", cfg.MQTT.TopicPrefix))
	}

	var webServer *web.Server
	if cfg.Web.Enabled {
		webServer = web.NewServer(cfg.Web, log.WithComponent("web")).
			WithCallRepository(callRepo).
			WithStationRepository(stationRepo).
			WithCollector(metricsCollector)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := webServer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("Web server error", logger.Error(err))
			}
		}()
		log.Info("Web server started",
			logger.String("host", cfg.Web.Host),
			logger.Int("port", cfg.Web.Port))
	}

	rxLog := log.WithComponent("rx")

	var toneDetector *ctcss.Detector
	if cfg.CTCSS.Enabled {
		toneDetector = ctcss.NewDetector(cfg.CTCSS.SampleRate, cfg.CTCSS.BlockSize)
	}

	receiver := modem.NewReceiver(modem.ReceiverConfig{
		PositiveThreshold:         cfg.Correlator.PositiveThreshold,
		NegativeThreshold:         cfg.Correlator.NegativeThreshold,
		MaxConsecutiveCRCFailures: cfg.M17.MaxConsecutiveCRCFailures,
		CTCSS:                     toneDetector,
	})
	receiver.OnTone(func(r ctcss.Result) {
		if !r.OverThresh {
			return
		}
		toneHz := ctcss.Tone(r.ToneIndex)
		metricsCollector.CTCSSDetected()
		if webServer != nil {
			webServer.GetHub().BroadcastCTCSSDetected(toneHz)
		}
		if mqttPublisher != nil {
			_ = mqttPublisher.PublishCTCSS(mqtt.CTCSSEvent{ToneHz: toneHz, Timestamp: time.Now()})
		}
	})

	audioManager := audio.NewManager()
	rxStream := audio.NewStream(bufferModeFromConfig(cfg.Audio.Mode), cfg.Audio.BlockSize)
	var adc *sim.ADC
	if cfg.Audio.Device == "" || cfg.Audio.Device == "default" {
		adc = sim.NewADC(silentSource{}, rxStream, cfg.Audio.SampleRateRX, cfg.Audio.BlockSize)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := adc.Run(); err != nil {
				rxLog.Warn("ADC simulator stopped", logger.Error(err))
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		runReceiveLoop(ctx, rxLog, receiver, rxStream, audioManager, metricsCollector, callRepo, stationRepo, webServer, mqttPublisher)
	}()

	log.Info("m17modem initialized", logger.String("callsign", cfg.M17.Callsign))

	sig := <-sigChan
	log.Info("Received shutdown signal", logger.String("signal", sig.String()))

	cancel()
	rxStream.Close()
	if adc != nil {
		adc.Stop()
	}
	if mqttPublisher != nil {
		mqttPublisher.Stop()
	}

	wg.Wait()
	log.Info("m17modem stopped")
}

// runReceiveLoop pulls blocks from the RX audio stream, feeds them through
// the demodulation pipeline, and persists/broadcasts completed calls.
func runReceiveLoop(
	ctx context.Context,
	log *logger.Logger,
	receiver *modem.Receiver,
	stream *audio.Stream,
	mgr *audio.Manager,
	collector *metrics.Collector,
	callRepo *database.CallRepository,
	stationRepo *database.StationRepository,
	webServer *web.Server,
	mqttPublisher *mqtt.Publisher,
) {
	holderID, _, err := mgr.Acquire(audio.PriorityRX)
	if err != nil {
		log.Error("Failed to acquire RX audio path", logger.Error(err))
		return
	}
	defer mgr.Release(holderID)

	var tracker modem.CallTracker

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		block, err := stream.GetData()
		if err != nil {
			if err != audio.ErrStreamClosed {
				log.Warn("RX stream read error", logger.Error(err))
			}
			return
		}

		for _, ev := range receiver.ProcessBlock(block) {
			if ev.Err != nil {
				collector.CRCFailed()
				continue
			}
			collector.FrameDecoded(ev.IsLSF)
			collector.SetLocked(true)

			if ev.IsLSF {
				collector.CallStarted(ev.LSF.SrcCallsign())
				if webServer != nil {
					webServer.GetHub().BroadcastCallStart(ev.LSF.SrcCallsign(), ev.LSF.DstCallsign())
				}
				if mqttPublisher != nil {
					_ = mqttPublisher.PublishCallStart(mqtt.CallStartEvent{
						SrcCallsign: ev.LSF.SrcCallsign(),
						DstCallsign: ev.LSF.DstCallsign(),
						Timestamp:   time.Now(),
					})
				}
			}

			ended := tracker.Observe(ev)
			if ended {
				collector.CallEnded(tracker.SrcCallsign)
				duration := time.Since(tracker.StartTime).Seconds()

				if err := callRepo.Create(&database.CallRecord{
					SrcCallsign: tracker.SrcCallsign,
					DstCallsign: tracker.DstCallsign,
					StartTime:   tracker.StartTime,
					EndTime:     time.Now(),
					Duration:    duration,
					FrameCount:  tracker.FrameCount,
					CRCFailures: tracker.CRCFailures,
				}); err != nil {
					log.Warn("Failed to persist call record", logger.Error(err))
				}
				if err := stationRepo.Heard(tracker.SrcCallsign, time.Now()); err != nil {
					log.Warn("Failed to update station record", logger.Error(err))
				}

				if webServer != nil {
					webServer.GetHub().BroadcastCallEnd(tracker.SrcCallsign, tracker.DstCallsign, tracker.FrameCount)
				}
				if mqttPublisher != nil {
					_ = mqttPublisher.PublishCallEnd(mqtt.CallEndEvent{
						SrcCallsign: tracker.SrcCallsign,
						DstCallsign: tracker.DstCallsign,
						Duration:    duration,
						FrameCount:  tracker.FrameCount,
						Timestamp:   time.Now(),
					})
				}
				tracker.Reset()
			}
		}
	}
}

func bufferModeFromConfig(mode string) audio.BufferMode {
	if mode == "linear" {
		return audio.ModeLinear
	}
	return audio.ModeCircDouble
}

// silentSource stands in for a real ADC's byte source when no device is
// configured: an endless run of PCM silence, enough to keep the pipeline
// running without real hardware attached.
type silentSource struct{}

func (silentSource) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}
