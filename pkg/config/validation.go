package config

import "fmt"

// validate validates the configuration.
func validate(cfg *Config) error {
	if cfg.Web.Enabled {
		if cfg.Web.Port <= 0 || cfg.Web.Port > 65535 {
			return fmt.Errorf("web.port must be between 1 and 65535")
		}
	}

	if cfg.Audio.SampleRateTX <= 0 {
		return fmt.Errorf("audio.sample_rate_tx must be positive")
	}
	if cfg.Audio.SampleRateRX <= 0 {
		return fmt.Errorf("audio.sample_rate_rx must be positive")
	}
	if cfg.Audio.BlockSize <= 0 {
		return fmt.Errorf("audio.block_size must be positive")
	}
	if cfg.Audio.Mode != "" && cfg.Audio.Mode != "linear" && cfg.Audio.Mode != "circ_double" {
		return fmt.Errorf("audio.mode must be \"linear\" or \"circ_double\"")
	}

	if cfg.M17.Callsign == "" {
		return fmt.Errorf("m17.callsign is required")
	}
	if len(cfg.M17.Callsign) > 9 {
		return fmt.Errorf("m17.callsign exceeds the 9-character base-40 limit")
	}
	if cfg.M17.MaxGolayCorrection < 0 || cfg.M17.MaxGolayCorrection > 3 {
		return fmt.Errorf("m17.max_golay_correction must be between 0 and 3")
	}

	if cfg.CTCSS.Enabled {
		if cfg.CTCSS.SampleRate <= 0 {
			return fmt.Errorf("ctcss.sample_rate must be positive")
		}
		if cfg.CTCSS.BlockSize <= 0 {
			return fmt.Errorf("ctcss.block_size must be positive")
		}
	}

	if cfg.MQTT.Enabled {
		if cfg.MQTT.Broker == "" {
			return fmt.Errorf("mqtt.broker is required when mqtt is enabled")
		}
	}

	return nil
}
