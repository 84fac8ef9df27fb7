package config

import "fmt"

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: empty")
	}
	if cfg.Master == nil && cfg.Peripheral == nil {
		return fmt.Errorf("config: master or peripheral section required")
	}

	if cfg.Master != nil {
		if err := validateBus("master", cfg.Master.Bus); err != nil {
			return err
		}
		if cfg.Master.PollIntervalMs < 0 {
			return fmt.Errorf("master: poll_interval_ms must be >= 0")
		}
		if cfg.Master.Bus.TimeoutMs != 0 && cfg.Master.PollIntervalMs != 0 &&
			cfg.Master.Bus.TimeoutMs >= cfg.Master.PollIntervalMs {
			return fmt.Errorf(
				"master: bus timeout_ms (%d) must be below poll_interval_ms (%d)",
				cfg.Master.Bus.TimeoutMs,
				cfg.Master.PollIntervalMs,
			)
		}
	}

	if cfg.Peripheral != nil {
		if err := validateBus("peripheral", cfg.Peripheral.Bus); err != nil {
			return err
		}
		if cfg.Peripheral.ScanIntervalMs < 0 {
			return fmt.Errorf("peripheral: scan_interval_ms must be >= 0")
		}
		if cfg.Peripheral.SampleIntervalMs < 0 {
			return fmt.Errorf("peripheral: sample_interval_ms must be >= 0")
		}
	}

	return nil
}

func validateBus(section string, b BusConfig) error {
	if b.Device == "" {
		return fmt.Errorf("%s: bus device required", section)
	}
	if b.Address == 0 || b.Address > 127 {
		return fmt.Errorf(
			"%s: bus address %d out of range (1-127)",
			section,
			b.Address,
		)
	}
	if b.BaudRate < 0 {
		return fmt.Errorf("%s: baud_rate must be >= 0", section)
	}
	if b.TimeoutMs < 0 {
		return fmt.Errorf("%s: timeout_ms must be >= 0", section)
	}
	return nil
}
