package config

// Defaults applied by Normalize. The poll cadence and producer cadences
// match the original deployment values.
const (
	DefaultBaudRate         = 9600
	DefaultTimeoutMs        = 400
	DefaultPollIntervalMs   = 500
	DefaultScanIntervalMs   = 200
	DefaultSampleIntervalMs = 2500
	DefaultHTTPListen       = ":8080"
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "console"
	}

	if m := cfg.Master; m != nil {
		normalizeBus(&m.Bus)
		if m.PollIntervalMs == 0 {
			m.PollIntervalMs = DefaultPollIntervalMs
		}
		if m.HTTP.Listen == "" {
			m.HTTP.Listen = DefaultHTTPListen
		}
		if len(m.Indicator.Channels) == 0 {
			m.Indicator.Channels = []string{"G", "B"}
		}
		if m.Indicator.AckChannel == "" {
			m.Indicator.AckChannel = "B"
		}
		if m.Indicator.CmdChannel == "" {
			m.Indicator.CmdChannel = "G"
		}
	}

	if p := cfg.Peripheral; p != nil {
		normalizeBus(&p.Bus)
		if p.ScanIntervalMs == 0 {
			p.ScanIntervalMs = DefaultScanIntervalMs
		}
		if p.SampleIntervalMs == 0 {
			p.SampleIntervalMs = DefaultSampleIntervalMs
		}
	}
}

func normalizeBus(b *BusConfig) {
	if b.BaudRate == 0 {
		b.BaudRate = DefaultBaudRate
	}
	if b.TimeoutMs == 0 {
		b.TimeoutMs = DefaultTimeoutMs
	}
}
