// Package config loads and checks the yaml configuration for both
// controllers. The pipeline is Load, then Validate, then Normalize;
// Validate never mutates, Normalize only runs on valid config.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Master     *MasterConfig     `yaml:"master"`
	Peripheral *PeripheralConfig `yaml:"peripheral"`
	Log        LogConfig         `yaml:"log"`
}

// ---- BUS ----

type BusConfig struct {
	// Device is the serial device path (e.g. /dev/ttyUSB0).
	Device    string `yaml:"device"`
	BaudRate  int    `yaml:"baud_rate"`
	Address   uint8  `yaml:"address"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- MASTER ----

type MasterConfig struct {
	Bus            BusConfig       `yaml:"bus"`
	PollIntervalMs int             `yaml:"poll_interval_ms"`
	HTTP           HTTPConfig      `yaml:"http"`
	Indicator      IndicatorConfig `yaml:"indicator"`
}

type HTTPConfig struct {
	Listen string `yaml:"listen"`
}

type IndicatorConfig struct {
	Channels   []string `yaml:"channels"`
	AckChannel string   `yaml:"ack_channel"`
	CmdChannel string   `yaml:"cmd_channel"`
}

// ---- PERIPHERAL ----

type PeripheralConfig struct {
	Bus              BusConfig `yaml:"bus"`
	ScanIntervalMs   int       `yaml:"scan_interval_ms"`
	SampleIntervalMs int       `yaml:"sample_interval_ms"`
}

// ---- LOG ----

type LogConfig struct {
	Level  string `yaml:"level"`
	Output string `yaml:"output"`
}

// Load reads and parses a config file. It performs no validation.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}
