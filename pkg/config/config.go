// pkg/config/config.go
package config

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Manager handles loading and accessing application configuration.
type Manager struct {
	koanfInstance *koanf.Koanf
	currentConfig Config
	mu            sync.RWMutex // protects currentConfig during runtime updates
}

// NewManager creates a new configuration Manager with an empty koanf
// instance. Call Load to populate it from the configured sources.
func NewManager() *Manager {
	return &Manager{
		koanfInstance: koanf.New("."),
	}
}

// DefaultConfig returns a new Config struct populated with hardcoded
// default values. These serve as the baseline configuration if no other
// sources override them.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   "",
		},
		Server: DefaultServerConfig(),
		Queues: DefaultQueuesConfig(),
	}
}

// Load loads configuration from the given sources in priority order
// (lowest first, so higher priority sources override lower ones) and
// unmarshals the merged result into the manager.
func (m *Manager) Load(sources []ConfigSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ordered := make([]ConfigSource, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() < ordered[j].Priority()
	})

	for _, src := range ordered {
		if err := src.Load(m.koanfInstance); err != nil {
			return fmt.Errorf("config source %s: %w", src.Name(), err)
		}
	}

	var newCfg Config
	if err := m.koanfInstance.UnmarshalWithConf("", &newCfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("error unmarshaling final config: %w", err)
	}
	m.currentConfig = newCfg

	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentConfig
}

// Reload re-reads the given sources from scratch and swaps the current
// configuration. Used by the config file watcher to pick up edits at
// runtime.
func (m *Manager) Reload(sources []ConfigSource) error {
	m.mu.Lock()
	m.koanfInstance = koanf.New(".")
	m.mu.Unlock()
	return m.Load(sources)
}

// DefaultConfigAsMap converts the DefaultConfig struct to a flat
// map[string]interface{} for koanf's confmap provider, so koanf knows
// every key even when no file or flag mentions it.
func DefaultConfigAsMap() map[string]interface{} {
	def := DefaultConfig()

	out := map[string]interface{}{
		// Log configuration
		"log.level":  def.Log.Level,
		"log.format": def.Log.Format,
		"log.file":   def.Log.File,

		// Server configuration
		"server.addr":          def.Server.Addr,
		"server.port":          def.Server.Port,
		"server.api_enabled":   def.Server.APIEnabled,
		"server.workspace_dir": def.Server.WorkspaceDir,
		"server.read_timeout":  def.Server.ReadTimeout,
		"server.write_timeout": def.Server.WriteTimeout,

		// Queue defaults
		"queues.defaults.timeout":          def.Queues.Defaults.Timeout,
		"queues.defaults.avg_job_duration": def.Queues.Defaults.AvgJobDuration,
		"queues.defaults.inter_job_delay":  def.Queues.Defaults.InterJobDelay,
		"queues.defaults.retention":        def.Queues.Defaults.Retention,
		"queues.defaults.cleanup_interval": def.Queues.Defaults.CleanupInterval,
	}

	for name, qc := range def.Queues.Categories {
		prefix := "queues.categories." + name + "."
		out[prefix+"timeout"] = qc.Timeout
		out[prefix+"avg_job_duration"] = qc.AvgJobDuration
		out[prefix+"inter_job_delay"] = qc.InterJobDelay
		out[prefix+"retention"] = qc.Retention
		out[prefix+"cleanup_interval"] = qc.CleanupInterval
	}

	return out
}

// DefaultQueuesConfig returns queue tuning for the standard generative
// work categories. The per-category numbers mirror how long each class
// of downstream API call tends to run; they are starting points, not
// measurements.
func DefaultQueuesConfig() QueuesConfig {
	return QueuesConfig{
		Defaults: QueueConfig{
			Timeout:         5 * time.Minute,
			AvgJobDuration:  30 * time.Second,
			InterJobDelay:   500 * time.Millisecond,
			Retention:       time.Hour,
			CleanupInterval: time.Minute,
		},
		Categories: map[string]QueueConfig{
			"video-generation": {
				Timeout:        10 * time.Minute,
				AvgJobDuration: 3 * time.Minute,
			},
			"image-generation": {
				Timeout:        3 * time.Minute,
				AvgJobDuration: 30 * time.Second,
			},
			"image-edit": {
				Timeout:        3 * time.Minute,
				AvgJobDuration: 30 * time.Second,
			},
			"background-removal": {
				Timeout:        2 * time.Minute,
				AvgJobDuration: 20 * time.Second,
			},
			"text-to-speech": {
				Timeout:        2 * time.Minute,
				AvgJobDuration: 15 * time.Second,
			},
			"thumbnail": {
				Timeout:        time.Minute,
				AvgJobDuration: 10 * time.Second,
			},
			"meme-caption": {
				Timeout:        2 * time.Minute,
				AvgJobDuration: 20 * time.Second,
			},
			"image-to-prompt": {
				Timeout:        2 * time.Minute,
				AvgJobDuration: 15 * time.Second,
			},
			"audio-mount": {
				Timeout:        5 * time.Minute,
				AvgJobDuration: time.Minute,
			},
		},
	}
}

// BindFlags defines command-line flags corresponding to global
// configuration settings. These flags allow overriding config file and
// environment variable settings. Called when setting up Cobra commands.
func BindFlags(flags *pflag.FlagSet) {
	var flagvar bool
	flags.BoolVar(&flagvar, "debug", false, "Enable debug logging")
}
