// pkg/config/types.go
package config

import (
	"sort"
	"time"
)

// Config is the root configuration structure for the RenderQ application.
// It aggregates all other specific configuration structs.
type Config struct {
	Log    LogConfig    `description:"Logging configuration" koanf:"log"`
	Server ServerConfig `description:"Server configuration" koanf:"server"`
	Queues QueuesConfig `description:"Job queue configuration" koanf:"queues"`
}

// LogConfig holds logging related configuration.
type LogConfig struct {
	Level  string `description:"Log level (debug, info, warn, error)" koanf:"level"`
	Format string `description:"Log format: json | text" koanf:"format"`
	File   string `description:"Log file path (optional, stdout when empty)" koanf:"file"`
}

// ServerConfig holds configuration for the RenderQ server runtime.
// Used by the 'renderq server start' command.
type ServerConfig struct {
	// Network settings
	Addr string `description:"Server listen address" koanf:"addr"`
	Port int    `description:"Server listen port" koanf:"port"`

	// Component toggles
	APIEnabled bool `description:"Enable REST API endpoints" koanf:"api_enabled"`

	// Paths
	WorkspaceDir string `description:"Workspace root directory" koanf:"workspace_dir"`

	// HTTP timeouts
	ReadTimeout  time.Duration `description:"HTTP read timeout" koanf:"read_timeout"`
	WriteTimeout time.Duration `description:"HTTP write timeout" koanf:"write_timeout"`
}

// QueuesConfig holds job queue tuning, globally and per work category.
// Category entries override the defaults field by field; a category that
// appears here is registered at server startup.
type QueuesConfig struct {
	Defaults   QueueConfig            `description:"Fallback tuning for all categories" koanf:"defaults"`
	Categories map[string]QueueConfig `description:"Per-category overrides" koanf:"categories"`
}

// QueueConfig tunes one job queue instance. Job cost varies wildly by
// category (a video render is not a thumbnail), so the timeout and the
// average-duration constant used for wait estimation are set per
// category.
type QueueConfig struct {
	Timeout         time.Duration `description:"Per-job wall clock limit" koanf:"timeout"`
	AvgJobDuration  time.Duration `description:"Fixed average duration used for ETA" koanf:"avg_job_duration"`
	InterJobDelay   time.Duration `description:"Pause between jobs (0 disables)" koanf:"inter_job_delay"`
	Retention       time.Duration `description:"How long finished job records stay queryable" koanf:"retention"`
	CleanupInterval time.Duration `description:"How often expired records are evicted" koanf:"cleanup_interval"`
}

// merge returns c with zero fields filled in from base.
func (c QueueConfig) merge(base QueueConfig) QueueConfig {
	if c.Timeout == 0 {
		c.Timeout = base.Timeout
	}
	if c.AvgJobDuration == 0 {
		c.AvgJobDuration = base.AvgJobDuration
	}
	if c.InterJobDelay == 0 {
		c.InterJobDelay = base.InterJobDelay
	}
	if c.Retention == 0 {
		c.Retention = base.Retention
	}
	if c.CleanupInterval == 0 {
		c.CleanupInterval = base.CleanupInterval
	}
	return c
}

// ForCategory resolves the effective tuning for a category: the category
// override merged over the defaults.
func (q QueuesConfig) ForCategory(name string) QueueConfig {
	if override, ok := q.Categories[name]; ok {
		return override.merge(q.Defaults)
	}
	return q.Defaults
}

// CategoryNames returns the configured category names in stable order.
func (q QueuesConfig) CategoryNames() []string {
	names := make([]string, 0, len(q.Categories))
	for name := range q.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
