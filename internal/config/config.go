package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rusenback/netviz/internal/docker"
	"github.com/rusenback/netviz/internal/hub"
	"github.com/rusenback/netviz/internal/monitor"
)

const (
	ModeWeb = "web"
	ModeTUI = "tui"
)

// Config holds the application configuration
type Config struct {
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Docker   docker.Config  `mapstructure:"docker"`
	Server   ServerConfig   `mapstructure:"server"`
	Topology TopologyConfig `mapstructure:"topology"`
	UI       UIConfig       `mapstructure:"ui"`
}

type MonitorConfig struct {
	Interval       time.Duration `mapstructure:"interval"`
	ThresholdBytes int64         `mapstructure:"threshold_bytes"`
	Router         string        `mapstructure:"router"`
	ProbeEnabled   bool          `mapstructure:"probe_enabled"`
	ProbeCommand   []string      `mapstructure:"probe_command"`
}

type ServerConfig struct {
	Listen           string `mapstructure:"listen"`
	StaticDir        string `mapstructure:"static_dir"`
	SubscriberBuffer int    `mapstructure:"subscriber_buffer"`
}

type TopologyConfig struct {
	File string `mapstructure:"file"`
}

type UIConfig struct {
	Mode string `mapstructure:"mode"`
}

// Flags returns the command line flags Load understands
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("netviz", pflag.ContinueOnError)
	fs.StringP("config", "c", "", "path to config file")
	fs.String("mode", ModeWeb, "viewer mode: web or tui")
	fs.String("listen", ":8080", "HTTP listen address")
	fs.String("topology", "", "topology YAML file (default: built-in lab)")
	fs.Duration("interval", monitor.DefaultInterval, "polling interval")
	return fs
}

// Load reads configuration from defaults, an optional YAML file,
// NETVIZ_* environment variables and flags, in increasing precedence.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("netviz")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for key, flag := range map[string]string{
			"ui.mode":          "mode",
			"server.listen":    "listen",
			"topology.file":    "topology",
			"monitor.interval": "interval",
		} {
			if f := fs.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", flag, err)
				}
			}
		}
	}

	path := ""
	if fs != nil {
		path, _ = fs.GetString("config")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("netviz")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/netviz/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Docker.ProbeCommand = nil
	if cfg.Monitor.ProbeEnabled {
		cfg.Docker.ProbeCommand = cfg.Monitor.ProbeCommand
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := docker.DefaultConfig()

	v.SetDefault("monitor.interval", monitor.DefaultInterval)
	v.SetDefault("monitor.threshold_bytes", monitor.DefaultThreshold)
	v.SetDefault("monitor.router", "router")
	v.SetDefault("monitor.probe_enabled", true)
	v.SetDefault("monitor.probe_command", d.ProbeCommand)

	v.SetDefault("docker.host", d.Host)
	v.SetDefault("docker.tls_verify", false)
	v.SetDefault("docker.cert_path", "")
	v.SetDefault("docker.timeout", d.Timeout)
	v.SetDefault("docker.call_timeout", d.CallTimeout)

	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.subscriber_buffer", hub.DefaultBuffer)

	v.SetDefault("topology.file", "")
	v.SetDefault("ui.mode", ModeWeb)
}

// Validate rejects settings the monitor cannot run with
func (c *Config) Validate() error {
	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("monitor.interval must be positive, got %s", c.Monitor.Interval)
	}
	if c.Monitor.ThresholdBytes < 0 {
		return fmt.Errorf("monitor.threshold_bytes must not be negative, got %d", c.Monitor.ThresholdBytes)
	}
	if c.Monitor.Router == "" && c.Monitor.ProbeEnabled {
		return errors.New("monitor.router is required when the probe is enabled")
	}
	if c.Monitor.ProbeEnabled && len(c.Monitor.ProbeCommand) == 0 {
		return errors.New("monitor.probe_command is empty")
	}
	if c.Server.SubscriberBuffer < 1 {
		return fmt.Errorf("server.subscriber_buffer must be at least 1, got %d", c.Server.SubscriberBuffer)
	}
	if c.Docker.CallTimeout <= 0 {
		return fmt.Errorf("docker.call_timeout must be positive, got %s", c.Docker.CallTimeout)
	}
	switch c.UI.Mode {
	case ModeWeb, ModeTUI:
	default:
		return fmt.Errorf("ui.mode must be %q or %q, got %q", ModeWeb, ModeTUI, c.UI.Mode)
	}
	return nil
}
