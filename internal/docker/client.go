package docker

import (
	"context"
	"time"

	"github.com/docker/docker/client"
)

// Config holds Docker client settings
type Config struct {
	Host         string        `mapstructure:"host"`
	TLSVerify    bool          `mapstructure:"tls_verify"`
	CertPath     string        `mapstructure:"cert_path"`
	Timeout      time.Duration `mapstructure:"timeout"`      // startup ping
	CallTimeout  time.Duration `mapstructure:"call_timeout"` // each stats or exec call
	ProbeCommand []string      `mapstructure:"-"`
}

func DefaultConfig() Config {
	return Config{
		Host:         "unix:///var/run/docker.sock",
		Timeout:      30 * time.Second,
		CallTimeout:  2 * time.Second,
		ProbeCommand: []string{"iptables", "-L", "FORWARD", "-v", "-n", "-x"},
	}
}

// Client wraps the Docker API client
type Client struct {
	cli          runtimeAPI
	callTimeout  time.Duration
	probeCommand []string
}

// NewClient connects to the Docker daemon and verifies it answers a ping
func NewClient(cfg Config) (*Client, error) {
	opts := []client.Opt{
		client.WithHost(cfg.Host),
		client.WithAPIVersionNegotiation(),
	}

	if cfg.TLSVerify {
		opts = append(opts, client.WithTLSClientConfig(
			cfg.CertPath+"/ca.pem",
			cfg.CertPath+"/cert.pem",
			cfg.CertPath+"/key.pem",
		))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if _, err := cli.Ping(ctx); err != nil {
		cli.Close()
		return nil, err
	}

	return newClient(cli, cfg), nil
}

func newClient(api runtimeAPI, cfg Config) *Client {
	callTimeout := cfg.CallTimeout
	if callTimeout <= 0 {
		callTimeout = DefaultConfig().CallTimeout
	}
	return &Client{
		cli:          api,
		callTimeout:  callTimeout,
		probeCommand: cfg.ProbeCommand,
	}
}

// Close closes the connection
func (c *Client) Close() error {
	if c.cli != nil {
		return c.cli.Close()
	}
	return nil
}
