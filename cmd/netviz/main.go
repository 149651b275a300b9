// cmd/netviz/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/rusenback/netviz/internal/config"
	"github.com/rusenback/netviz/internal/docker"
	"github.com/rusenback/netviz/internal/hub"
	"github.com/rusenback/netviz/internal/metrics"
	"github.com/rusenback/netviz/internal/model"
	"github.com/rusenback/netviz/internal/monitor"
	"github.com/rusenback/netviz/internal/topology"
	"github.com/rusenback/netviz/internal/tui"
	"github.com/rusenback/netviz/internal/web"
)

func main() {
	fs := config.Flags()
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(os.Stderr, "netviz: ", log.LstdFlags)
	if cfg.UI.Mode == config.ModeTUI {
		// The terminal belongs to the viewer; logs go to a file instead
		f, err := tea.LogToFile("netviz.log", "netviz")
		if err != nil {
			fmt.Printf("❌ Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = log.New(f, "netviz: ", log.LstdFlags)
	}

	if err := run(cfg, logger); err != nil {
		logger.Printf("exiting: %v", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *log.Logger) error {
	topo, err := loadTopology(cfg.Topology.File)
	if err != nil {
		return err
	}

	client, err := docker.NewClient(cfg.Docker)
	if err != nil {
		fmt.Printf("❌ Failed to connect to Docker: %v\n", err)
		fmt.Println("\nMake sure Docker is running:")
		fmt.Println("  sudo systemctl start docker")
		fmt.Println("  sudo usermod -aG docker $USER")
		return err
	}
	defer client.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	h := hub.New(topo, cfg.Server.SubscriberBuffer, m)

	opts := monitor.Options{
		Topology:  topo,
		Stats:     client,
		Publisher: h,
		Router:    cfg.Monitor.Router,
		Interval:  cfg.Monitor.Interval,
		Threshold: uint64(cfg.Monitor.ThresholdBytes),
		Logger:    logger,
		Metrics:   m,
	}
	if cfg.Monitor.ProbeEnabled {
		opts.Prober = client
	}
	mon := monitor.New(opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return mon.Run(gctx)
	})

	switch cfg.UI.Mode {
	case config.ModeTUI:
		g.Go(func() error {
			// Leaving the viewer shuts the monitor down as well
			defer cancel()
			return runTUI(gctx, h)
		})
	default:
		srv := web.NewServer(web.Options{
			Listen:    cfg.Server.Listen,
			StaticDir: cfg.Server.StaticDir,
			Topology:  topo,
			Hub:       h,
			Stats:     client,
			Gatherer:  reg,
			Logger:    logger,
		})
		logger.Printf("serving %d resources on %s", len(topo.Resources), cfg.Server.Listen)
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	return g.Wait()
}

func runTUI(ctx context.Context, h *hub.Hub) error {
	sub := h.Subscribe()
	defer h.Unsubscribe(sub)

	p := tea.NewProgram(tui.NewModel(sub), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func loadTopology(path string) (*model.Topology, error) {
	if path == "" {
		return topology.Default(), nil
	}
	topo, err := topology.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load topology: %w", err)
	}
	return topo, nil
}
