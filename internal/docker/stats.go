// internal/docker/stats.go
package docker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"

	"github.com/rusenback/netviz/internal/model"
)

// ErrNoStats is returned when the daemon closes the stats stream without a sample
var ErrNoStats = errors.New("empty stats response")

// Fetch reads the network counters of a container in one shot.
// Failures are reported in the returned snapshot, never as an error.
func (c *Client) Fetch(ctx context.Context, id string) model.Snapshot {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	stats, err := c.containerStats(ctx, id)
	if err != nil {
		return model.FailedSnapshot(classify(err), err)
	}
	return networkSnapshot(stats)
}

func (c *Client) containerStats(ctx context.Context, id string) (*types.StatsJSON, error) {
	// One-shot skips the daemon's wait to prime the CPU counters
	resp, err := c.cli.ContainerStatsOneShot(ctx, id)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var stats types.StatsJSON
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		if err == io.EOF {
			return nil, ErrNoStats
		}
		return nil, fmt.Errorf("malformed stats payload: %w", err)
	}
	return &stats, nil
}

// networkSnapshot sums counters over every attached interface
func networkSnapshot(stats *types.StatsJSON) model.Snapshot {
	s := model.Snapshot{Status: model.StatusRunning}
	for _, network := range stats.Networks {
		s.RxBytes += network.RxBytes
		s.TxBytes += network.TxBytes
		s.RxPackets += network.RxPackets
		s.TxPackets += network.TxPackets
	}
	return s
}

// classify separates a daemon that cannot be reached from a daemon that
// answered with an error.
func classify(err error) model.Status {
	if client.IsErrConnectionFailed(err) ||
		errors.Is(err, context.DeadlineExceeded) {
		return model.StatusUnreachable
	}
	return model.StatusError
}
