// internal/docker/interface.go
package docker

import (
	"context"

	"github.com/docker/docker/api/types"

	"github.com/rusenback/netviz/internal/model"
)

// RuntimeClient is what the monitor and web layers need from the runtime.
// The interface makes it possible to mock in tests.
type RuntimeClient interface {
	Fetch(ctx context.Context, id string) model.Snapshot
	Probe(ctx context.Context, id string) (string, bool)
	Close() error
}

// runtimeAPI is the subset of the Docker SDK client used by Client
type runtimeAPI interface {
	Ping(ctx context.Context) (types.Ping, error)
	ContainerStatsOneShot(ctx context.Context, containerID string) (types.ContainerStats, error)
	ContainerExecCreate(ctx context.Context, container string, config types.ExecConfig) (types.IDResponse, error)
	ContainerExecAttach(ctx context.Context, execID string, config types.ExecStartCheck) (types.HijackedResponse, error)
	ContainerExecInspect(ctx context.Context, execID string) (types.ContainerExecInspect, error)
	Close() error
}

// Make sure Client satisfies the interface
var _ RuntimeClient = (*Client)(nil)
