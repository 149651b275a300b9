package docker

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/pkg/stdcopy"
)

// mockAPI implements runtimeAPI for testing.
type mockAPI struct {
	StatsFn   func(ctx context.Context, id string) (types.ContainerStats, error)
	CreateFn  func(ctx context.Context, id string, cfg types.ExecConfig) (types.IDResponse, error)
	AttachFn  func(ctx context.Context, execID string) (types.HijackedResponse, error)
	InspectFn func(ctx context.Context, execID string) (types.ContainerExecInspect, error)

	statsCalls int
	closed     bool
}

func (m *mockAPI) Ping(ctx context.Context) (types.Ping, error) {
	return types.Ping{}, nil
}

func (m *mockAPI) ContainerStatsOneShot(ctx context.Context, id string) (types.ContainerStats, error) {
	m.statsCalls++
	if m.StatsFn != nil {
		return m.StatsFn(ctx, id)
	}
	return statsBody(`{"networks":{}}`), nil
}

func (m *mockAPI) ContainerExecCreate(ctx context.Context, id string, cfg types.ExecConfig) (types.IDResponse, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, id, cfg)
	}
	return types.IDResponse{ID: "exec-1"}, nil
}

func (m *mockAPI) ContainerExecAttach(ctx context.Context, execID string, _ types.ExecStartCheck) (types.HijackedResponse, error) {
	if m.AttachFn != nil {
		return m.AttachFn(ctx, execID)
	}
	return hijacked("", ""), nil
}

func (m *mockAPI) ContainerExecInspect(ctx context.Context, execID string) (types.ContainerExecInspect, error) {
	if m.InspectFn != nil {
		return m.InspectFn(ctx, execID)
	}
	return types.ContainerExecInspect{ExecID: execID}, nil
}

func (m *mockAPI) Close() error {
	m.closed = true
	return nil
}

func statsBody(body string) types.ContainerStats {
	return types.ContainerStats{Body: io.NopCloser(strings.NewReader(body))}
}

// hijacked builds an exec attach response carrying multiplexed output
func hijacked(stdout, stderr string) types.HijackedResponse {
	var buf bytes.Buffer
	if stdout != "" {
		stdcopy.NewStdWriter(&buf, stdcopy.Stdout).Write([]byte(stdout))
	}
	if stderr != "" {
		stdcopy.NewStdWriter(&buf, stdcopy.Stderr).Write([]byte(stderr))
	}
	local, remote := net.Pipe()
	remote.Close()
	return types.HijackedResponse{Conn: local, Reader: bufio.NewReader(&buf)}
}

var errMockFailure = errors.New("mock failure")
