package docker

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/pkg/stdcopy"
)

// ExecResult is the outcome of a command run inside a container
type ExecResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Exec runs cmd inside the container and waits for it to finish
func (c *Client) Exec(ctx context.Context, id string, cmd []string) (*ExecResult, error) {
	created, err := c.cli.ContainerExecCreate(ctx, id, types.ExecConfig{
		Cmd:          cmd,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return nil, fmt.Errorf("exec create: %w", err)
	}

	resp, err := c.cli.ContainerExecAttach(ctx, created.ID, types.ExecStartCheck{})
	if err != nil {
		return nil, fmt.Errorf("exec attach: %w", err)
	}
	defer resp.Close()

	// The hijacked connection ignores ctx once dialed; closing it is the
	// only way to unblock the read.
	stop := context.AfterFunc(ctx, resp.Close)
	defer stop()

	// Output is multiplexed since no TTY is allocated
	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, resp.Reader); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("exec read: %w", ctxErr)
		}
		return nil, fmt.Errorf("exec read: %w", err)
	}

	for {
		inspect, err := c.cli.ContainerExecInspect(ctx, created.ID)
		if err != nil {
			return nil, fmt.Errorf("exec inspect: %w", err)
		}
		if !inspect.Running {
			return &ExecResult{
				ExitCode: inspect.ExitCode,
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// Probe runs the configured forwarding-table command inside the container
// and returns its stdout. It reports false when the command fails or
// prints nothing.
func (c *Client) Probe(ctx context.Context, id string) (string, bool) {
	if len(c.probeCommand) == 0 {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	res, err := c.Exec(ctx, id, c.probeCommand)
	if err != nil || res.ExitCode != 0 || res.Stdout == "" {
		return "", false
	}
	return res.Stdout, true
}
