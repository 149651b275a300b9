// internal/model/snapshot.go
package model

import "time"

// Status describes how a snapshot was obtained
type Status string

const (
	StatusRunning     Status = "running"
	StatusUnreachable Status = "unreachable"
	StatusError       Status = "error"
)

// Snapshot holds a resource's network counters at one point in time,
// summed over every interface attached to the container.
type Snapshot struct {
	RxBytes   uint64 `json:"rx_bytes"`
	TxBytes   uint64 `json:"tx_bytes"`
	RxPackets uint64 `json:"rx_packets"`
	TxPackets uint64 `json:"tx_packets"`
	Status    Status `json:"status"`
	Error     string `json:"error,omitempty"`
}

// FailedSnapshot returns a zero-counter snapshot carrying err
func FailedSnapshot(status Status, err error) Snapshot {
	s := Snapshot{Status: status}
	if err != nil {
		s.Error = err.Error()
	}
	return s
}

// OK reports whether the counters are live values
func (s Snapshot) OK() bool {
	return s.Status == StatusRunning
}

// ActivityRecord is a counter delta large enough to report
type ActivityRecord struct {
	Resource  string `json:"node"`
	RxBytes   uint64 `json:"rx"`
	TxBytes   uint64 `json:"tx"`
	RxPackets uint64 `json:"rx_packets"`
	TxPackets uint64 `json:"tx_packets"`
}

// UpdatePayload is what one monitor cycle publishes
type UpdatePayload struct {
	Timestamp       time.Time
	Activity        []ActivityRecord
	Stats           map[string]Snapshot
	ForwardingTable string // empty when the probe returned nothing
}
