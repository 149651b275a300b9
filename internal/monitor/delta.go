package monitor

import "github.com/rusenback/netviz/internal/model"

// DefaultThreshold is the byte delta a resource must exceed in either
// direction before its traffic is reported.
const DefaultThreshold uint64 = 100

// Compute compares two consecutive snapshots of a resource and returns an
// activity record when rx or tx grew by more than threshold bytes.
//
// It returns nil when there is no baseline yet, when either snapshot is
// not a live sample, or when any counter went backwards. A regression
// means the container restarted; curr simply becomes the new baseline.
// A failed snapshot is not treated as a zero baseline, so the first good
// sample after a failure reports nothing rather than the lifetime totals.
func Compute(id string, prev *model.Snapshot, curr model.Snapshot, threshold uint64) *model.ActivityRecord {
	if prev == nil || !prev.OK() || !curr.OK() {
		return nil
	}

	if curr.RxBytes < prev.RxBytes || curr.TxBytes < prev.TxBytes ||
		curr.RxPackets < prev.RxPackets || curr.TxPackets < prev.TxPackets {
		return nil
	}

	rx := curr.RxBytes - prev.RxBytes
	tx := curr.TxBytes - prev.TxBytes
	if rx <= threshold && tx <= threshold {
		return nil
	}

	return &model.ActivityRecord{
		Resource:  id,
		RxBytes:   rx,
		TxBytes:   tx,
		RxPackets: curr.RxPackets - prev.RxPackets,
		TxPackets: curr.TxPackets - prev.TxPackets,
	}
}
