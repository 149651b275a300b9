package model

import (
	stdjson "encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateMessage_WireShape(t *testing.T) {
	p := &UpdatePayload{
		Timestamp: time.Unix(1700000000, 500000000),
		Activity:  []ActivityRecord{{Resource: "router", RxBytes: 150, TxBytes: 0, RxPackets: 2}},
		Stats: map[string]Snapshot{
			"router":  {RxBytes: 1150, TxBytes: 500, Status: StatusRunning},
			"coredns": {Status: StatusError, Error: "no such container"},
		},
	}

	data, err := UpdateMessage(p).Encode()
	require.NoError(t, err)

	var frame map[string]any
	require.NoError(t, stdjson.Unmarshal(data, &frame))
	assert.Equal(t, EventNetworkUpdate, frame["event"])

	body := frame["data"].(map[string]any)
	assert.InDelta(t, 1700000000.5, body["timestamp"], 0.001)
	assert.Nil(t, body["iptables"])

	activity := body["activity"].([]any)
	require.Len(t, activity, 1)
	rec := activity[0].(map[string]any)
	assert.Equal(t, "router", rec["node"])
	assert.EqualValues(t, 150, rec["rx"])
	assert.EqualValues(t, 2, rec["rx_packets"])

	stats := body["stats"].(map[string]any)
	coredns := stats["coredns"].(map[string]any)
	assert.Equal(t, "error", coredns["status"])
	assert.Equal(t, "no such container", coredns["error"])
	router := stats["router"].(map[string]any)
	_, hasErr := router["error"]
	assert.False(t, hasErr)
}

func TestUpdatePayload_ForwardingTableRoundTrip(t *testing.T) {
	p := UpdatePayload{
		Timestamp:       time.Unix(1700000000, 0),
		Stats:           map[string]Snapshot{},
		ForwardingTable: "Chain FORWARD (policy ACCEPT 0 packets, 0 bytes)\n",
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"activity":[]`)

	var back UpdatePayload
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p.ForwardingTable, back.ForwardingTable)
	assert.Equal(t, p.Timestamp.Unix(), back.Timestamp.Unix())
}

func TestTopologyMessage(t *testing.T) {
	topo := &Topology{
		Resources: []Resource{{ID: "router", Label: "Router", Category: CategoryRouter, Address: "10.10.10.254"}},
		Subnets:   []Subnet{{ID: "wan", Label: "WAN", Members: []string{"router"}}},
	}

	data, err := TopologyMessage(topo).Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"topology","data":{
		"nodes":[{"id":"router","label":"Router","type":"router","ip":"10.10.10.254"}],
		"networks":[{"id":"wan","label":"WAN","members":["router"]}]}}`, string(data))
}

func TestTopology_Lookup(t *testing.T) {
	topo := &Topology{Resources: []Resource{{ID: "a"}, {ID: "b"}}}

	assert.Equal(t, []string{"a", "b"}, topo.ResourceIDs())
	r, ok := topo.Resource("b")
	assert.True(t, ok)
	assert.Equal(t, "b", r.ID)
	_, ok = topo.Resource("missing")
	assert.False(t, ok)

	assert.True(t, CategoryDHCP.Valid())
	assert.False(t, Category("printer").Valid())
}

func TestFailedSnapshot(t *testing.T) {
	s := FailedSnapshot(StatusUnreachable, assert.AnError)
	assert.Equal(t, StatusUnreachable, s.Status)
	assert.Equal(t, assert.AnError.Error(), s.Error)
	assert.Zero(t, s.RxBytes)
	assert.False(t, s.OK())
}
