package model

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Event names understood by live viewers
const (
	EventTopology      = "topology"
	EventNetworkUpdate = "network_update"
)

// Message is one frame on the live update channel
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// TopologyMessage wraps the topology as the first frame a viewer receives
func TopologyMessage(t *Topology) Message {
	return Message{Event: EventTopology, Data: t}
}

// UpdateMessage wraps a cycle payload
func UpdateMessage(p *UpdatePayload) Message {
	return Message{Event: EventNetworkUpdate, Data: p}
}

// Encode serializes the message for the wire
func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

type wirePayload struct {
	Timestamp float64             `json:"timestamp"`
	Activity  []ActivityRecord    `json:"activity"`
	Stats     map[string]Snapshot `json:"stats"`
	Iptables  *string             `json:"iptables"`
}

// MarshalJSON writes the timestamp as fractional unix seconds and the
// forwarding table as null when absent.
func (p UpdatePayload) MarshalJSON() ([]byte, error) {
	w := wirePayload{
		Timestamp: float64(p.Timestamp.UnixNano()) / float64(time.Second),
		Activity:  p.Activity,
		Stats:     p.Stats,
	}
	if w.Activity == nil {
		w.Activity = []ActivityRecord{}
	}
	if p.ForwardingTable != "" {
		table := p.ForwardingTable
		w.Iptables = &table
	}
	return json.Marshal(w)
}

// UnmarshalJSON is the inverse of MarshalJSON
func (p *UpdatePayload) UnmarshalJSON(data []byte) error {
	var w wirePayload
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	sec := int64(w.Timestamp)
	nsec := int64((w.Timestamp - float64(sec)) * float64(time.Second))
	p.Timestamp = time.Unix(sec, nsec)
	p.Activity = w.Activity
	p.Stats = w.Stats
	p.ForwardingTable = ""
	if w.Iptables != nil {
		p.ForwardingTable = *w.Iptables
	}
	return nil
}
