// Package topology holds the registry of monitored resources and the
// subnets they belong to.
package topology

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rusenback/netviz/internal/model"
)

var (
	ErrEmpty             = errors.New("topology has no resources")
	ErrDuplicateResource = errors.New("duplicate resource id")
	ErrUnknownCategory   = errors.New("unknown resource type")
	ErrUnknownMember     = errors.New("subnet member is not a known resource")
)

// Default returns the lab network the monitor watches when no topology
// file is configured.
func Default() *model.Topology {
	return &model.Topology{
		Resources: []model.Resource{
			{ID: "router", Label: "Router", Category: model.CategoryRouter, Address: "10.10.10.254"},
			{ID: "coredns", Label: "CoreDNS", Category: model.CategoryDNS, Address: "10.10.10.53"},
			{ID: "nginx-app", Label: "Nginx HTTPS", Category: model.CategoryWeb, Address: "10.10.10.10"},
			{ID: "client10", Label: "Client10", Category: model.CategoryClient, Address: "10.10.10.100"},
			{ID: "dnsmasq", Label: "DHCP Server", Category: model.CategoryDHCP, Address: "10.20.20.2"},
			{ID: "client20", Label: "Client20", Category: model.CategoryClient, Address: "10.20.20.x"},
			{ID: "wan-host", Label: "WAN Host", Category: model.CategoryExternal, Address: "172.20.0.100"},
		},
		Subnets: []model.Subnet{
			{ID: "vlan10", Label: "VLAN 10 (10.10.10.0/24)", Members: []string{"router", "coredns", "nginx-app", "client10"}},
			{ID: "vlan20", Label: "VLAN 20 (10.20.20.0/24)", Members: []string{"router", "coredns", "dnsmasq", "client20"}},
			{ID: "wan", Label: "WAN (172.20.0.0/24)", Members: []string{"router", "wan-host"}},
		},
	}
}

// Load reads and validates a YAML topology document
func Load(path string) (*model.Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read topology file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML topology document and validates it
func Parse(data []byte) (*model.Topology, error) {
	var t model.Topology
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse topology: %w", err)
	}
	if err := Validate(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks that resource ids are unique, categories are known and
// every subnet member refers to a registered resource.
func Validate(t *model.Topology) error {
	if t == nil || len(t.Resources) == 0 {
		return ErrEmpty
	}

	seen := make(map[string]struct{}, len(t.Resources))
	for _, r := range t.Resources {
		if r.ID == "" {
			return fmt.Errorf("resource with label %q has no id", r.Label)
		}
		if _, ok := seen[r.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateResource, r.ID)
		}
		if !r.Category.Valid() {
			return fmt.Errorf("%w: %s (%q)", ErrUnknownCategory, r.ID, r.Category)
		}
		seen[r.ID] = struct{}{}
	}

	for _, s := range t.Subnets {
		for _, m := range s.Members {
			if _, ok := seen[m]; !ok {
				return fmt.Errorf("%w: %s in %s", ErrUnknownMember, m, s.ID)
			}
		}
	}
	return nil
}
