package model

// Category is the kind of service a monitored resource runs
type Category string

const (
	CategoryRouter   Category = "router"
	CategoryDNS      Category = "dns"
	CategoryWeb      Category = "web"
	CategoryClient   Category = "client"
	CategoryDHCP     Category = "dhcp"
	CategoryExternal Category = "external"
)

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryRouter, CategoryDNS, CategoryWeb, CategoryClient, CategoryDHCP, CategoryExternal:
		return true
	}
	return false
}

// Resource is one monitored container. ID is the container name.
type Resource struct {
	ID       string   `json:"id" yaml:"id"`
	Label    string   `json:"label" yaml:"label"`
	Category Category `json:"type" yaml:"type"`
	Address  string   `json:"ip" yaml:"ip"` // informational only
}

// Subnet groups resources into a logical network segment
type Subnet struct {
	ID      string   `json:"id" yaml:"id"`
	Label   string   `json:"label" yaml:"label"`
	Members []string `json:"members" yaml:"members"`
}

// Topology is the fixed set of monitored resources and their subnets.
// It is built once at startup and must not be mutated afterwards.
type Topology struct {
	Resources []Resource `json:"nodes" yaml:"nodes"`
	Subnets   []Subnet   `json:"networks" yaml:"networks"`
}

// ResourceIDs returns resource identifiers in registry order
func (t *Topology) ResourceIDs() []string {
	ids := make([]string, 0, len(t.Resources))
	for _, r := range t.Resources {
		ids = append(ids, r.ID)
	}
	return ids
}

// Resource looks up a resource by identifier
func (t *Topology) Resource(id string) (Resource, bool) {
	for _, r := range t.Resources {
		if r.ID == id {
			return r, true
		}
	}
	return Resource{}, false
}
