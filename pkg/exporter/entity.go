package exporter

import (
	"fmt"
	"path"
	"strings"
)

// FileSuffix is appended to the entity name to form the CSV file name.
const FileSuffix = "_randori_export.csv"

// EndpointPrefix is the recon API path all entity endpoints live under.
const EndpointPrefix = "recon/api/v1/"

// Entity is one exported record type.
type Entity struct {
	Name     string
	Endpoint string
}

// FileName returns the CSV file name for the entity.
func (e Entity) FileName() string {
	return e.Name + FileSuffix
}

// EntityFromEndpoint derives an Entity from an endpoint path; the name is
// its final path segment.
func EntityFromEndpoint(endpoint string) Entity {
	return Entity{
		Name:     path.Base(strings.TrimRight(endpoint, "/")),
		Endpoint: endpoint,
	}
}

// DefaultEntities lists the exported recon entities in export order.
func DefaultEntities() []Entity {
	names := EntityNames()
	out := make([]Entity, len(names))
	for i, name := range names {
		out[i] = EntityFromEndpoint(EndpointPrefix + name)
	}
	return out
}

// EntityNames returns the known entity names in export order.
func EntityNames() []string {
	return []string{"hostname", "ip", "target", "service", "network"}
}

// SelectEntities returns the default entities restricted to names, keeping
// the default export order. An empty names selects all of them.
func SelectEntities(names []string) ([]Entity, error) {
	all := DefaultEntities()
	if len(names) == 0 {
		return all, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		wanted[n] = true
	}

	var out []Entity
	for _, e := range all {
		if wanted[e.Name] {
			out = append(out, e)
			delete(wanted, e.Name)
		}
	}

	for n := range wanted {
		return nil, fmt.Errorf("unknown entity %q (known: %s)", n, strings.Join(EntityNames(), ", "))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no entities selected")
	}

	return out, nil
}
