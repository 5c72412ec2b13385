package exporter

import (
	"reflect"
	"testing"
)

func TestEntityFromEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		name     string
		file     string
	}{
		{"recon/api/v1/hostname", "hostname", "hostname_randori_export.csv"},
		{"recon/api/v1/ip", "ip", "ip_randori_export.csv"},
		{"/recon/api/v1/service/", "service", "service_randori_export.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			e := EntityFromEndpoint(tt.endpoint)
			if e.Name != tt.name {
				t.Errorf("Name = %q, want %q", e.Name, tt.name)
			}
			if e.FileName() != tt.file {
				t.Errorf("FileName() = %q, want %q", e.FileName(), tt.file)
			}
		})
	}
}

func TestDefaultEntities(t *testing.T) {
	got := DefaultEntities()
	want := []string{
		"recon/api/v1/hostname",
		"recon/api/v1/ip",
		"recon/api/v1/target",
		"recon/api/v1/service",
		"recon/api/v1/network",
	}

	if len(got) != len(want) {
		t.Fatalf("got %d entities, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Endpoint != want[i] {
			t.Errorf("entity %d endpoint = %q, want %q", i, got[i].Endpoint, want[i])
		}
	}
}

func TestSelectEntities(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    []string
		wantErr bool
	}{
		{name: "empty selects all", input: nil, want: EntityNames()},
		{name: "keeps export order", input: []string{"network", "hostname"}, want: []string{"hostname", "network"}},
		{name: "case and space insensitive", input: []string{" IP ", "Target"}, want: []string{"ip", "target"}},
		{name: "duplicates collapse", input: []string{"ip", "ip"}, want: []string{"ip"}},
		{name: "unknown entity", input: []string{"ip", "certificate"}, wantErr: true},
		{name: "only blanks", input: []string{" ", ""}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectEntities(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("SelectEntities(%v) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("SelectEntities(%v) error = %v", tt.input, err)
			}

			names := make([]string, len(got))
			for i, e := range got {
				names[i] = e.Name
			}
			if !reflect.DeepEqual(names, tt.want) {
				t.Errorf("SelectEntities(%v) = %v, want %v", tt.input, names, tt.want)
			}
		})
	}
}
