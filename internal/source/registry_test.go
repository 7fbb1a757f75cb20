package source

import (
	"testing"

	"github.com/hle0/rdap-bootstrap/internal/config"
)

func TestNewRegistryFallsBackToDefaults(t *testing.T) {
	registry, err := NewRegistry(&config.Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list := registry.List()
	if len(list) != 5 {
		t.Fatalf("expected 5 default sources, got %d", len(list))
	}
	dns, ok := registry.Lookup("dns")
	if !ok {
		t.Fatalf("dns should be registered by default")
	}
	if dns.URL != "https://data.iana.org/rdap/dns.json" || dns.File != "dns.json" {
		t.Fatalf("unexpected dns source: %+v", dns)
	}
}

func TestNewRegistryUsesConfiguredSources(t *testing.T) {
	cfg := &config.Config{
		Sources: []config.SourceConfig{
			{Name: "ipv6", File: "ipv6.json", URL: "https://mirror.example/ipv6.json"},
			{Name: "asn", File: "asn.json", URL: "https://mirror.example/asn.json"},
		},
	}
	registry, err := NewRegistry(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list := registry.List()
	if len(list) != 2 || list[0].Name != "asn" || list[1].Name != "ipv6" {
		t.Fatalf("unexpected order: %+v", list)
	}
	if _, ok := registry.Lookup("dns"); ok {
		t.Fatalf("defaults must not be merged into configured sources")
	}
	if src, ok := registry.Lookup("IPv6"); !ok || src.URL != "https://mirror.example/ipv6.json" {
		t.Fatalf("lookup should be case-insensitive: %+v", src)
	}
	if src, ok := registry.Lookup("asn.json"); !ok || src.Name != "asn" {
		t.Fatalf("lookup by file name failed: %+v", src)
	}

	reqs := registry.Requests()
	if len(reqs) != 2 || reqs[0].File != "asn.json" {
		t.Fatalf("unexpected requests: %+v", reqs)
	}
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	cfg := &config.Config{
		Sources: []config.SourceConfig{
			{Name: "dns", File: "dns.json", URL: "https://a.example/dns.json"},
			{Name: "DNS", File: "dns2.json", URL: "https://b.example/dns.json"},
		},
	}
	if _, err := NewRegistry(cfg); err == nil {
		t.Fatalf("duplicate names should fail")
	}
}

func TestNewRegistryRejectsNilConfig(t *testing.T) {
	if _, err := NewRegistry(nil); err == nil {
		t.Fatalf("nil config should fail")
	}
}
