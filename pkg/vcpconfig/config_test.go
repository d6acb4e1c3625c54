// Copyright 2025 Certen Protocol

package vcpconfig

import (
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VCP_BACKEND", "")
	t.Setenv("VCP_LOG_LEVEL", "")
	t.Setenv("VCP_SETUP_ARTIFACT_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != BackendAC2CBBS {
		t.Errorf("Backend = %q, want %q", cfg.Backend, BackendAC2CBBS)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("VCP_BACKEND", "not_a_real_backend")
	if _, err := Load(); err == nil {
		t.Fatal("Load: want error for unknown VCP_BACKEND, got nil")
	}
}

func TestUnderlyingCryptoInterfaceMapping(t *testing.T) {
	cases := []struct {
		backend Backend
		want    string
	}{
		{BackendAC2CBBS, "ac2c"},
		{BackendAC2CPS, "ac2c"},
		{BackendDNC, "dnc"},
	}
	for _, c := range cases {
		cfg := &Config{Backend: c.backend}
		if got := cfg.UnderlyingCryptoInterface(); got != c.want {
			t.Errorf("UnderlyingCryptoInterface(%q) = %q, want %q", c.backend, got, c.want)
		}
	}
}

func TestManifestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	want := &Manifest{
		Backend:               BackendDNC,
		MembershipProvingKey:  "bWVtYmVyc2hpcA==",
		RangeProofProvingKey:  "cmFuZ2U=",
	}
	if err := SaveManifest(path, want); err != nil {
		t.Fatalf("SaveManifest: %v", err)
	}
	got, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if *got != *want {
		t.Errorf("LoadManifest = %+v, want %+v", *got, *want)
	}
}

func TestLoadManifestMissingFileErrors(t *testing.T) {
	if _, err := LoadManifest(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("LoadManifest: want error for missing file, got nil")
	}
}
