// Copyright 2025 Certen Protocol
//
// Package vcpconfig is the environment-driven configuration loader for
// cmd/vcp-setup and cmd/vcp-demo, the same getEnv*/Load shape as
// pkg/config/config.go but scoped to what a VCP process actually needs:
// which backend to run, how loud to log, and where persisted setup
// artifacts (proving keys) live on disk.
package vcpconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Backend names the three reference backend selections spec.md's backend
// selector names (section 6): ac2c_bbs and ac2c_ps both resolve to the
// single ac2c CryptoInterface, so the two names select the same signing
// scheme; dnc is the second, non-pairing reference adapter.
type Backend string

const (
	BackendAC2CBBS Backend = "ac2c_bbs"
	BackendAC2CPS  Backend = "ac2c_ps"
	BackendDNC     Backend = "dnc"
)

// Config holds everything a VCP CLI entry point needs to boot.
type Config struct {
	// Backend selects which CryptoInterface the platform is assembled
	// around.
	Backend Backend

	// LogLevel is read from VCP_LOG_LEVEL; the cmd/ entry points do not
	// consult it, and VCP core packages never log themselves.
	LogLevel string

	// SetupArtifactPath is where cmd/vcp-setup writes the persisted
	// proving-key manifest; cmd/vcp-demo does not read it.
	SetupArtifactPath string
}

// Load reads configuration from environment variables, the same
// getEnv/getEnvInt helper shape pkg/config/config.go uses.
func Load() (*Config, error) {
	cfg := &Config{
		Backend:           Backend(getEnv("VCP_BACKEND", string(BackendAC2CBBS))),
		LogLevel:          getEnv("VCP_LOG_LEVEL", "info"),
		SetupArtifactPath: getEnv("VCP_SETUP_ARTIFACT_PATH", "vcp-setup-artifacts.yaml"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that Backend names one of the three selections spec.md's
// backend selector table lists.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendAC2CBBS, BackendAC2CPS, BackendDNC:
		return nil
	default:
		return fmt.Errorf("vcpconfig: unknown VCP_BACKEND %q (want %q, %q, or %q)", c.Backend, BackendAC2CBBS, BackendAC2CPS, BackendDNC)
	}
}

// UnderlyingCryptoInterface reports which pkg/vcp/backend/* CryptoInterface
// a Backend selection wires to. ac2c_bbs and ac2c_ps share the ac2c
// CryptoInterface: both names exist because spec.md's reference-value list
// names them separately (as two signing modes of the same adapter), but
// this module implements one ac2c CryptoInterface rather than two; see
// DESIGN.md.
func (c *Config) UnderlyingCryptoInterface() string {
	switch c.Backend {
	case BackendAC2CBBS, BackendAC2CPS:
		return "ac2c"
	case BackendDNC:
		return "dnc"
	default:
		return ""
	}
}

// Manifest is the on-disk form of a backend's persisted setup artifacts
// (proving keys), loaded via gopkg.in/yaml.v3 exactly as the teacher loads
// its own YAML configuration.
type Manifest struct {
	Backend              Backend `yaml:"backend"`
	MembershipProvingKey string  `yaml:"membership_proving_key"` // base64 payload
	RangeProofProvingKey string  `yaml:"range_proof_proving_key"`
}

// LoadManifest reads a setup-artifact manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vcpconfig: read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("vcpconfig: parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// SaveManifest writes m to path as YAML.
func SaveManifest(path string, m *Manifest) error {
	b, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("vcpconfig: encode manifest: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("vcpconfig: write manifest %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
