// VCP Setup CLI
// Generates and persists one backend's proving-key artifacts.

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/certen/vcp/pkg/vcp/backend/ac2c"
	"github.com/certen/vcp/pkg/vcp/backend/dnc"
	"github.com/certen/vcp/pkg/vcp/cryptoiface"
	"github.com/certen/vcp/pkg/vcpconfig"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := vcpconfig.Load()
	if err != nil {
		return err
	}

	var ci cryptoiface.CryptoInterface
	switch cfg.UnderlyingCryptoInterface() {
	case "ac2c":
		ci = ac2c.Backend
	case "dnc":
		ci = dnc.Backend
	default:
		return fmt.Errorf("vcp-setup: no backend wired for %q", cfg.Backend)
	}

	log.Printf("vcp-setup: generating proving keys for backend %q (%s)", cfg.Backend, ci.Name)

	var seed cryptoiface.RNGSeed = 1

	mpk, err := ci.CreateMembershipProvingKey(seed)
	if err != nil {
		return fmt.Errorf("vcp-setup: create membership proving key: %w", err)
	}
	rpk, err := ci.CreateRangeProofProvingKey(seed)
	if err != nil {
		return fmt.Errorf("vcp-setup: create range proof proving key: %w", err)
	}

	manifest := &vcpconfig.Manifest{
		Backend:              cfg.Backend,
		MembershipProvingKey: mpk.Payload(),
		RangeProofProvingKey: rpk.Payload(),
	}
	if err := vcpconfig.SaveManifest(cfg.SetupArtifactPath, manifest); err != nil {
		return err
	}

	log.Printf("vcp-setup: wrote %s", cfg.SetupArtifactPath)
	return nil
}
