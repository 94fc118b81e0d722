package pipeline

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/exportlens/backend/internal/contracts"
	"github.com/exportlens/backend/internal/runconfig"
)

// Fingerprint identifies a run by everything that can change its output:
// the normalized input flows, the parameter set and the clustering seed.
// Two runs with equal fingerprints are guaranteed to produce equal output,
// which is what makes the rerun skip safe.
func Fingerprint(flows []contracts.BilateralFlow, cfg *runconfig.Config, seed int64) (string, error) {
	cfgHash, err := runconfig.Hash(cfg)
	if err != nil {
		return "", fmt.Errorf("hash run config: %w", err)
	}

	h := sha256.New()
	for i := range flows {
		f := &flows[i]
		fmt.Fprintf(h, "%d|%s|%s|%s|%s|", f.Year, f.ProductCode, f.Reporter, f.Partner, f.Direction)
		binary.Write(h, binary.LittleEndian, f.Value)
	}
	h.Write([]byte(cfgHash))
	binary.Write(h, binary.LittleEndian, seed)

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
