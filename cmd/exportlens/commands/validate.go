package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/exportlens/backend/internal/peers"
	"github.com/exportlens/backend/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the curated peer-group table",
	Long: `Loads the curated peer-group YAML and checks that every entry
normalizes to a known ISO3 code and belongs to exactly one group.

Example:
  go run ./cmd/exportlens validate
  go run ./cmd/exportlens validate --file configs/peer_groups.yaml`,
	RunE: runValidate,
}

var validateFile string

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFile, "file", "", "peer-group file (defaults to configured path)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := validateFile
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		path = cfg.PeerGroupPath
	}

	curated, err := peers.LoadCuratedAssigner(path)
	if err != nil {
		return fmt.Errorf("peer groups invalid: %w", err)
	}

	assignments, err := curated.Assign(peers.Input{})
	if err != nil {
		return err
	}

	counts := make(map[int]int)
	for _, a := range assignments {
		counts[a.ClusterID]++
	}
	clusters := make([]int, 0, len(counts))
	for id := range counts {
		clusters = append(clusters, id)
	}
	sort.Ints(clusters)

	fmt.Printf("Peer groups OK: %s\n", path)
	fmt.Printf("  %d groups, %d countries\n", len(clusters), len(assignments))
	for _, id := range clusters {
		fmt.Printf("  %-24s %d countries\n", curated.GroupName(id), counts[id])
	}

	return nil
}
