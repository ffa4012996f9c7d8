package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/luxfi/ocioraba/pkg/coin"
	"github.com/luxfi/ocioraba/pkg/config"
	"github.com/luxfi/ocioraba/pkg/logging"
	"github.com/luxfi/ocioraba/pkg/node"
	"github.com/luxfi/ocioraba/pkg/party"
	"github.com/luxfi/ocioraba/pkg/protocol"
)

var (
	runConfigPath        string
	runN                 int
	runT                 int
	runSecret            int64
	runByzantineCount    int
	runByzantineBehavior string
	runTimeout           time.Duration
	runWire              bool
	runFailFast          bool
	runVerbose           bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one cluster and report the agreed-upon value",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "path to a JSON RunConfig; overrides every other flag below except --verbose")
	runCmd.Flags().IntVarP(&runN, "n", "n", 4, "total number of nodes")
	runCmd.Flags().IntVarP(&runT, "t", "t", 1, "maximum Byzantine nodes tolerated (requires n >= 3t+1)")
	runCmd.Flags().Int64VarP(&runSecret, "secret", "s", 2025, "secret value every honest node proposes, 0 <= secret < 2^127-1")
	runCmd.Flags().IntVar(&runByzantineCount, "byzantine-count", 0, "number of nodes (from id 1 ascending) running the Byzantine behavior")
	runCmd.Flags().StringVar(&runByzantineBehavior, "byzantine-behavior", "both", "honest, corrupt-share, random-vote, or both")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 5*time.Second, "wall-clock deadline for the cluster to complete")
	runCmd.Flags().BoolVar(&runWire, "wire", false, "round-trip every broadcast share through CBOR instead of the in-process fast path")
	runCmd.Flags().BoolVar(&runFailFast, "fail-fast", false, "finalize with bottom on a missing share instead of waiting for it")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "log every protocol event to stderr")
}

// loadRunConfig builds the RunConfig that drives this invocation: read from
// --config if given, otherwise assembled from the flat flags above.
func loadRunConfig() (*config.RunConfig, error) {
	if runConfigPath != "" {
		data, err := os.ReadFile(runConfigPath)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", runConfigPath, err)
		}
		var cfg config.RunConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", runConfigPath, err)
		}
		return &cfg, nil
	}

	behavior, err := party.ParseBehavior(runByzantineBehavior)
	if err != nil {
		return nil, err
	}
	return &config.RunConfig{
		N:              runN,
		T:              runT,
		Secret:         big.NewInt(runSecret),
		Behavior:       behavior,
		ByzantineCount: runByzantineCount,
		Timeout:        runTimeout,
		Wire:           runWire,
		FailFast:       runFailFast,
	}, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.Logger(logging.Discard)
	if runVerbose {
		logger = logging.Std("ociorabad: ")
	}

	mode := node.Wait
	if cfg.FailFast {
		mode = node.FailFast
	}

	specs := make([]protocol.NodeSpec, 0, cfg.N)
	for _, id := range party.IDRange(cfg.N) {
		specs = append(specs, protocol.NodeSpec{ID: id, Behavior: cfg.BehaviorFor(id)})
	}
	transport := protocol.LocalTransport
	if cfg.Wire {
		transport = protocol.WireTransport
	}
	sim, err := protocol.NewSimulation(cfg.N, cfg.T, specs, transport, coin.DeterministicSource{}, logger, mode)
	if err != nil {
		return err
	}

	secrets := make(map[party.ID]*big.Int, cfg.N)
	for _, id := range party.IDRange(cfg.N) {
		secrets[id] = cfg.Secret
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()
	if err := sim.Run(ctx, secrets); err != nil {
		return err
	}

	if !sim.AllComplete() {
		return fmt.Errorf("cluster did not terminate within %s", cfg.Timeout)
	}

	analysis := protocol.Analyze(sim.Nodes)
	fmt.Printf("completed=%d/%d non-bottom=%d agreed=%v\n", analysis.CompletedCount, cfg.N, analysis.NonBottomCount, analysis.Agreed)
	if analysis.AgreedValue != nil {
		fmt.Printf("final=%s\n", analysis.AgreedValue)
	} else {
		fmt.Println("final=⊥")
	}
	if !analysis.Agreed {
		return fmt.Errorf("honest nodes disagree on the final value")
	}
	return nil
}
