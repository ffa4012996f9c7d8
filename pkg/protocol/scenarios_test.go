package protocol_test

import (
	"context"
	"math/big"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/luxfi/ocioraba/pkg/coin"
	"github.com/luxfi/ocioraba/pkg/field"
	"github.com/luxfi/ocioraba/pkg/logging"
	"github.com/luxfi/ocioraba/pkg/node"
	"github.com/luxfi/ocioraba/pkg/party"
	"github.com/luxfi/ocioraba/pkg/protocol"
)

var _ = Describe("larger clusters with a Byzantine minority", func() {
	// n=7, t=2, secret=42, nodes 1 and 2 Byzantine.
	It("agrees on the proposed secret despite two corrupt-and-random-vote nodes", func() {
		n, t := 7, 2
		specs := protocol.FirstTByzantineSpecs(n, t, party.ByzantineBoth)
		sim, err := protocol.NewSimulation(n, t, specs, protocol.LocalTransport, coin.DeterministicSource{}, logging.Discard, node.Wait)
		Expect(err).NotTo(HaveOccurred())

		secret := big.NewInt(42)
		secrets := make(map[party.ID]*big.Int, n)
		for _, id := range party.IDRange(n) {
			secrets[id] = secret
		}
		Expect(sim.Run(context.Background(), secrets)).To(Succeed())
		Expect(sim.AllComplete()).To(BeTrue())

		analysis := protocol.Analyze(sim.Nodes)
		Expect(analysis.NonBottomCount).To(BeNumerically(">=", n-t-1))
		if analysis.NonBottomCount > 0 {
			Expect(analysis.Agreed).To(BeTrue())
			expected := field.MustFromBigInt(secret)
			Expect(expected.Equal(*analysis.AgreedValue)).To(BeTrue())
		}
	})

	// n=10, t=3, secret=P-1 (the top of the field's range), nodes 1-3
	// Byzantine: the boundary value must round-trip exactly like any other.
	It("reconstructs the maximal field element with three Byzantine nodes", func() {
		n, t := 10, 3
		specs := protocol.FirstTByzantineSpecs(n, t, party.ByzantineBoth)
		sim, err := protocol.NewSimulation(n, t, specs, protocol.LocalTransport, coin.DeterministicSource{}, logging.Discard, node.Wait)
		Expect(err).NotTo(HaveOccurred())

		secret := new(big.Int).Sub(field.Modulus(), big.NewInt(1))
		secrets := make(map[party.ID]*big.Int, n)
		for _, id := range party.IDRange(n) {
			secrets[id] = secret
		}
		Expect(sim.Run(context.Background(), secrets)).To(Succeed())
		Expect(sim.AllComplete()).To(BeTrue())

		analysis := protocol.Analyze(sim.Nodes)
		Expect(analysis.NonBottomCount).To(BeNumerically(">=", n-t-1))
		if analysis.NonBottomCount > 0 {
			Expect(analysis.Agreed).To(BeTrue())
			expected := field.MustFromBigInt(secret)
			Expect(expected.Equal(*analysis.AgreedValue)).To(BeTrue())
		}
	})
})
