package dynamo_test

import (
	"context"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fibersim/internal/dynamo"
)

func uniformFibers(rng *rand.Rand, limit uint64, count int) []uint64 {
	fibers := make([]uint64, count)
	for i := range fibers {
		fibers[i] = uint64(rng.Int63n(int64(limit))) + 1
	}
	return fibers
}

var _ = Describe("the fiber-coupled cycle", func() {
	var rng *rand.Rand

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(GinkgoRandomSeed()))
	})

	Context("when K ≡ 4 (mod p)", func() {
		var sys *dynamo.System

		BeforeEach(func() {
			var err error
			sys, err = dynamo.NewSystem(4, dynamo.DefaultPrime)
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns every window fiber to itself after each full cycle", func() {
			for _, n0 := range uniformFibers(rng, sys.WindowLimit(), 500) {
				s := dynamo.NewState(n0)
				for cycle := 0; cycle < 5; cycle++ {
					for i := 0; i < 3; i++ {
						s = sys.Step(s)
						Expect(s.Alive()).To(BeTrue())
					}
					Expect(s).To(Equal(dynamo.NewState(n0)))
				}
			}
		})

		It("keeps the window edges alive", func() {
			for _, n0 := range []uint64{1, sys.WindowLimit() - 1, sys.WindowLimit()} {
				out, err := sys.Simulate(n0, 300)
				Expect(err).NotTo(HaveOccurred())
				Expect(out.Survived).To(BeTrue(), "fiber %d", n0)
				Expect(out.Lifetime).To(Equal(300))
			}
		})

		It("survives a uniform ensemble in full", func() {
			batch, err := sys.SimulateEnsemble(context.Background(), uniformFibers(rng, sys.WindowLimit(), 5000), 60)
			Expect(err).NotTo(HaveOccurred())
			Expect(batch.SurvivalRate()).To(Equal(100.0))
		})

		It("holds for other primes as well", func() {
			for _, p := range []int64{101, 7919, 1_000_000_009} {
				small, err := dynamo.NewSystem(4, p)
				Expect(err).NotTo(HaveOccurred())
				Expect(small.IsIdentityCycle()).To(BeTrue())

				for n0 := uint64(0); n0 <= small.WindowLimit() && n0 < 2000; n0++ {
					out, err := small.Simulate(n0, 90)
					Expect(err).NotTo(HaveOccurred())
					Expect(out.Survived).To(BeTrue(), "p=%d n=%d", p, n0)
					Expect(out.Final).To(Equal(dynamo.NewState(n0)))
				}
			}
		})
	})

	DescribeTable("extinction for K ≠ 4 over a uniform window sample",
		func(k int64) {
			sys, err := dynamo.NewSystem(k, dynamo.DefaultPrime)
			Expect(err).NotTo(HaveOccurred())

			batch, err := sys.SimulateEnsemble(context.Background(), uniformFibers(rng, sys.WindowLimit(), 4000), 60)
			Expect(err).NotTo(HaveOccurred())
			Expect(batch.SurvivalRate()).To(BeNumerically("<", 1.0))
		},
		Entry("K=2", int64(2)),
		Entry("K=3", int64(3)),
		Entry("K=5", int64(5)),
		Entry("K=6", int64(6)),
		Entry("K=8", int64(8)),
		Entry("K=16", int64(16)),
	)

	Describe("the absorbing state", func() {
		It("never revives a dead trajectory", func() {
			sys, err := dynamo.NewSystem(5, dynamo.DefaultPrime)
			Expect(err).NotTo(HaveOccurred())

			out, err := sys.Simulate(100_000_000, 200)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Survived).To(BeFalse())

			s := out.Final
			for i := 0; i < 50; i++ {
				s = sys.Step(s)
				Expect(s.Alive()).To(BeFalse())
			}
			Expect(s).To(Equal(out.Final))

			longer, err := sys.Simulate(100_000_000, 1000)
			Expect(err).NotTo(HaveOccurred())
			Expect(longer.Lifetime).To(Equal(out.Lifetime))
		})

		It("is entered only through a positive carry at an odd step", func() {
			sys, err := dynamo.NewSystem(3, dynamo.DefaultPrime)
			Expect(err).NotTo(HaveOccurred())

			for _, n0 := range uniformFibers(rng, sys.WindowLimit(), 200) {
				points, err := sys.Trace(n0, 120)
				Expect(err).NotTo(HaveOccurred())
				for _, pt := range points[1:] {
					if pt.State.Alive() {
						Expect(pt.Carry).To(BeZero())
						continue
					}
					Expect(pt.Kind).To(Equal(dynamo.OddStep))
					Expect(pt.Carry).To(BeNumerically(">", 0))
					Expect(pt.State.Base).To(Equal(4 + pt.Carry))
				}
			}
		})
	})
})
