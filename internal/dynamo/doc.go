// Package dynamo provides the simulation kernel for the fiber-coupled
// 3-cycle system.
//
// A trajectory is a pair (w, n): the base w runs through the cycle 1 → 4 → 2
// and the fiber n lives in the finite field Z_p. Each step either halves both
// (even base) or lifts the base by 3w+1 plus the carry floor(K·n/p) while the
// fiber is multiplied by K (odd base). A trajectory is alive while w ∈ {1,2,4};
// any carry pushes it out of the cycle for good.
//
//   - [State]: base/fiber pair
//   - [System]: validated (K, p) with precomputed inverses and window limit
//   - [System.Step], [System.Simulate]: single trajectory
//   - [System.SimulateEnsemble]: independent members across workers
//   - [System.Trace]: per-step log with carries
//
// # Example
//
//	sys, err := dynamo.NewSystem(4, dynamo.DefaultPrime)
//	if err != nil {
//		return err
//	}
//	out, _ := sys.Simulate(250_000_000, 60)
//	fmt.Println(out.Survived, out.Lifetime)
//
// # Thread Safety
//
// A [System] is immutable after construction and may be shared freely.
// [Batch] values are written by the ensemble workers only before
// SimulateEnsemble returns.
package dynamo
