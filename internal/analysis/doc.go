// Package analysis runs the verification protocols built on the kernel.
//
// Each protocol answers one question about a (K, p) system:
//
//   - [Persistence]: share of an ensemble still alive after a run
//   - [RegionalCoverage]: survival per equal slice of the safe window
//   - [BoundaryPoints]: survival of fibers at fixed window percentiles
//   - [BridgeContinuity]: whether survivors cover the window without gaps
//   - [Lifetimes]: mean, median and maximum lifetime of a batch
//   - [ReturnRetention]: share of the window the return map keeps in place
//   - [ReturnOrder], [IdentityScan]: algebraic order of the return multiplier
//   - [CarryGates]: carry statistics inside and around the window
//
// # Verdicts
//
// Survival rates are classified with [Classify]:
//
//	rate, _ := analysis.Persistence(ctx, sys, fibers, 60)
//	if analysis.Classify(rate) == analysis.Persistent {
//	    // every sampled trajectory stayed on the cycle
//	}
package analysis
