// Package viz provides the live terminal view of an ensemble.
//
// The view steps every member once per tick and plots alive fibers on a
// Braille canvas: the x axis is the fiber's position in Z_p, the y axis the
// member index, and a vertical rule marks the safe window limit. A survival
// graph and the current counts sit beside the canvas.
//
// # Usage
//
//	err := viz.Run(viz.LiveConfig{
//	    KValues: []int64{4, 5},
//	    Prime:   dynamo.DefaultPrime,
//	    Members: 400,
//	    Steps:   90,
//	})
//
// # Controls
//
//	Space    pause or resume
//	Tab      next K (resets the ensemble)
//	R        reset with the same seed
//	N        reset with a new seed
//	?        help
//	Q        quit
package viz
