// Package viz is the terminal front-end for a planet simulation.
//
// It only ever reads [sim.Simulation.Snapshot] and diagnostic copies; it never
// touches live body state.
//
//   - [Report]: lipgloss summary of a finished run with an asciigraph plot
//   - [Watch]: Bubble Tea loop that drives one tick per frame
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Rebuild the scenario
//	+/-   - Faster/slower simulated time
//	Q     - Quit
package viz
