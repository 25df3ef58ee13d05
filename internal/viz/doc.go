// Package viz is the terminal display surface for the simulation.
//
// It implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: the bubbletea program driving a [sim.Loop]
//   - [Surface]: a [sim.Surface] over a braille [Canvas]
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	Space  - Pause/Resume simulation
//	R      - Reset to initial state
//	Up/K   - Increase G
//	Down/J - Decrease G
//	T      - Cycle color themes
//	?      - Show help overlay
//	Q      - Quit
//
// Bodies are grabbed with the left mouse button. The program must be
// started with mouse cell motion enabled for drags to be reported.
package viz
