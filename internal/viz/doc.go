// Package viz provides the Bubble Tea front ends for the animation
// engines.
//
//   - [App]: the landing page, with a particle hero, a stats strip and a
//     rain-backed call to action
//   - [Live]: one engine full-screen next to frame-time stats
//   - [Stage]: the panes, frame clock and resize source both share
//
// # Key Bindings
//
//	Space - Pause/Resume animation
//	T     - Toggle dark/light theme (persisted)
//	J/K   - Scroll the landing page
//	Enter - Call to action
//	Q     - Quit
//
// Every tea tick advances the frame clock once, so engines repaint at the
// program's tick rate. Narrow terminals tick at half rate.
package viz
