// Package viz renders sweeps and power sessions in the terminal.
//
//   - [PowerCurve]: asciigraph plot of watts against speed
//   - [TracePlot]: asciigraph plot of a recorded session
//   - [Summary]: lipgloss key/value panel
//   - [Replay]: Bubble Tea model that replays a session like the
//     trainer's web page
//
// # Key Bindings
//
//	Space - Play/Pause
//	R     - Restart from the first sample
//	+/-   - Change replay speed
//	Q     - Quit
package viz
