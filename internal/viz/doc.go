// Package viz replays a finished trajectory in the terminal.
//
// [Trace] is a Bubble Tea model that draws the projected orbit point by
// point on a braille [Canvas] and, once the replay reaches the end, overlays
// the full orbit as a dashed curve.
//
// # Key Bindings
//
//	Space - Pause/Resume replay
//	R     - Restart from the first sample
//	Q     - Quit
package viz
