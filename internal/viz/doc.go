// Package viz renders the simulation in the terminal.
//
// The live view is a Bubble Tea program drawing onto a [Canvas], a braille
// dot canvas that gives (width*2) x (height*4) addressable dots per terminal
// cell. Bodies are drawn as filled discs sized by ln(mass), trails as dotted
// paths, and the starfield twinkles behind them.
//
// # Key bindings
//
//	Space - pause / resume
//	R     - reset with a fresh scenario
//	T     - cycle color themes
//	G     - toggle GIF recording
//	S     - save an SVG snapshot
//	+/-   - zoom
//	?     - help overlay
//	Q     - quit
//
// Snapshots can also be exported as SVG with [WorldSVG], which preserves body
// colors and trail alpha that the monochrome canvas cannot show.
package viz
