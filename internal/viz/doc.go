// Package viz provides the terminal front end of the solar system viewer.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view stepping a simulation and drawing it through the camera
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//   - [RunInteractive]: viewpoint menu in front of the live view
//   - Theme selection with 3 built-in color schemes
//
// # Key Bindings
//
//	W/S A/D - Move forward/back, strafe
//	Q/E     - Yaw
//	I/K     - Pitch
//	J/L     - Roll
//	=/-     - Double/halve time speed
//	./,     - Camera faster/slower
//	O       - Toggle orbit rings
//	Tab     - Face the next body
//	Space   - Pause/Resume simulation
//	T       - Cycle color themes
//	G       - Toggle GIF recording
//	?       - Show help overlay
//
// Terminals report key repeats but no releases, so every movement key press
// moves the camera for exactly one frame.
//
// # Recording
//
// The visualization supports recording sessions as GIF animations using the
// G key. Pressing G again, or quitting, writes the file.
package viz
