// Package viz provides terminal views built on Bubble Tea:
//
//   - [Model]: live diffusion run with a profile or shaded plate, running
//     diagnostics and GIF capture
//   - [Picker]: preset menu that launches a [Model]
//   - [GalaxyView]: rotating point cloud of a generated galaxy
//
// # Key Bindings (live run)
//
//	Space - Pause/Resume
//	R     - Reset to the initial field
//	+/-   - Steps per tick
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	[]    - Scrub through recent frames
package viz
