// Package viz provides terminal views of cloth simulations and weaving
// drafts.
//
// The live cloth runs as a Bubble Tea program:
//
//   - [ClothModel]: the cloth drawn on a braille [Canvas], with a stats panel
//   - [RunInteractive]: a material picker that leads into the live cloth
//   - [RenderDraft]: a colored block rendering of a draft's drawdown
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Rebuild the cloth
//	C     - Next tool in the current mode
//	M     - Next mode (simulate, paint, edit)
//	D     - Start/stop a selection drag
//	P/U   - Pin/unpin the selection
//	+/-   - Raise/lower the use duration
//	Arrows move the pointer; the mouse places it directly.
package viz
