// Package control turns user input into camera and simulation commands.
//
// Continuous commands (movement and rotation) are held keys and travel as an
// [Intent], an immutable bitset. One-shot commands (time speed, orbit
// visibility, camera speed) travel as [Command] values and fire once.
//
// Input callbacks only ever touch a [Latch]:
//
//	var latch control.Latch
//	latch.Press(control.Forward)      // key down
//	latch.Release(control.Forward)    // key up
//	latch.Trigger(control.ToggleOrbits)
//	intent, cmds := latch.Snapshot()  // once per frame
//	control.Apply(cam, intent)
//
// The frame loop is the only consumer, so the latch is the single hand-off
// point between input handling and simulation state.
package control
