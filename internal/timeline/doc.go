// Package timeline implements the track positioning engine of the editor.
//
// The engine keeps clips on a lane from overlapping while the user drags,
// resizes or moves them. It works on plain snapshots of [Element] values and
// never owns the clip list: callers hand it the current state through a
// [Store] and receive new bounds back through the same interface.
//
// The package is organised leaf-first:
//
//   - Time/pixel conversion and canonical rounding ([RoundTime])
//   - Overlap detection scoped to one lane ([Detector])
//   - Drop and snap position resolution ([Positioner])
//   - Edge dragging with ratcheted cascading push ([ResizeSession])
//   - Whole-clip dragging with a ghost preview ([MoveSession])
//   - Cross-lane edge alignment hints ([SnapGuide])
//   - A single owned drag controller with scoped pointer capture ([Controller])
//
// All computation is synchronous. Times are seconds, rounded to one
// millisecond before they are stored or compared so that clips meant to
// touch compare equal.
package timeline
