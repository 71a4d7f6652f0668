// Package mediatypes provides the clip kinds of the editor and the rules that
// tie them to lanes.
//
// This package exists as a dependency-free foundation that can be imported by other
// packages without creating import cycles. It contains primitive types, constants,
// and pure utility functions with no external dependencies beyond the standard library.
//
// # Kinds
//
// Every clip on the timeline has one of four kinds:
//
//	mediatypes.KindText  // Title and caption overlays
//	mediatypes.KindImage // Still images
//	mediatypes.KindVideo // Video footage
//	mediatypes.KindAudio // Music and sound effects
//
// # Lanes
//
// Lanes are named "<Prefix>-<n>". Images and videos share the Media lanes:
//
//	mediatypes.LaneID(mediatypes.KindVideo, 0) // "Media-0"
//	mediatypes.Compatible("Media-0", mediatypes.KindImage) // true
//
// # Extension Detection
//
// KindFromURL classifies a media URL by its extension; the store uses it when
// a clip is added without an explicit kind:
//
//	kind, ok := mediatypes.KindFromURL("https://cdn.example.com/intro.mp4?sig=x")
//	// kind == KindVideo
//
// # Trimming
//
// CanTrim reports whether a clip's edges may be dragged. Video clips keep the
// length of their source.
package mediatypes
