package mediatypes

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
)

// Kind represents the type of a timeline clip.
type Kind string

const (
	// KindText represents a text overlay.
	KindText Kind = "text"
	// KindImage represents a still image.
	KindImage Kind = "image"
	// KindVideo represents a video clip.
	KindVideo Kind = "video"
	// KindAudio represents an audio clip.
	KindAudio Kind = "audio"
)

// Kinds lists every known kind in display order.
var Kinds = []Kind{KindText, KindImage, KindVideo, KindAudio}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindImage, KindVideo, KindAudio:
		return true
	}
	return false
}

// Lane prefixes.
const (
	PrefixText  = "Text"
	PrefixMedia = "Media"
	PrefixAudio = "Audio"
)

// ImageExtensions maps file extensions to whether they are supported image formats.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".svg":  true,
	".tiff": true,
	".tif":  true,
}

// VideoExtensions maps file extensions to whether they are supported video formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
}

// AudioExtensions maps file extensions to whether they are supported audio formats.
var AudioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".flac": true,
	".aac":  true,
	".m4a":  true,
}

// KindFromExtension returns the clip kind for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".jpg").
// Text clips have no source file, so only image, video and audio are returned.
func KindFromExtension(ext string) (Kind, bool) {
	switch {
	case ImageExtensions[ext]:
		return KindImage, true
	case VideoExtensions[ext]:
		return KindVideo, true
	case AudioExtensions[ext]:
		return KindAudio, true
	}
	return "", false
}

// KindFromURL classifies a media URL or file path by its extension,
// ignoring any query string or fragment.
func KindFromURL(raw string) (Kind, bool) {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	return KindFromExtension(strings.ToLower(path.Ext(p)))
}

// LanePrefix returns the lane prefix that clips of kind k live in.
func LanePrefix(k Kind) string {
	switch k {
	case KindText:
		return PrefixText
	case KindImage, KindVideo:
		return PrefixMedia
	case KindAudio:
		return PrefixAudio
	}
	return ""
}

// LaneID returns the id of the n-th lane for clips of kind k.
func LaneID(k Kind, n int) string {
	return fmt.Sprintf("%s-%d", LanePrefix(k), n)
}

// ParseLaneID splits a lane id into its prefix and index.
func ParseLaneID(laneID string) (prefix string, n int, err error) {
	prefix, num, ok := strings.Cut(laneID, "-")
	if !ok || prefix == "" {
		return "", 0, fmt.Errorf("invalid lane id %q", laneID)
	}
	n, err = strconv.Atoi(num)
	if err != nil || n < 0 {
		return "", 0, fmt.Errorf("invalid lane index in %q", laneID)
	}
	switch prefix {
	case PrefixText, PrefixMedia, PrefixAudio:
		return prefix, n, nil
	}
	return "", 0, fmt.Errorf("unknown lane prefix %q", prefix)
}

// Compatible reports whether a clip of kind k may be placed on laneID.
func Compatible(laneID string, k Kind) bool {
	prefix, _, err := ParseLaneID(laneID)
	if err != nil {
		return false
	}
	return prefix == LanePrefix(k)
}

// CanTrim reports whether clips of kind k may be resized by dragging an edge.
// Video clips keep the length of their source footage.
func CanTrim(k Kind) bool {
	return k.Valid() && k != KindVideo
}
