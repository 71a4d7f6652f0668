package database

import (
	"errors"
	"fmt"
	"math"
	"time"

	"video-editor/internal/mediatypes"
	"video-editor/internal/timeline"
)

// Store errors
var (
	ErrNotFound       = errors.New("not found")
	ErrOverlap        = errors.New("clips overlap on a lane")
	ErrInvalidBounds  = errors.New("invalid clip bounds")
	ErrInvalidElement = errors.New("invalid clip")
	ErrInvalidProject = errors.New("invalid project")
)

// Project is a named timeline.
type Project struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	ElementCount int       `json:"elementCount"`
}

// Element is a stored clip: the engine fields plus the payload the editor
// needs to render it.
type Element struct {
	ID        string          `json:"id"`
	ProjectID string          `json:"projectId"`
	LaneID    string          `json:"laneId"`
	Kind      mediatypes.Kind `json:"kind"`
	StartTime float64         `json:"startTime"`
	EndTime   float64         `json:"endTime"`
	Content   string          `json:"content,omitempty"`
	MediaURL  string          `json:"mediaUrl,omitempty"`
	Volume    float64         `json:"volume"`
	FadeIn    float64         `json:"fadeIn,omitempty"`
	FadeOut   float64         `json:"fadeOut,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Duration returns the clip length.
func (e Element) Duration() float64 {
	return timeline.RoundTime(e.EndTime - e.StartTime)
}

// Timeline returns the engine view of the clip.
func (e Element) Timeline() timeline.Element {
	return timeline.Element{
		ID:        e.ID,
		LaneID:    e.LaneID,
		Kind:      string(e.Kind),
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
	}
}

// TimelineElements converts stored clips to engine elements.
func TimelineElements(elements []Element) []timeline.Element {
	out := make([]timeline.Element, len(elements))
	for i, el := range elements {
		out[i] = el.Timeline()
	}
	return out
}

// NewElement describes a clip to add. The start time is a candidate; the
// store moves it to the first free position on the lane.
type NewElement struct {
	LaneID    string          `json:"laneId"`
	Kind      mediatypes.Kind `json:"kind"`
	StartTime float64         `json:"startTime"`
	Duration  float64         `json:"duration"`
	Content   string          `json:"content,omitempty"`
	MediaURL  string          `json:"mediaUrl,omitempty"`
	Volume    *float64        `json:"volume,omitempty"`
	FadeIn    float64         `json:"fadeIn,omitempty"`
	FadeOut   float64         `json:"fadeOut,omitempty"`
}

// ElementPatch holds optional changes to a clip. Time and lane changes are
// checked against the lane invariant; payload changes are not.
type ElementPatch struct {
	LaneID    *string  `json:"laneId,omitempty"`
	StartTime *float64 `json:"startTime,omitempty"`
	EndTime   *float64 `json:"endTime,omitempty"`
	Content   *string  `json:"content,omitempty"`
	MediaURL  *string  `json:"mediaUrl,omitempty"`
	Volume    *float64 `json:"volume,omitempty"`
	FadeIn    *float64 `json:"fadeIn,omitempty"`
	FadeOut   *float64 `json:"fadeOut,omitempty"`
}

// Stats holds aggregate counts across all projects.
type Stats struct {
	TotalProjects   int            `json:"totalProjects"`
	TotalLanes      int            `json:"totalLanes"`
	TotalElements   int            `json:"totalElements"`
	ElementsByKind  map[string]int `json:"elementsByKind"`
	TimelineSeconds float64        `json:"timelineSeconds"`
}

func validBounds(start, end float64) bool {
	if math.IsNaN(start) || math.IsNaN(end) || math.IsInf(start, 0) || math.IsInf(end, 0) {
		return false
	}
	return start >= 0 && end > start && end <= timeline.MaxTime
}

// validateElement checks everything about a clip except overlaps.
func validateElement(el Element) error {
	if !el.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidElement, el.Kind)
	}
	if !mediatypes.Compatible(el.LaneID, el.Kind) {
		return fmt.Errorf("%w: %s clip cannot be placed on lane %q", ErrInvalidElement, el.Kind, el.LaneID)
	}
	if !validBounds(el.StartTime, el.EndTime) {
		return fmt.Errorf("%w: [%v, %v)", ErrInvalidBounds, el.StartTime, el.EndTime)
	}
	if el.Volume < 0 || el.FadeIn < 0 || el.FadeOut < 0 {
		return fmt.Errorf("%w: volume and fades must not be negative", ErrInvalidElement)
	}
	return nil
}

// checkLanes asserts the non-overlap invariant over a project's clips.
func checkLanes(elements []Element) error {
	if conflicts := timeline.Validate(TimelineElements(elements)); len(conflicts) > 0 {
		c := conflicts[0]
		return fmt.Errorf("%w: %s and %s on %s", ErrOverlap, c.First, c.Second, c.LaneID)
	}
	return nil
}
