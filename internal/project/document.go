package project

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"video-editor/internal/database"
	"video-editor/internal/mediatypes"
	"video-editor/internal/timeline"
)

// FormatVersion is the document version written by Encode.
const FormatVersion = 1

// ErrInvalidDocument is returned by Decode for any malformed document.
var ErrInvalidDocument = errors.New("invalid project document")

// Document is the YAML form of a project.
type Document struct {
	Version int    `yaml:"version"`
	ID      string `yaml:"id,omitempty"`
	Name    string `yaml:"name"`
	Lanes   []Lane `yaml:"lanes"`
}

// Lane holds the clips of one lane ordered by start time.
type Lane struct {
	ID       string    `yaml:"id"`
	Elements []Element `yaml:"elements"`
}

// Element is a clip inside a lane.
type Element struct {
	ID       string          `yaml:"id,omitempty"`
	Kind     mediatypes.Kind `yaml:"kind"`
	Start    float64         `yaml:"start"`
	End      float64         `yaml:"end"`
	Content  string          `yaml:"content,omitempty"`
	MediaURL string          `yaml:"media_url,omitempty"`
	Volume   *float64        `yaml:"volume,omitempty"`
	FadeIn   float64         `yaml:"fade_in,omitempty"`
	FadeOut  float64         `yaml:"fade_out,omitempty"`
}

// NewDocument groups a project's clips by lane. Lanes are sorted by id and
// clips by start time.
func NewDocument(p database.Project, elements []database.Element) *Document {
	doc := &Document{Version: FormatVersion, ID: p.ID, Name: p.Name, Lanes: []Lane{}}

	byLane := make(map[string][]database.Element)
	for _, el := range elements {
		byLane[el.LaneID] = append(byLane[el.LaneID], el)
	}
	laneIDs := make([]string, 0, len(byLane))
	for id := range byLane {
		laneIDs = append(laneIDs, id)
	}
	sort.Strings(laneIDs)

	for _, id := range laneIDs {
		clips := byLane[id]
		sort.SliceStable(clips, func(i, j int) bool { return clips[i].StartTime < clips[j].StartTime })

		lane := Lane{ID: id, Elements: make([]Element, 0, len(clips))}
		for _, el := range clips {
			e := Element{
				ID:       el.ID,
				Kind:     el.Kind,
				Start:    el.StartTime,
				End:      el.EndTime,
				Content:  el.Content,
				MediaURL: el.MediaURL,
				FadeIn:   el.FadeIn,
				FadeOut:  el.FadeOut,
			}
			if el.Volume != 1 {
				v := el.Volume
				e.Volume = &v
			}
			lane.Elements = append(lane.Elements, e)
		}
		doc.Lanes = append(doc.Lanes, lane)
	}
	return doc
}

// Encode writes a project as YAML.
func Encode(w io.Writer, p database.Project, elements []database.Element) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(p, elements)); err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	return enc.Close()
}

// Decode reads and validates a YAML project document.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks versions, kinds, lane compatibility, bounds and the lane
// non-overlap invariant.
func (d *Document) Validate() error {
	if d.Version != FormatVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidDocument, d.Version)
	}
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDocument)
	}

	seenLanes := make(map[string]bool, len(d.Lanes))
	seenIDs := make(map[string]bool)
	var all []timeline.Element
	for _, lane := range d.Lanes {
		if _, _, err := mediatypes.ParseLaneID(lane.ID); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		if seenLanes[lane.ID] {
			return fmt.Errorf("%w: lane %s listed twice", ErrInvalidDocument, lane.ID)
		}
		seenLanes[lane.ID] = true

		for i, el := range lane.Elements {
			where := fmt.Sprintf("lane %s clip %d", lane.ID, i)
			if el.ID != "" {
				if seenIDs[el.ID] {
					return fmt.Errorf("%w: %s: duplicate id %s", ErrInvalidDocument, where, el.ID)
				}
				seenIDs[el.ID] = true
				where = fmt.Sprintf("lane %s clip %s", lane.ID, el.ID)
			}
			if !el.Kind.Valid() {
				return fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidDocument, where, el.Kind)
			}
			if !mediatypes.Compatible(lane.ID, el.Kind) {
				return fmt.Errorf("%w: %s: %s clip on a %s lane", ErrInvalidDocument, where, el.Kind, lane.ID)
			}
			if el.Start < 0 || el.End-el.Start < timeline.MinDuration-1e-9 {
				return fmt.Errorf("%w: %s: bounds [%v, %v) must start at or after 0 and last at least %vs",
					ErrInvalidDocument, where, el.Start, el.End, timeline.MinDuration)
			}
			if (el.Volume != nil && *el.Volume < 0) || el.FadeIn < 0 || el.FadeOut < 0 {
				return fmt.Errorf("%w: %s: volume and fades must not be negative", ErrInvalidDocument, where)
			}
			all = append(all, timeline.Element{
				ID:        fmt.Sprintf("%s#%d", lane.ID, i),
				LaneID:    lane.ID,
				StartTime: timeline.RoundTime(el.Start),
				EndTime:   timeline.RoundTime(el.End),
			})
		}
	}

	if conflicts := timeline.Validate(all); len(conflicts) > 0 {
		c := conflicts[0]
		return fmt.Errorf("%w: clips %s and %s overlap", ErrInvalidDocument, c.First, c.Second)
	}
	return nil
}

// Project returns the project header of the document.
func (d *Document) Project() database.Project {
	return database.Project{ID: d.ID, Name: d.Name}
}

// Elements flattens the document into store clips.
func (d *Document) Elements() []database.Element {
	var out []database.Element
	for _, lane := range d.Lanes {
		for _, el := range lane.Elements {
			volume := 1.0
			if el.Volume != nil {
				volume = *el.Volume
			}
			out = append(out, database.Element{
				ID:        el.ID,
				ProjectID: d.ID,
				LaneID:    lane.ID,
				Kind:      el.Kind,
				StartTime: timeline.RoundTime(el.Start),
				EndTime:   timeline.RoundTime(el.End),
				Content:   el.Content,
				MediaURL:  el.MediaURL,
				Volume:    volume,
				FadeIn:    el.FadeIn,
				FadeOut:   el.FadeOut,
			})
		}
	}
	return out
}
