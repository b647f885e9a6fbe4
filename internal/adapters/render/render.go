// Package render writes a team's passing network to standalone files: an
// ECharts HTML page for viewing offline, or the JSON graph document.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/passnet/internal/domain/model"
	"github.com/okian/passnet/internal/domain/passing"
)

// Format selects the output encoding.
type Format string

const (
	FormatHTML Format = "html"
	FormatJSON Format = "json"
)

// ParseFormat resolves a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatHTML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Ext returns the file extension for f, without the dot.
func (f Format) Ext() string { return string(f) }

// Document is everything a rendered file shows.
type Document struct {
	Team        model.Team    `json:"team"`
	Season      int           `json:"season"`
	Graph       passing.Graph `json:"graph"`
	Stats       passing.Stats `json:"stats"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// NewDocument assembles a document for g.
func NewDocument(team model.Team, season int, g passing.Graph, now time.Time) Document {
	if g.Nodes == nil {
		g.Nodes = []passing.Node{}
	}
	if g.Edges == nil {
		g.Edges = []passing.Edge{}
	}
	return Document{
		Team:        team,
		Season:      season,
		Graph:       g,
		Stats:       passing.Summarize(g),
		GeneratedAt: now.UTC(),
	}
}

// Title is the heading shown on rendered output.
func (d Document) Title() string {
	name := d.Team.FullName
	if name == "" {
		name = strings.TrimSpace(d.Team.City + " " + d.Team.Name)
	}
	if name == "" {
		name = d.Team.ID
	}
	if d.Season > 0 {
		return fmt.Sprintf("%s passing network (%d)", name, d.Season)
	}
	return name + " passing network"
}

// Write encodes doc to w in format f.
func Write(w io.Writer, f Format, doc Document) error {
	var err error
	switch f {
	case FormatHTML:
		err = HTML(w, doc)
	case FormatJSON:
		err = JSON(w, doc)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRender, f, err)
	}
	return nil
}

// JSON writes doc as indented JSON.
func JSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
