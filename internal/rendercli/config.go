package rendercli

import (
	"path/filepath"
	"strconv"
	"time"

	"github.com/okian/passnet/internal/adapters/render"
)

// Config holds configuration for one render run.
type Config struct {
	BaseURL     string        // Base URL of the stats API
	TeamID      string        // Team to render
	Season      int           // Season for the team lookup
	OutputFile  string        // Output path; derived from the team when empty
	Format      render.Format // html or json
	Timeout     time.Duration // Per-request timeout
	Concurrency int           // Parallel game fetches
	Verbose     bool          // Enable debug logging
}

// Output returns the file the run writes to.
func (c *Config) Output() string {
	if c.OutputFile != "" {
		return c.OutputFile
	}
	name := c.TeamID + "_" + strconv.Itoa(c.Season) + "." + c.Format.Ext()
	return filepath.Clean(name)
}

// Result summarizes a finished run.
type Result struct {
	File     string
	Nodes    int
	Edges    int
	Passes   int
	Invalid  int
	Duration time.Duration
}
