package cli

import (
	"os"
	"path/filepath"
)

// Paths provides access to the livedesk directory structure
type Paths struct {
	// HomeDir is the user's home directory
	HomeDir string
}

// NewPaths creates a new Paths instance
func NewPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{HomeDir: home}, nil
}

// BaseDir returns the base livedesk directory (~/.livedesk)
func (p *Paths) BaseDir() string {
	return filepath.Join(p.HomeDir, DefaultBaseDir)
}

// ConfigFile returns the config file path (~/.livedesk/config.yaml)
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.BaseDir(), DefaultConfigFile)
}

// TranscriptDir returns the transcript directory (~/.livedesk/transcripts)
func (p *Paths) TranscriptDir() string {
	return filepath.Join(p.BaseDir(), "transcripts")
}

// EnsureBaseDir creates the base directory if it doesn't exist
func (p *Paths) EnsureBaseDir() error {
	return os.MkdirAll(p.BaseDir(), 0755)
}

// EnsureTranscriptDir creates the transcript directory if it doesn't exist
func (p *Paths) EnsureTranscriptDir() error {
	return os.MkdirAll(p.TranscriptDir(), 0755)
}

// TranscriptPath returns a path within the transcript directory
func (p *Paths) TranscriptPath(name string) string {
	return filepath.Join(p.TranscriptDir(), name)
}
