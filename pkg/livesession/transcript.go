package livesession

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role identifies the speaker of a transcript entry.
type Role string

const (
	// RoleUser marks transcribed user speech.
	RoleUser Role = "user"
	// RoleModel marks transcribed model speech.
	RoleModel Role = "model"
)

// Entry is one finalized transcript entry. Entries are immutable once
// created and appended to an ordered log.
type Entry struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Assembler accumulates streaming partial transcripts into finalized
// turn entries. Input and output deltas collect in pending buffers that
// are visible as live partial text; a turn completion flushes both
// non-empty buffers into the log, input before output.
type Assembler struct {
	mu            sync.Mutex
	pendingInput  strings.Builder
	pendingOutput strings.Builder
	responding    bool
	entries       []Entry
}

// NewAssembler creates an empty transcript assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// AddInputDelta appends partial transcription of user speech.
func (a *Assembler) AddInputDelta(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pendingInput.WriteString(text)
}

// AddOutputDelta appends partial transcription of model speech and marks
// the model as responding.
func (a *Assembler) AddOutputDelta(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pendingOutput.WriteString(text)
	a.responding = true
}

// MarkResponding marks the model as responding without transcript text,
// e.g. when an audio chunk arrives before its transcription.
func (a *Assembler) MarkResponding() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responding = true
}

// PendingInput returns the live partial user transcript.
func (a *Assembler) PendingInput() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pendingInput.String()
}

// PendingOutput returns the live partial model transcript.
func (a *Assembler) PendingOutput() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pendingOutput.String()
}

// Responding reports whether the model is currently producing a response.
func (a *Assembler) Responding() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.responding
}

// CompleteTurn flushes both non-empty pending buffers into the log as
// entries timestamped now, input before output, then clears the buffers
// and the responding indicator. It returns the newly created entries.
func (a *Assembler) CompleteTurn(now time.Time) []Entry {
	a.mu.Lock()
	defer a.mu.Unlock()

	var created []Entry
	if a.pendingInput.Len() > 0 {
		created = append(created, Entry{
			ID:        uuid.New().String(),
			Role:      RoleUser,
			Text:      a.pendingInput.String(),
			Timestamp: now,
		})
	}
	if a.pendingOutput.Len() > 0 {
		created = append(created, Entry{
			ID:        uuid.New().String(),
			Role:      RoleModel,
			Text:      a.pendingOutput.String(),
			Timestamp: now,
		})
	}
	a.entries = append(a.entries, created...)
	a.pendingInput.Reset()
	a.pendingOutput.Reset()
	a.responding = false
	return created
}

// Entries returns a copy of the ordered transcript log.
func (a *Assembler) Entries() []Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}
