package livesession

import (
	"testing"
	"time"
)

func TestAssemblerAccumulatesDeltas(t *testing.T) {
	a := NewAssembler()

	a.AddInputDelta("Hel")
	a.AddInputDelta("lo")
	if got := a.PendingInput(); got != "Hello" {
		t.Errorf("pending input = %q, want %q", got, "Hello")
	}

	a.AddOutputDelta("Hi ")
	a.AddOutputDelta("there")
	if got := a.PendingOutput(); got != "Hi there" {
		t.Errorf("pending output = %q, want %q", got, "Hi there")
	}
	if !a.Responding() {
		t.Error("responding = false after output delta")
	}
}

func TestAssemblerCompleteTurn(t *testing.T) {
	a := NewAssembler()
	a.AddInputDelta("what is this chart?")
	a.AddOutputDelta("It shows revenue by quarter.")

	now := time.Now()
	created := a.CompleteTurn(now)
	if len(created) != 2 {
		t.Fatalf("got %d entries, want 2", len(created))
	}
	if created[0].Role != RoleUser || created[0].Text != "what is this chart?" {
		t.Errorf("first entry = %+v, want user question", created[0])
	}
	if created[1].Role != RoleModel || created[1].Text != "It shows revenue by quarter." {
		t.Errorf("second entry = %+v, want model answer", created[1])
	}
	for i, e := range created {
		if e.ID == "" {
			t.Errorf("entry %d has empty id", i)
		}
		if !e.Timestamp.Equal(now) {
			t.Errorf("entry %d timestamp = %v, want %v", i, e.Timestamp, now)
		}
	}

	if a.PendingInput() != "" || a.PendingOutput() != "" {
		t.Error("pending buffers not cleared")
	}
	if a.Responding() {
		t.Error("responding not cleared")
	}
	if got := a.Entries(); len(got) != 2 {
		t.Errorf("log has %d entries, want 2", len(got))
	}
}

func TestAssemblerCompleteTurnSkipsEmptyBuffers(t *testing.T) {
	a := NewAssembler()
	a.AddOutputDelta("unprompted greeting")

	created := a.CompleteTurn(time.Now())
	if len(created) != 1 {
		t.Fatalf("got %d entries, want 1", len(created))
	}
	if created[0].Role != RoleModel {
		t.Errorf("role = %q, want %q", created[0].Role, RoleModel)
	}

	// A turn with nothing pending creates nothing.
	if created := a.CompleteTurn(time.Now()); len(created) != 0 {
		t.Errorf("empty turn created %d entries", len(created))
	}
}

func TestAssemblerMarkResponding(t *testing.T) {
	a := NewAssembler()
	if a.Responding() {
		t.Fatal("responding before any activity")
	}
	a.MarkResponding()
	if !a.Responding() {
		t.Error("responding = false after mark")
	}
	a.CompleteTurn(time.Now())
	if a.Responding() {
		t.Error("responding survived turn completion")
	}
}

func TestAssemblerEntriesReturnsCopy(t *testing.T) {
	a := NewAssembler()
	a.AddInputDelta("hello")
	a.CompleteTurn(time.Now())

	got := a.Entries()
	got[0].Text = "mutated"
	if a.Entries()[0].Text != "hello" {
		t.Error("Entries exposed internal slice")
	}
}
