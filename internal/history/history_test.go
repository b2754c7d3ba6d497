package history

import (
	"strings"
	"testing"

	"github.com/spacebot-ai/spacebot/pkg/models"
)

func TestTranscript_EmptySentinel(t *testing.T) {
	l := New()
	if got := l.Transcript(); got != NoHistory {
		t.Errorf("Transcript() = %q, want %q", got, NoHistory)
	}
}

func TestAppend_OrderAndIndexing(t *testing.T) {
	l := New()
	l.Append(models.RoleUser, "first question")
	l.Append(models.RoleAssistant, "first answer")
	l.Append(models.RoleUser, "second question")
	l.Append(models.RoleAssistant, "second answer")

	msgs := l.Messages()
	if len(msgs) != 4 {
		t.Fatalf("len(Messages()) = %d, want 4", len(msgs))
	}
	for i, m := range msgs {
		if m.Index != i {
			t.Errorf("message %d Index = %d", i, m.Index)
		}
		wantRole := models.RoleUser
		if i%2 == 1 {
			wantRole = models.RoleAssistant
		}
		if m.Role != wantRole {
			t.Errorf("message %d Role = %s, want %s", i, m.Role, wantRole)
		}
	}
}

func TestMessages_ReturnsCopy(t *testing.T) {
	l := New()
	l.Append(models.RoleUser, "q")
	l.Append(models.RoleAssistant, "a")

	msgs := l.Messages()
	msgs[0].Content = "tampered"

	if l.Messages()[0].Content != "q" {
		t.Error("mutating the returned slice must not affect the log")
	}
}

func TestTranscript_NumberedPairs(t *testing.T) {
	l := New()
	l.Append(models.RoleUser, "When did Apollo 11 land?")
	l.Append(models.RoleAssistant, "July 1969.")
	l.Append(models.RoleUser, "Who walked first?")
	l.Append(models.RoleAssistant, "Neil Armstrong.")

	got := l.Transcript()
	for _, want := range []string{
		"Chat History",
		"Q1: When did Apollo 11 land?",
		"A1: July 1969.",
		"Q2: Who walked first?",
		"A2: Neil Armstrong.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Transcript() missing %q\n%s", want, got)
		}
	}
}

func TestClear_Idempotent(t *testing.T) {
	l := New()
	l.Append(models.RoleUser, "q")
	l.Append(models.RoleAssistant, "a")

	l.Clear()
	if l.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", l.Len())
	}
	if got := l.Transcript(); got != NoHistory {
		t.Errorf("Transcript() after Clear = %q, want sentinel", got)
	}

	l.Clear() // clearing an empty log is fine
	if got := l.Transcript(); got != NoHistory {
		t.Errorf("Transcript() after double Clear = %q, want sentinel", got)
	}

	// Indexing restarts after a clear.
	l.Append(models.RoleUser, "fresh")
	if l.Messages()[0].Index != 0 {
		t.Errorf("Index after Clear = %d, want 0", l.Messages()[0].Index)
	}
}
