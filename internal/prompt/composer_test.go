package prompt

import (
	"strings"
	"testing"
)

func TestCompose_Deterministic(t *testing.T) {
	a := Compose("open the door", "module text")
	b := Compose("open the door", "module text")
	if a != b {
		t.Error("expected identical prompts for identical inputs")
	}
}

func TestCompose_ContainsAllParts(t *testing.T) {
	p := Compose("check the medbay", "SETTING: Derelict space station")

	if !strings.HasPrefix(p.System, Persona) {
		t.Error("expected system prompt to start with the persona block")
	}
	if !strings.Contains(p.System, "MODULE CONTENT:\nSETTING: Derelict space station") {
		t.Error("expected grounding text under the MODULE CONTENT header")
	}
	if p.User != "check the medbay" {
		t.Errorf("expected utterance as user turn, got %q", p.User)
	}
}

func TestPersona_PinsOutputContract(t *testing.T) {
	// The renderer depends on these instructions being present verbatim.
	for _, want := range []string{
		"<speak>",
		"under 750 characters",
		`<voice name="Joanna">`,
		`<voice name="Matthew">`,
		`<voice name="Ivy">`,
		`<voice name="Justin">`,
	} {
		if !strings.Contains(Persona, want) {
			t.Errorf("persona missing %q", want)
		}
	}
}
