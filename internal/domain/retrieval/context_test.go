package retrieval

import (
	"strings"
	"testing"
)

func TestContext_PromptEmpty(t *testing.T) {
	c := Context{FellBack: true}
	if !c.Empty() {
		t.Fatal("expected empty context")
	}
	if c.Prompt() != NoResultsNotice {
		t.Errorf("unexpected prompt %q", c.Prompt())
	}
}

func TestContext_PromptRecords(t *testing.T) {
	c := Context{Records: []Record{
		{Professor: "Prof. Dr. Müller", Subject: "Statistics", Rating: 4.5, Review: " Sehr klar. ", Score: 0.91},
		{Professor: "Weber", Rating: 2, Review: "Chaotisch", Score: 0.5},
	}}

	got := c.Prompt()
	for _, want := range []string{
		"1. Professor: Prof. Dr. Müller",
		"   Subject: Statistics",
		"   Rating: 4.5",
		"   Review: Sehr klar.\n",
		"2. Professor: Weber",
		"   Similarity: 0.500",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Department:") {
		t.Errorf("empty department must be omitted:\n%s", got)
	}
}
