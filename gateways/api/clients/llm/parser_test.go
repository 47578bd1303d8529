package llm_test

import (
	"reflect"
	"testing"

	"github.com/vaultscribe/backend/gateways/api/clients/llm"
)

const wellFormed = `EXECUTIVE SUMMARY:
Client agreed to terms.

ACTION ITEMS:
1. Send contract draft
2. Schedule follow-up

KEY TOPICS:
- Contract terms
- Timeline

PARTICIPANTS:
- Attorney Smith
`

func TestParseSummaryResponse_WellFormed(t *testing.T) {
	t.Parallel()

	result := llm.ParseSummaryResponse(wellFormed)

	if result.Summary != "Client agreed to terms." {
		t.Errorf("summary = %q, want %q", result.Summary, "Client agreed to terms.")
	}
	if want := []string{"Send contract draft", "Schedule follow-up"}; !reflect.DeepEqual(result.ActionItems, want) {
		t.Errorf("action items = %v, want %v", result.ActionItems, want)
	}
	if want := []string{"Contract terms", "Timeline"}; !reflect.DeepEqual(result.KeyTopics, want) {
		t.Errorf("key topics = %v, want %v", result.KeyTopics, want)
	}
	if want := []string{"Attorney Smith"}; !reflect.DeepEqual(result.Participants, want) {
		t.Errorf("participants = %v, want %v", result.Participants, want)
	}
}

func TestParseSummaryResponse_BlankLineInsensitive(t *testing.T) {
	t.Parallel()

	withBlanks := `EXECUTIVE SUMMARY:

Client agreed to terms.


ACTION ITEMS:

1. Send contract draft


2. Schedule follow-up

KEY TOPICS:

- Contract terms

- Timeline

PARTICIPANTS:

- Attorney Smith
`
	a := llm.ParseSummaryResponse(withBlanks)
	b := llm.ParseSummaryResponse(wellFormed)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("blank lines changed the result:\nwith blanks: %+v\nwithout:     %+v", a, b)
	}
}

// Only the digits-dot-space run is stripped from ordinals; "1) item" keeps
// its parenthesis. Pinned deliberately, not a bug to fix.
func TestParseSummaryResponse_NumberingVariants(t *testing.T) {
	t.Parallel()

	input := `ACTION ITEMS:
1. Dotted item
1) Parenthesized item
`
	result := llm.ParseSummaryResponse(input)

	want := []string{"Dotted item", ") Parenthesized item"}
	if !reflect.DeepEqual(result.ActionItems, want) {
		t.Errorf("action items = %v, want %v", result.ActionItems, want)
	}
}

func TestParseSummaryResponse_Empty(t *testing.T) {
	t.Parallel()

	result := llm.ParseSummaryResponse("")

	if result.Summary != "" {
		t.Errorf("summary = %q, want empty", result.Summary)
	}
	if len(result.ActionItems) != 0 || result.ActionItems == nil {
		t.Errorf("action items = %#v, want empty non-nil slice", result.ActionItems)
	}
	if len(result.KeyTopics) != 0 || result.KeyTopics == nil {
		t.Errorf("key topics = %#v, want empty non-nil slice", result.KeyTopics)
	}
	if len(result.Participants) != 0 || result.Participants == nil {
		t.Errorf("participants = %#v, want empty non-nil slice", result.Participants)
	}
}

func TestParseSummaryResponse_MultiLineSummaryJoinedWithSpaces(t *testing.T) {
	t.Parallel()

	input := `EXECUTIVE SUMMARY:
First paragraph sentence one.
Sentence two.

Second paragraph.
`
	result := llm.ParseSummaryResponse(input)

	want := "First paragraph sentence one. Sentence two. Second paragraph."
	if result.Summary != want {
		t.Errorf("summary = %q, want %q", result.Summary, want)
	}
}

func TestParseSummaryResponse_PreHeaderLinesDropped(t *testing.T) {
	t.Parallel()

	input := `Here is my analysis of the transcript:
Some preamble the model added.

EXECUTIVE SUMMARY:
The real summary.
`
	result := llm.ParseSummaryResponse(input)

	if result.Summary != "The real summary." {
		t.Errorf("summary = %q, want only post-header content", result.Summary)
	}
}

func TestParseSummaryResponse_BulletVariants(t *testing.T) {
	t.Parallel()

	input := `KEY TOPICS:
- Dash topic
• Bullet topic
* Star topic
`
	result := llm.ParseSummaryResponse(input)

	want := []string{"Dash topic", "Bullet topic", "Star topic"}
	if !reflect.DeepEqual(result.KeyTopics, want) {
		t.Errorf("key topics = %v, want %v", result.KeyTopics, want)
	}
}

func TestParseSummaryResponse_MissingSectionsYieldEmpty(t *testing.T) {
	t.Parallel()

	input := `EXECUTIVE SUMMARY:
Summary only, nothing else.
`
	result := llm.ParseSummaryResponse(input)

	if result.Summary == "" {
		t.Error("summary should be populated")
	}
	if len(result.ActionItems) != 0 || len(result.KeyTopics) != 0 || len(result.Participants) != 0 {
		t.Errorf("absent sections must stay empty: %+v", result)
	}
}
