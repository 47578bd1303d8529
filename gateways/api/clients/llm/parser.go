package llm

import (
	"strings"

	"github.com/vaultscribe/backend/services/recording/entity"
)

const (
	sectionSummary      = "summary"
	sectionActionItems  = "action_items"
	sectionKeyTopics    = "key_topics"
	sectionParticipants = "participants"
)

// sections maps recognized header lines (trailing colon included) to the
// field they open. A header line switches the cursor and is discarded.
var sections = map[string]string{
	"EXECUTIVE SUMMARY:": sectionSummary,
	"ACTION ITEMS:":      sectionActionItems,
	"KEY TOPICS:":        sectionKeyTopics,
	"PARTICIPANTS:":      sectionParticipants,
}

// ParseSummaryResponse turns the model's four-section text response into a
// SummaryResult. Malformed input never errors: missing sections yield empty
// fields.
//
// Only the "1. " ordinal form is stripped from action items; "1) item"
// keeps its parenthesis. That asymmetry is contractual.
func ParseSummaryResponse(response string) *entity.SummaryResult {
	result := &entity.SummaryResult{
		ActionItems:  []string{},
		KeyTopics:    []string{},
		Participants: []string{},
	}

	var summary strings.Builder
	current := ""

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)

		if section, ok := sections[line]; ok {
			current = section
			continue
		}

		if line == "" {
			continue
		}

		// Lines before the first recognized header are dropped.
		switch current {
		case sectionSummary:
			summary.WriteString(line)
			summary.WriteString(" ")
		case sectionActionItems:
			if item := strings.TrimLeft(line, "0123456789. "); item != "" {
				result.ActionItems = append(result.ActionItems, item)
			}
		case sectionKeyTopics:
			if topic := strings.TrimLeft(line, "-•* "); topic != "" {
				result.KeyTopics = append(result.KeyTopics, topic)
			}
		case sectionParticipants:
			if participant := strings.TrimLeft(line, "-•* "); participant != "" {
				result.Participants = append(result.Participants, participant)
			}
		}
	}

	result.Summary = strings.TrimSpace(summary.String())
	return result
}
