package advisor

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	DefaultLimit       = 3
	MaxLimit           = 10
	MaxTeamSize        = 1000
	MaxDescriptionLen  = 4000
	MaxToolNameLen     = 100
	MaxCriterionLen    = 100
	MaxCriteria        = 12
	MinCompareTools    = 2
	MaxCompareTools    = 5
	MaxChatMessageLen  = 2000
	MaxChatHistory     = 20
	maxChatHistoryText = 4000
)

// DefaultComparisonCriteria is used when a comparison request names none.
var DefaultComparisonCriteria = []string{
	"Ease of use",
	"Learning curve",
	"Cross-browser support",
	"CI/CD integration",
	"Reporting",
	"Community & support",
	"Licensing cost",
}

// NormalizeCriteria validates a filter record and applies defaults.
func NormalizeCriteria(c Criteria) (Criteria, error) {
	verr := &ValidationError{}
	c.Description = strings.TrimSpace(c.Description)

	if c.SimpleTestCases < 0 {
		verr.add("simpleTestCases", "must be zero or greater")
	}
	if c.MediumTestCases < 0 {
		verr.add("mediumTestCases", "must be zero or greater")
	}
	if c.ComplexTestCases < 0 {
		verr.add("complexTestCases", "must be zero or greater")
	}
	if c.TeamSize == 0 {
		c.TeamSize = 1
	}
	if c.TeamSize < 1 || c.TeamSize > MaxTeamSize {
		verr.add("teamSize", fmt.Sprintf("must be between 1 and %d", MaxTeamSize))
	}
	if utf8.RuneCountInString(c.Description) > MaxDescriptionLen {
		verr.add("description", fmt.Sprintf("must be at most %d characters", MaxDescriptionLen))
	}
	if c.Limit == 0 {
		c.Limit = DefaultLimit
	}
	if c.Limit < 1 || c.Limit > MaxLimit {
		verr.add("limit", fmt.Sprintf("must be between 1 and %d", MaxLimit))
	}
	if len(verr.Fields) == 0 && c.TotalTestCases() == 0 && c.Description == "" {
		verr.add("criteria", "provide at least one test case or a description")
	}
	if err := verr.orNil(); err != nil {
		return Criteria{}, err
	}
	return c, nil
}

// NormalizeToolName trims and validates a single tool name.
func NormalizeToolName(name string) (string, error) {
	name = strings.Join(strings.Fields(name), " ")
	verr := &ValidationError{}
	switch {
	case name == "":
		verr.add("tool", "is required")
	case utf8.RuneCountInString(name) > MaxToolNameLen:
		verr.add("tool", fmt.Sprintf("must be at most %d characters", MaxToolNameLen))
	}
	if err := verr.orNil(); err != nil {
		return "", err
	}
	return name, nil
}

// NormalizeTools validates the tools of a comparison request. Order is kept and
// case-insensitive duplicates are rejected.
func NormalizeTools(tools []string) ([]string, error) {
	verr := &ValidationError{}
	seen := make(map[string]bool, len(tools))
	out := make([]string, 0, len(tools))
	for i, raw := range tools {
		name := strings.Join(strings.Fields(raw), " ")
		field := fmt.Sprintf("tools[%d]", i)
		switch {
		case name == "":
			verr.add(field, "is empty")
			continue
		case utf8.RuneCountInString(name) > MaxToolNameLen:
			verr.add(field, fmt.Sprintf("must be at most %d characters", MaxToolNameLen))
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			verr.add(field, fmt.Sprintf("duplicate tool %q", name))
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	if len(verr.Fields) == 0 && (len(out) < MinCompareTools || len(out) > MaxCompareTools) {
		verr.add("tools", fmt.Sprintf("provide between %d and %d distinct tools", MinCompareTools, MaxCompareTools))
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return out, nil
}

// NormalizeCriterionNames trims, dedupes and defaults comparison criteria.
func NormalizeCriterionNames(names []string) ([]string, error) {
	verr := &ValidationError{}
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for i, raw := range names {
		name := strings.Join(strings.Fields(raw), " ")
		if name == "" {
			continue
		}
		if utf8.RuneCountInString(name) > MaxCriterionLen {
			verr.add(fmt.Sprintf("criteria[%d]", i), fmt.Sprintf("must be at most %d characters", MaxCriterionLen))
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	if len(out) > MaxCriteria {
		verr.add("criteria", fmt.Sprintf("at most %d criteria", MaxCriteria))
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		out = append(out, DefaultComparisonCriteria...)
	}
	return out, nil
}

// NormalizeChat validates a chat turn and trims the history to the most recent turns.
func NormalizeChat(history []ChatMessage, message string) ([]ChatMessage, string, error) {
	verr := &ValidationError{}
	message = strings.TrimSpace(message)
	switch {
	case message == "":
		verr.add("message", "is required")
	case utf8.RuneCountInString(message) > MaxChatMessageLen:
		verr.add("message", fmt.Sprintf("must be at most %d characters", MaxChatMessageLen))
	}

	kept := make([]ChatMessage, 0, len(history))
	for i, m := range history {
		role := strings.ToLower(strings.TrimSpace(m.Role))
		if role != "user" && role != "assistant" {
			verr.add(fmt.Sprintf("history[%d].role", i), "must be user or assistant")
			continue
		}
		text := strings.TrimSpace(m.Text)
		if text == "" {
			continue
		}
		if utf8.RuneCountInString(text) > maxChatHistoryText {
			text = string([]rune(text)[:maxChatHistoryText])
		}
		kept = append(kept, ChatMessage{Role: role, Text: text})
	}
	if err := verr.orNil(); err != nil {
		return nil, "", err
	}
	if len(kept) > MaxChatHistory {
		kept = kept[len(kept)-MaxChatHistory:]
	}
	return kept, message, nil
}
