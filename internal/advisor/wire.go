package advisor

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// flexNumber accepts a JSON number or a numeric string such as "85" or "85%".
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = flexNumber(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = flexNumber(f)
	return nil
}

// flexText accepts any JSON scalar and keeps its text form.
type flexText string

func (t *flexText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = flexText(s)
	default:
		*t = flexText(data)
	}
	return nil
}

type rawRecommendations struct {
	Recommendations []struct {
		ToolName      string     `json:"toolName"`
		Score         flexNumber `json:"score"`
		Justification string     `json:"justification"`
	} `json:"recommendations"`
}

type rawComparison struct {
	Criteria []struct {
		Criterion string `json:"criterion"`
		Values    []struct {
			ToolName string   `json:"toolName"`
			Value    flexText `json:"value"`
		} `json:"values"`
	} `json:"criteria"`
	Overviews []struct {
		ToolName string `json:"toolName"`
		Overview string `json:"overview"`
	} `json:"overviews"`
}

type rawEstimate struct {
	MinDays     flexNumber `json:"minDays"`
	MaxDays     flexNumber `json:"maxDays"`
	Explanation string     `json:"explanation"`
	Confidence  flexNumber `json:"confidence"`
}

type rawDetails struct {
	Name     string `json:"name"`
	Overview string `json:"overview"`
	Details  []struct {
		Criterion string   `json:"criterion"`
		Value     flexText `json:"value"`
	} `json:"details"`
}

type rawAnalysis struct {
	ToolName   string     `json:"toolName"`
	FitScore   flexNumber `json:"fitScore"`
	Summary    string     `json:"summary"`
	Strengths  []string   `json:"strengths"`
	Weaknesses []string   `json:"weaknesses"`
}

type rawChat struct {
	Reply string `json:"reply"`
}
