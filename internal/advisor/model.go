package advisor

// Operation names, shared by prompts, logs and metrics.
const (
	OpRecommendTools = "recommendTools"
	OpCompareTools   = "compareTools"
	OpEstimateEffort = "estimateEffort"
	OpGetToolDetails = "getToolDetails"
	OpAnalyzeTool    = "analyzeTool"
	OpChat           = "chat"
)

// NotAvailable fills comparison cells the model left out.
const NotAvailable = "N/A"

// Criteria is the filter record submitted from the sidebar form.
type Criteria struct {
	SimpleTestCases  int    `json:"simpleTestCases"`
	MediumTestCases  int    `json:"mediumTestCases"`
	ComplexTestCases int    `json:"complexTestCases"`
	UsesFramework    bool   `json:"usesFramework"`
	UsesCICD         bool   `json:"usesCICD"`
	TeamSize         int    `json:"teamSize"`
	Description      string `json:"description"`
	Limit            int    `json:"limit,omitempty"`
}

// TotalTestCases sums all complexity tiers.
func (c Criteria) TotalTestCases() int {
	return c.SimpleTestCases + c.MediumTestCases + c.ComplexTestCases
}

type Recommendation struct {
	ToolName      string `json:"toolName"`
	Score         int    `json:"score"`
	Justification string `json:"justification"`
}

type CriterionRow struct {
	Criterion string            `json:"criterion"`
	Values    map[string]string `json:"values"`
}

// Comparison is a criteria x tools grid keyed by the requested tool names.
type Comparison struct {
	Tools     []string          `json:"tools"`
	Criteria  []CriterionRow    `json:"criteria"`
	Overviews map[string]string `json:"overviews,omitempty"`
}

// Cell returns the value for (criterion, tool) or NotAvailable.
func (c Comparison) Cell(criterion, tool string) string {
	for _, row := range c.Criteria {
		if row.Criterion != criterion {
			continue
		}
		if v, ok := row.Values[tool]; ok {
			return v
		}
	}
	return NotAvailable
}

type EffortEstimate struct {
	ToolName    string  `json:"toolName,omitempty"`
	MinDays     float64 `json:"minDays"`
	MaxDays     float64 `json:"maxDays"`
	Explanation string  `json:"explanation"`
	Confidence  int     `json:"confidence"`
}

type DetailRow struct {
	Criterion string `json:"criterion"`
	Value     string `json:"value"`
}

type ToolDetails struct {
	Name             string      `json:"name"`
	Overview         string      `json:"overview"`
	Details          []DetailRow `json:"details"`
	DocumentationURL string      `json:"documentationUrl,omitempty"`
}

type ToolAnalysis struct {
	ToolName   string   `json:"toolName"`
	FitScore   int      `json:"fitScore"`
	Summary    string   `json:"summary"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// ChatMessage is one turn of the support chat.
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type ChatReply struct {
	Reply string `json:"reply"`
}
