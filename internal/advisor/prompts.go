package advisor

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"tool-advisor/internal/llm"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var promptTemplates = template.Must(template.New("prompts").Funcs(template.FuncMap{
	"join": strings.Join,
	"yesno": func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	},
}).ParseFS(promptFS, "prompts/*.tmpl"))

const baseSystemPrompt = "You are an expert consultant on software test automation tools. " +
	"Answer with JSON only, matching the provided schema exactly. Do not wrap the JSON in markdown."

var systemPrompts = map[string]string{
	OpRecommendTools: baseSystemPrompt + " Recommend real, currently maintained tools.",
	OpCompareTools:   baseSystemPrompt + " Be factual and concise in every table cell.",
	OpEstimateEffort: baseSystemPrompt + " Estimates are for experienced automation engineers.",
	OpGetToolDetails: baseSystemPrompt,
	OpAnalyzeTool:    baseSystemPrompt,
	OpChat: "You are the support assistant of a test automation tool advisor. " +
		"Answer questions about choosing, comparing and adopting test automation tools. " +
		"Keep answers short and practical. Respond with JSON of the form {\"reply\": \"...\"}.",
}

type recommendData struct {
	Criteria Criteria
	Known    []string
}

type compareData struct {
	Tools          []string
	CriterionNames []string
	Criteria       *Criteria
}

type toolData struct {
	Tool     string
	Criteria Criteria
}

type chatData struct {
	Message string
}

func renderRequest(op string, data any, history []ChatMessage) (llm.Request, error) {
	var buf bytes.Buffer
	if err := promptTemplates.ExecuteTemplate(&buf, op, data); err != nil {
		return llm.Request{}, fmt.Errorf("render %s prompt: %w", op, err)
	}
	req := llm.Request{
		Operation: op,
		System:    systemPrompts[op],
		Prompt:    strings.TrimSpace(buf.String()),
		Schema:    outputSchemas[op],
	}
	for _, m := range history {
		req.History = append(req.History, llm.Message{Role: m.Role, Content: m.Text})
	}
	return req, nil
}

// RecommendRequest renders the recommendTools call for already-normalized criteria.
func RecommendRequest(c Criteria, known []string) (llm.Request, error) {
	return renderRequest(OpRecommendTools, recommendData{Criteria: c, Known: known}, nil)
}

func compareRequest(tools, criterionNames []string, c *Criteria) (llm.Request, error) {
	return renderRequest(OpCompareTools, compareData{Tools: tools, CriterionNames: criterionNames, Criteria: c}, nil)
}

func estimateRequest(c Criteria, tool string) (llm.Request, error) {
	return renderRequest(OpEstimateEffort, toolData{Tool: tool, Criteria: c}, nil)
}

func detailsRequest(tool string) (llm.Request, error) {
	return renderRequest(OpGetToolDetails, toolData{Tool: tool}, nil)
}

func analyzeRequest(tool string, c Criteria) (llm.Request, error) {
	return renderRequest(OpAnalyzeTool, toolData{Tool: tool, Criteria: c}, nil)
}

func chatRequest(history []ChatMessage, message string) (llm.Request, error) {
	return renderRequest(OpChat, chatData{Message: message}, history)
}
