package advisor

import "tool-advisor/internal/llm"

var outputSchemas = map[string]*llm.Schema{
	OpRecommendTools: llm.Object("Ranked tool recommendations",
		llm.Prop("recommendations", llm.Array("Best fitting tools first", llm.Object("",
			llm.Prop("toolName", llm.String("Tool name")),
			llm.Prop("score", llm.Number("Fit score from 0 to 100")),
			llm.Prop("justification", llm.String("Why the tool fits")),
		))),
	),
	OpCompareTools: llm.Object("Tool comparison table",
		llm.Prop("criteria", llm.Array("One entry per criterion", llm.Object("",
			llm.Prop("criterion", llm.String("Criterion name as given")),
			llm.Prop("values", llm.Array("One value per tool", llm.Object("",
				llm.Prop("toolName", llm.String("Tool name as given")),
				llm.Prop("value", llm.String("Cell text")),
			))),
		))),
		llm.OptionalProp("overviews", llm.Array("One overview per tool", llm.Object("",
			llm.Prop("toolName", llm.String("Tool name as given")),
			llm.Prop("overview", llm.String("Short overview")),
		))),
	),
	OpEstimateEffort: llm.Object("Effort estimate",
		llm.Prop("minDays", llm.Number("Minimum person-days")),
		llm.Prop("maxDays", llm.Number("Maximum person-days")),
		llm.Prop("explanation", llm.String("Main effort drivers")),
		llm.Prop("confidence", llm.Number("Confidence from 0 to 100")),
	),
	OpGetToolDetails: llm.Object("Tool profile",
		llm.Prop("name", llm.String("Canonical tool name")),
		llm.Prop("overview", llm.String("Short overview")),
		llm.Prop("details", llm.Array("Criterion/value pairs", llm.Object("",
			llm.Prop("criterion", llm.String("")),
			llm.Prop("value", llm.String("")),
		))),
	),
	OpAnalyzeTool: llm.Object("Single tool fit analysis",
		llm.Prop("toolName", llm.String("Tool name")),
		llm.Prop("fitScore", llm.Number("Fit score from 0 to 100")),
		llm.Prop("summary", llm.String("Short summary")),
		llm.Prop("strengths", llm.Array("", llm.String(""))),
		llm.Prop("weaknesses", llm.Array("", llm.String(""))),
	),
	OpChat: llm.Object("Chat reply",
		llm.Prop("reply", llm.String("Assistant reply")),
	),
}
