package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tool-advisor/internal/actions"
	"tool-advisor/internal/advisor"
	"tool-advisor/internal/bootstrap"
	"tool-advisor/internal/catalog"
	"tool-advisor/internal/llm"
	"tool-advisor/internal/shared/config"
)

var (
	provider     string
	model        string
	strict       bool
	outPath      string
	criteriaPath string
	criteria     advisor.Criteria
	compareCrit  []string
)

var rootCmd = &cobra.Command{
	Use:   "prompttest",
	Short: "Run an advisor operation against the configured model and print JSON",
	Long: `prompttest renders an operation's prompt, calls the configured model provider and prints
the reshaped result. Without --strict, model failures are answered with reference data the
same way the API does.

Example:
  prompttest recommend --simple 40 --medium 20 --framework --ci --team 3
  prompttest compare Playwright Cypress Selenium --strict`,
	SilenceUsage: true,
}

func init() {
	cfg := config.Load()
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&provider, "provider", cfg.LLMProvider, "LLM provider (gemini, openai, none)")
	pf.StringVar(&model, "model", cfg.LLMModel, "LLM model")
	pf.BoolVar(&strict, "strict", false, "fail on model errors instead of falling back")
	pf.StringVar(&outPath, "out", "", "write JSON output to this file")
	pf.StringVar(&criteriaPath, "criteria-file", "", "read filter criteria from a JSON file")
	pf.IntVar(&criteria.SimpleTestCases, "simple", 0, "number of simple test cases")
	pf.IntVar(&criteria.MediumTestCases, "medium", 0, "number of medium test cases")
	pf.IntVar(&criteria.ComplexTestCases, "complex", 0, "number of complex test cases")
	pf.BoolVar(&criteria.UsesFramework, "framework", false, "team already uses a test framework")
	pf.BoolVar(&criteria.UsesCICD, "ci", false, "tests run in CI/CD")
	pf.IntVar(&criteria.TeamSize, "team", 1, "team size")
	pf.StringVar(&criteria.Description, "description", "", "free-text project description")
	pf.IntVar(&criteria.Limit, "limit", 0, "number of recommendations")

	compareCmd.Flags().StringSliceVar(&compareCrit, "criteria", nil, "comparison criteria (default set when empty)")

	rootCmd.AddCommand(
		recommendCmd,
		compareCmd,
		estimateCmd,
		detailsCmd,
		analyzeCmd,
		chatCmd,
		reportCmd,
	)
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend tools for the criteria",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), func(ctx context.Context, s *services, c advisor.Criteria) (any, error) {
			if strict {
				return s.advisor.RecommendTools(ctx, c)
			}
			return s.actions.Recommend(ctx, c)
		})
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare TOOL TOOL [TOOL...]",
	Short: "Compare two to five tools",
	Args:  cobra.RangeArgs(advisor.MinCompareTools, advisor.MaxCompareTools),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), func(ctx context.Context, s *services, c advisor.Criteria) (any, error) {
			filter := &c
			if strict {
				return s.advisor.CompareTools(ctx, args, compareCrit, filter)
			}
			return s.actions.Compare(ctx, args, compareCrit, filter)
		})
	},
}

var estimateCmd = &cobra.Command{
	Use:   "estimate TOOL",
	Short: "Estimate migration or setup effort for a tool",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), func(ctx context.Context, s *services, c advisor.Criteria) (any, error) {
			if strict {
				return s.advisor.EstimateEffort(ctx, c, args[0])
			}
			return s.actions.Estimate(ctx, c, args[0])
		})
	},
}

var detailsCmd = &cobra.Command{
	Use:   "details TOOL",
	Short: "Show the deep-dive profile for a tool",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), func(ctx context.Context, s *services, _ advisor.Criteria) (any, error) {
			if strict {
				return s.advisor.GetToolDetails(ctx, args[0])
			}
			return s.actions.Details(ctx, args[0])
		})
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze TOOL",
	Short: "Analyze how well a tool fits the criteria",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), func(ctx context.Context, s *services, c advisor.Criteria) (any, error) {
			if strict {
				return s.advisor.AnalyzeTool(ctx, args[0], c)
			}
			return s.actions.Analyze(ctx, args[0], c)
		})
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat MESSAGE",
	Short: "Send one support-chat message",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		message := strings.Join(args, " ")
		return run(cmd.Context(), func(ctx context.Context, s *services, _ advisor.Criteria) (any, error) {
			if strict {
				return s.advisor.Chat(ctx, nil, message)
			}
			return s.actions.Chat(ctx, nil, message)
		})
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Recommend, then compare and estimate the recommended tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), func(ctx context.Context, s *services, c advisor.Criteria) (any, error) {
			return s.actions.BuildReport(ctx, c)
		})
	},
}

type services struct {
	advisor *advisor.Service
	actions *actions.Service
}

func run(ctx context.Context, op func(context.Context, *services, advisor.Criteria) (any, error)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Load()
	cfg.LLMProvider = provider
	cfg.LLMModel = model

	client, err := bootstrap.BuildLLM(ctx, cfg)
	if err != nil {
		return err
	}
	if _, ok := client.(llm.PlaceholderClient); ok && strict {
		return llm.ErrNotConfigured
	}

	c, err := loadCriteria()
	if err != nil {
		return err
	}

	cat := catalog.Default()
	adv := advisor.NewService(client, cat)
	s := &services{advisor: adv, actions: actions.NewService(adv, cat)}

	result, err := op(ctx, s, c)
	if err != nil {
		return err
	}
	return writeJSON(result)
}

func loadCriteria() (advisor.Criteria, error) {
	if strings.TrimSpace(criteriaPath) == "" {
		return criteria, nil
	}
	data, err := os.ReadFile(criteriaPath)
	if err != nil {
		return advisor.Criteria{}, fmt.Errorf("read criteria: %w", err)
	}
	var c advisor.Criteria
	if err := json.Unmarshal(data, &c); err != nil {
		return advisor.Criteria{}, fmt.Errorf("decode criteria: %w", err)
	}
	return c, nil
}

func writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if outPath == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
