// In file: cmd/decide/commands.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dileep-u-k/decision-gateway/internal/api"
	"github.com/dileep-u-k/decision-gateway/internal/decision"
	"github.com/dileep-u-k/decision-gateway/internal/fallback"
	"github.com/dileep-u-k/decision-gateway/internal/llm"
	"github.com/dileep-u-k/decision-gateway/internal/orchestrator"
)

func (a *app) classifyCmd() *cobra.Command {
	var locale string
	var all bool
	cmd := &cobra.Command{
		Use:   "classify <question>",
		Short: "Print the decision category of a question",
		Long: `Print the category key and its localized name. Without --locale the
keywords of the question's detected language are used.

Examples:
  decide classify "Should I quit my job to start a company?"
  decide classify "Yurt dışına taşınmalı mıyım?" --locale tr
  decide classify "Should I buy a house?" --all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := args[0]
			loc, err := localeOrDetected(locale, question)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			category := decision.DetectCategory(question, loc)
			fmt.Fprintf(out, "%s\t%s\n", category, decision.LocalizedName(category, loc))
			if all {
				for _, s := range decision.ScoreCategories(question, loc) {
					if s.Score > 0 {
						fmt.Fprintf(out, "  %-24s %d\n", s.Category, s.Score)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&locale, "locale", "", "keyword locale (en, tr, es, ru)")
	cmd.Flags().BoolVar(&all, "all", false, "also print every non-zero category score")
	return cmd
}

func (a *app) detectLangCmd() *cobra.Command {
	var expect string
	cmd := &cobra.Command{
		Use:   "detect-lang <text>",
		Short: "Detect the language of a text",
		Long: `Print the detected locale. With --expect the text is checked the way
model responses are checked and the command fails when it does not pass.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := args[0]
			if expect == "" {
				fmt.Fprintln(cmd.OutOrStdout(), decision.DetectLanguage(text))
				return nil
			}

			loc, err := api.ParseLocale(expect)
			if err != nil {
				return err
			}
			if !decision.ValidateResponseLanguage(text, loc) {
				return fmt.Errorf("text is not in %s", loc)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ text is in %s\n", loc)
			return nil
		},
	}
	cmd.Flags().StringVar(&expect, "expect", "", "validate the text against this locale")
	return cmd
}

func (a *app) promptCmd() *cobra.Command {
	var mode, profile string
	cmd := &cobra.Command{
		Use:   "prompt <question>",
		Short: "Print the expert prompt built for a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := api.ParseMode(mode)
			if err != nil {
				return err
			}
			ctx, err := loadProfile(profile)
			if err != nil {
				return err
			}

			question := args[0]
			lang := decision.DetectLanguage(question)
			p, err := decision.BuildPrompt(question, m, lang, time.Now(), ctx)
			if err != nil {
				return fmt.Errorf("failed to build prompt: %w", err)
			}
			a.logger.Info("🚀 Prompt built",
				zap.String("language", string(lang)),
				zap.String("category", string(p.Category)),
				zap.Int("personalization_score", p.PersonalizationScore),
			)
			fmt.Fprintln(cmd.OutOrStdout(), p.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(decision.ModeAnalytical), "analysis mode (analytical, emotional, creative)")
	cmd.Flags().StringVar(&profile, "profile", "", "personalization context JSON file")
	return cmd
}

func (a *app) scoreCmd() *cobra.Command {
	var profile, locale string
	var infer bool
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Print the personalization score of a profile",
		Long: `Print the personalization score and confidence of a profile. With --infer
blank profile fields are first guessed from the questions in the decision
history, and every guessed field is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := loadProfile(profile)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if infer {
				loc, err := api.ParseLocale(locale)
				if err != nil {
					return err
				}
				completed := decision.CompleteProfile(ctx, loc, time.Now())
				if completed != ctx {
					printInferred(out, ctx.UserProfile, completed.UserProfile)
				}
				ctx = completed
			}
			score := decision.Score(ctx)
			fmt.Fprintf(out, "score: %d\nconfidence: %.2f\n", score, decision.ConfidenceFor(score))
			return nil
		},
	}
	cmd.Flags().StringVar(&profile, "profile", "", "personalization context JSON file")
	cmd.Flags().BoolVar(&infer, "infer", false, "fill blank profile fields from the decision history")
	cmd.Flags().StringVar(&locale, "locale", string(decision.LocaleEN), "clue locale used by --infer (en, tr, es, ru)")
	_ = cmd.MarkFlagRequired("profile")
	return cmd
}

func (a *app) analyzeCmd() *cobra.Command {
	var mode, locale, profile string
	var offline bool
	cmd := &cobra.Command{
		Use:   "analyze <question>",
		Short: "Run a full analysis and print it as JSON",
		Long: `Run the question through the models configured under "models" in the
config file. --offline skips the models and prints the synthetic analysis.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var personalization *decision.PersonalizationContext
			if profile != "" {
				raw, err := readProfile(profile)
				if err != nil {
					return err
				}
				personalization = raw
			}
			req, err := api.AnalyzeRequest{
				Question:               args[0],
				Mode:                   mode,
				Locale:                 locale,
				PersonalizationContext: personalization,
			}.Validate()
			if err != nil {
				return err
			}

			fallbacks, err := fallback.New()
			if err != nil {
				return fmt.Errorf("failed to load fallback tables: %w", err)
			}

			var client llm.LLMClient
			if key := a.v.GetString("gemini_api_key"); key != "" && !offline {
				gemini, err := llm.NewGeminiClient(ctx, key)
				if err != nil {
					return fmt.Errorf("failed to create Gemini client: %w", err)
				}
				defer gemini.Close()
				client = gemini
			}

			orch := orchestrator.New(client, fallbacks, a.orchestratorConfig(), orchestrator.WithLogger(a.logger))
			var res *orchestrator.Result
			if offline {
				res, err = orch.Synthesize(ctx, req)
			} else {
				res, err = orch.Analyze(ctx, req)
			}
			if err != nil {
				return err
			}
			a.logger.Info("🎉 Analysis ready", zap.String("source", string(res.Source)), zap.String("model", res.Model))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res.Analysis)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(decision.ModeAnalytical), "analysis mode (analytical, emotional, creative)")
	cmd.Flags().StringVar(&locale, "locale", string(decision.LocaleEN), "declared locale (en, tr, es, ru)")
	cmd.Flags().StringVar(&profile, "profile", "", "personalization context JSON file")
	cmd.Flags().BoolVar(&offline, "offline", false, "do not call any model")
	return cmd
}

// orchestratorConfig reads the same keys as the gateway's config.yaml.
func (a *app) orchestratorConfig() orchestrator.Config {
	cfg := orchestrator.Config{
		PrimaryModel:        a.v.GetString("models.primary"),
		AttemptTimeout:      a.v.GetDuration("models.attempt_timeout"),
		MaxOutputTokens:     a.v.GetInt("models.max_output_tokens"),
		RepairMalformedJSON: a.v.GetBool("analysis.repair_malformed_json"),
		InferProfile:        a.v.GetBool("analysis.infer_profile"),
	}
	if a.v.IsSet("models.alternates") {
		cfg.AlternateModels = a.v.GetStringSlice("models.alternates")
	}
	if a.v.IsSet("models.temperature") {
		t := float32(a.v.GetFloat64("models.temperature"))
		cfg.Temperature = &t
	}
	return cfg
}

// --- HELPER FUNCTIONS ---

func localeOrDetected(flag, text string) (decision.Locale, error) {
	if flag == "" {
		return decision.DetectLanguage(text), nil
	}
	return api.ParseLocale(flag)
}

// printInferred prints the profile fields that after has and before lacked.
func printInferred(w io.Writer, before, after *decision.UserProfile) {
	if before == nil {
		before = &decision.UserProfile{}
	}
	if before.Age == 0 && after.Age != 0 {
		fmt.Fprintf(w, "inferred age: %d\n", after.Age)
	}
	for _, f := range []struct{ name, was, now string }{
		{"profession", before.Profession, after.Profession},
		{"lifeStage", before.LifeStage, after.LifeStage},
		{"familyStatus", before.FamilyStatus, after.FamilyStatus},
		{"riskTolerance", before.RiskTolerance, after.RiskTolerance},
	} {
		if f.was == "" && f.now != "" {
			fmt.Fprintf(w, "inferred %s: %s\n", f.name, f.now)
		}
	}
	if len(before.Interests) == 0 && len(after.Interests) > 0 {
		fmt.Fprintf(w, "inferred interests: %s\n", strings.Join(after.Interests, ", "))
	}
}

// loadProfile reads and sanitizes a personalization file. An empty path means no profile.
func loadProfile(path string) (*decision.PersonalizationContext, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := readProfile(path)
	if err != nil {
		return nil, err
	}
	return api.SanitizeContext(raw)
}

func readProfile(path string) (*decision.PersonalizationContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var ctx decision.PersonalizationContext
	if err := json.Unmarshal(data, &ctx); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return &ctx, nil
}
