package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/irisvela/kindred/internal/ai"
	"github.com/irisvela/kindred/internal/ai/gemini"
	"github.com/irisvela/kindred/internal/community"
	"github.com/irisvela/kindred/internal/filtering"
	"github.com/irisvela/kindred/internal/logger"
	"github.com/irisvela/kindred/internal/match"
	"github.com/irisvela/kindred/internal/profile"
	"github.com/irisvela/kindred/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes                 = "Yes"
	PromptNo                  = "No"
	PromptBack                = "back"
	PromptReportMatches       = "Report matches"
	PromptManualConnect       = "Send requests in manual mode"
	PromptAppendToExcludeFile = "Append all candidates to exclude file"
	PromptMatchesToFile       = "Dump matches to file"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Send collaboration requests?",
	Items: []string{PromptYes, PromptNo, PromptReportMatches, PromptManualConnect, PromptMatchesToFile},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Search the community, rank candidates by compatibility and reach out",
	Run: func(cmd *cobra.Command, _ []string) {
		runMatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().BoolP("keep-connected", "k", false, "do not drop candidates you are already connected to")
	matchCmd.Flags().BoolP("auto-approve", "y", false, "send requests without confirmation when matches are found")
	matchCmd.Flags().StringP("exclude-file", "e", "", "file with dismissed profiles to skip. Default is unset.")
	matchCmd.Flags().IntP("min-score", "m", 0, "inclusive score threshold for the ranking")

	viper.BindPFlag("exclude-file", matchCmd.Flags().Lookup("exclude-file"))
}

// runMatch is the main flow of the cli.
func runMatch(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting kindred", zap.String("version", version))

	// The config already parsed, so marshalling back cannot fail.
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	token, err := resolveToken(config)
	if err != nil {
		logger.Fatal(
			"loading community token",
			zap.Error(err),
			zap.String("hint", "set KINDRED_TOKEN_FILE environment variable or the 'token-file' key in the configuration file"),
		)
	}

	client := community.New(ctx, logger, token)

	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}

	seeker, err := client.GetMineProfile()
	if err != nil {
		logger.Fatal("getting own profile", zap.Error(err))
	}

	seekerSkills, err := client.GetMineSkills()
	if err != nil {
		logger.Fatal("getting own skills", zap.Error(err))
	}

	logger.Info("loaded own profile",
		zap.String("user_id", seeker.UserID),
		zap.Int("skills", len(seekerSkills)),
	)

	logger.Info("starting the search", zap.String("search", config.Search.Text))

	pool, err := client.SearchProfiles(config.Search)
	if err != nil {
		logger.Fatal("searching profiles", zap.Error(err))
	}

	logger.Info("getting candidates", zap.Int("count", pool.Len()))

	if pool.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates found"))
		return
	}

	filters := prepareFilters(ctx, cmd, client, config, seeker, logger)

	pool, err = filters.RunFilters(ctx, pool)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if pool.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return
	}

	matchFilters := match.Filters{}
	if config.Match != nil {
		matchFilters = *config.Match
	}

	if cmd.Flags().Changed("min-score") {
		minScore, _ := cmd.Flags().GetInt("min-score")
		matchFilters.MinScore = minScore
	}

	engine := match.New(logger)
	results := engine.Rank(seekerFromProfile(seeker), seekerSkills, pool, matchFilters)

	if len(results) == 0 {
		logger.Info("exiting",
			zap.String("reason", "no candidates scored above the threshold"),
			zap.Int("min_score", matchFilters.MinScore),
		)
		return
	}

	action := PromptYes
	for {
		var err error
		if cmd.Flag("auto-approve").Value.String() == "false" {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		logger.Info("current list of matches", zap.Int("count", len(results)))

		if err := handleAction(action, client, logger, config, results); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}

		if cmd.Flag("auto-approve").Value.String() == "true" {
			return
		}
	}
}

func handleAction(action string, client *community.Client, logger *zap.Logger, config *Config, results []*match.Result) error {
	switch action {
	case PromptYes:
		return connect(client, logger, results, config.Connect.Message)
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptManualConnect:
		return manualConnect(client, logger, config, results)
	case PromptReportMatches:
		pretty, _ := json.MarshalIndent(matchReport(results), "", "  ")
		logger.Info(string(pretty), zap.Int("matches count", len(results)))
		return nil
	case PromptMatchesToFile:
		filename, err := resultsProfiles(results).DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func resolveToken(config *Config) (string, error) {
	if config == nil {
		return "", errors.New("config is required")
	}

	tokenFile := strings.TrimSpace(config.TokenFile)
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("token-file"))
	}

	if tokenFile == "" {
		return "", errors.New("community token file is not configured")
	}

	return secrets.Load(secrets.Source{
		Name: "community token",
		File: tokenFile,
	})
}

func manualConnect(client *community.Client, logger *zap.Logger, config *Config, results []*match.Result) error {
	remaining := results

	for {
		items := make([]string, 0, len(remaining))
		for _, r := range remaining {
			items = append(items, fmt.Sprintf("%s %s / score %d",
				r.Profile.UserID, r.Profile.DisplayName, r.Score,
			))
		}

		excludeFile := viper.GetString("exclude-file")
		if excludeFile != "" && len(remaining) != 0 {
			items = append(items, PromptAppendToExcludeFile)
		}

		candidatePrompt := promptui.Select{
			Label: "Choose a candidate and press ENTER",
			Items: append(items, PromptBack),
		}

		_, selected, err := candidatePrompt.Run()
		if err != nil {
			return err
		}

		switch selected {
		case PromptBack:
			return nil
		case PromptAppendToExcludeFile:
			dismissed, err := profile.GetDismissedProfilesFromFile(excludeFile)
			if err != nil {
				return err
			}

			dismissed.Append(resultsProfiles(remaining).ToDismissed(profile.DismissActorUser, "dismissed during manual review"))

			if err = dismissed.ToFile(excludeFile); err != nil {
				return err
			}

			logger.Info("appended to exclude file", zap.String("filename", excludeFile))

			remaining = remaining[:0]
		default:
			userID := strings.Split(selected, " ")[0]

			result := findResult(remaining, userID)
			if result == nil {
				return fmt.Errorf("there is no such candidate %s", userID)
			}

			if err = connect(client, logger, []*match.Result{result}, config.Connect.Message); err != nil {
				return err
			}

			remaining = removeResult(remaining, userID)
		}
	}
}

func connect(client *community.Client, logger *zap.Logger, results []*match.Result, defaultMessage string) error {
	for _, result := range results {
		candidate := result.Profile

		message := defaultMessage
		if candidate.Synchronicity != nil && candidate.Synchronicity.Message != "" {
			message = candidate.Synchronicity.Message
		}

		if err := client.SendCollabRequest(candidate.UserID, message); err != nil {
			return err
		}

		logger.Info("collaboration request sent",
			zap.String("user_id", candidate.UserID),
			zap.String("display_name", candidate.DisplayName),
			zap.Int("score", result.Score),
		)
	}

	logger.Info("collaboration requests sent", zap.Int("count", len(results)))
	return nil
}

// matchReport flattens ranked results for human inspection.
func matchReport(results []*match.Result) []map[string]any {
	report := make([]map[string]any, 0, len(results))
	for _, r := range results {
		report = append(report, map[string]any{
			"user_id":      r.Profile.UserID,
			"display_name": r.Profile.DisplayName,
			"score":        r.Score,
			"reasons":      strings.Join(r.Reasons, "; "),
		})
	}

	return report
}

func resultsProfiles(results []*match.Result) *profile.Profiles {
	items := make([]*profile.Profile, 0, len(results))
	for _, r := range results {
		items = append(items, r.Profile)
	}

	return &profile.Profiles{Items: items}
}

func findResult(results []*match.Result, userID string) *match.Result {
	for _, r := range results {
		if r.Profile.UserID == userID {
			return r
		}
	}

	return nil
}

func removeResult(results []*match.Result, userID string) []*match.Result {
	kept := make([]*match.Result, 0, len(results))
	for _, r := range results {
		if r.Profile.UserID != userID {
			kept = append(kept, r)
		}
	}

	return kept
}

func seekerFromProfile(p *profile.Profile) *profile.Seeker {
	if p == nil {
		return nil
	}

	return &profile.Seeker{
		UserID:     p.UserID,
		ValuesTags: p.ValuesTags,
		Intentions: p.Intentions,
	}
}

func newAIMatcher(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Matcher, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai screening is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY_FILE",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, logger.WithAI(log, "gemini", cfg.Gemini.Model))
	if err != nil {
		return nil, err
	}

	minScore := cfg.MinimumFitScore
	if minScore < 0 {
		minScore = 0
	}

	matcherLogger := logger.WithAI(log, "gemini", cfg.Gemini.Model).With(
		zap.Float64("minimum_fit_score", minScore),
	)

	return gemini.NewMatcher(generator, minScore, cfg.Gemini.MaxLogLength, matcherLogger), nil
}

func prepareFilters(ctx context.Context, cmd *cobra.Command, client *community.Client, config *Config, seeker *profile.Profile, log *zap.Logger) *filtering.Filtering {
	keepConnected := false
	if cmd != nil {
		flag := cmd.Flag("keep-connected")
		if flag != nil && strings.EqualFold(flag.Value.String(), "true") {
			keepConnected = true
		}
	}

	steps := []filtering.Filter{
		filtering.NewConnected(
			&filtering.ConnectedConfig{Ignore: keepConnected},
			&filtering.ConnectedDeps{API: client, Logger: log},
		),
		filtering.NewExcludedUsers(config.Connect.Exclude),
		filtering.NewExcludeFile(config.ExcludeFile, log),
	}

	if config.AI != nil && config.AI.Enabled {
		aiFilter, err := prepareAIFilter(ctx, config.AI, seeker, log, config.ExcludeFile)
		if err != nil {
			log.Fatal("building ai screening step", zap.Error(err))
		}
		steps = append(steps, aiFilter)
	}

	return filtering.New(steps, log)
}

func prepareAIFilter(ctx context.Context, config *AIConfig, seeker *profile.Profile, log *zap.Logger, excludeFile string) (filtering.Filter, error) {
	matcher, err := newAIMatcher(ctx, config, log)
	if err != nil {
		return nil, fmt.Errorf("building ai matcher: %w", err)
	}

	model := ""
	if config.Gemini != nil {
		model = config.Gemini.Model
	}

	cfg := &filtering.AISynchronicityConfig{
		Enabled:         config.Enabled,
		Provider:        config.Provider,
		MinimumFitScore: config.MinimumFitScore,
		Model:           model,
	}

	return filtering.NewAISynchronicity(cfg, &filtering.AISynchronicityDeps{
		Logger:      log,
		Matcher:     matcher,
		Seeker:      seeker,
		ExcludeFile: excludeFile,
	}), nil
}
