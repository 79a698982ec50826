/* main.go
 * Entry point for the bracket pool analyzer. For details see `readme.md`
 * Usage: go run main.go -year=2026 -mode=analyze -persist
 */

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/go-andiamo/splitter"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"bracket-pool/api/api"
	"bracket-pool/api/shared"
	"bracket-pool/notify"
)

func main() {
	err := godotenv.Load()

	// Flags
	yearPtr := flag.Int("year", time.Now().Year(), "Tournament year to operate on")
	modePtr := flag.String("mode", "analyze", "Operation to run: analyze, result, lock, serve")
	resultPtr := flag.String("result", "", "Game result to record: '<matchupId> \"<winner>\" [<scoreA>-<scoreB>] [live]'")
	persistPtr := flag.Bool("persist", false, "Persist the analysis report to the database")
	workersPtr := flag.Int("workers", 0, "Analyzer worker count, 0 sizes to the CPU count")
	schedulePtr := flag.String("schedule", "@every 30m", "Cron schedule for serve mode")
	notifyPtr := flag.Bool("notify", false, "Post the analysis summary to Discord")

	flag.Parse()

	if err != nil {
		logrus.Warn("no .env file loaded, using process environment")
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := api.NewAPI(ctx, envOr("DB_NAME", "bracket_pool"), os.Getenv("MONGO_URI"))
	if err != nil {
		logrus.Fatalf("failed to initialize API: %v", err)
	}
	defer func() {
		if err := a.Store.Disconnect(context.Background()); err != nil {
			logrus.Errorf("failed to disconnect from db: %v", err)
		}
	}()

	var notifier *notify.Notifier
	if *notifyPtr {
		notifier, err = notify.NewNotifier(os.Getenv("DISCORD_TOKEN"), os.Getenv("DISCORD_CHANNEL_ID"))
		if err != nil {
			logrus.Fatalf("failed to initialize notifier: %v", err)
		}
	}

	switch *modePtr {
	case "analyze":
		if err := runAnalysis(ctx, a, notifier, *yearPtr, *persistPtr, *workersPtr); err != nil {
			logrus.Fatal(err)
		}

	case "result":
		if err := recordResult(ctx, a, *yearPtr, *resultPtr); err != nil {
			logrus.Fatal(err)
		}

	case "lock":
		locked, err := a.LockBrackets(ctx)
		if err != nil {
			logrus.Fatal(err)
		}
		fmt.Printf("locked %d brackets\n", locked)

	case "serve":
		if err := serve(ctx, a, notifier, *yearPtr, *schedulePtr, *persistPtr, *workersPtr); err != nil {
			logrus.Fatal(err)
		}

	default:
		logrus.Fatalf("invalid mode %q, expected analyze, result, lock or serve", *modePtr)
	}
}

// runAnalysis runs one full analysis, prints the report as JSON and posts the
// summary if a notifier is configured. A needsSweet16 precondition is reported
// as a plain message rather than a failure.
func runAnalysis(ctx context.Context, a *api.API, notifier *notify.Notifier, year int, persist bool, workers int) error {
	report, err := a.Analyze(ctx, year, api.AnalyzeOptions{Persist: persist, Workers: workers})
	if err != nil {
		var precondition *shared.PreconditionError
		if errors.As(err, &precondition) {
			fmt.Printf("analysis unavailable: %s (%d teams still active)\n", precondition.Message, precondition.ActiveTeams)
			return nil
		}
		return err
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	fmt.Println(string(out))

	if notifier != nil {
		if err := notifier.PostReport(ctx, report); err != nil {
			return err
		}
	}
	return nil
}

// recordResult parses a result argument and applies it to the stored state.
// The winner name may be quoted, e.g. -result='57 "Michigan State" 78-64'.
// A trailing "live" token records the score without completing the game.
func recordResult(ctx context.Context, a *api.API, year int, raw string) error {
	if raw == "" {
		return fmt.Errorf("result mode requires the -result flag")
	}
	spaceSplitter, err := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	if err != nil {
		return fmt.Errorf("failed to build result splitter: %w", err)
	}
	tokens, err := spaceSplitter.Split(raw)
	if err != nil {
		return fmt.Errorf("failed to parse result %q: %w", raw, err)
	}
	if len(tokens) < 2 {
		return fmt.Errorf("result needs at least a matchup id and winner, got %q", raw)
	}

	matchupID, err := strconv.Atoi(tokens[0])
	if err != nil {
		return fmt.Errorf("invalid matchup id %q: %w", tokens[0], err)
	}
	winner := strings.Trim(tokens[1], "\"")

	completed := true
	var score *shared.MatchScore
	for _, tok := range tokens[2:] {
		if tok == "live" {
			completed = false
			continue
		}
		parsed, err := parseScore(tok)
		if err != nil {
			return err
		}
		score = parsed
	}

	if err := a.ApplyResult(ctx, year, matchupID, winner, score, completed); err != nil {
		return err
	}
	fmt.Printf("recorded result for matchup %d\n", matchupID)
	return nil
}

func parseScore(tok string) (*shared.MatchScore, error) {
	parts := strings.SplitN(tok, "-", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid score %q, expected <a>-<b>", tok)
	}
	a, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid score %q: %w", tok, err)
	}
	b, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid score %q: %w", tok, err)
	}
	return &shared.MatchScore{A: a, B: b}, nil
}

// serve runs analyses on a cron schedule until interrupted.
func serve(ctx context.Context, a *api.API, notifier *notify.Notifier, year int, schedule string, persist bool, workers int) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if err := runAnalysis(ctx, a, notifier, year, persist, workers); err != nil {
			logrus.Errorf("scheduled analysis failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	logrus.WithField("schedule", schedule).Info("analyzer running, ctrl+c to stop")
	c.Start()
	<-ctx.Done()
	cronCtx := c.Stop()
	<-cronCtx.Done()
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
