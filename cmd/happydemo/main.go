// Command happydemo drives the review decision engine interactively from a
// terminal. Events are typed one per line; the pre-dialog and feedback form
// are rendered as terminal prompts; the OS review request is simulated with
// a log line. State lives in Redis, so repeated runs behave like repeated
// app launches.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/happyreview/happyreview-go/internal/config"
	"github.com/happyreview/happyreview-go/internal/server"
	"github.com/happyreview/happyreview-go/pkg/dialog"
	"github.com/happyreview/happyreview-go/pkg/review"
	"github.com/happyreview/happyreview-go/pkg/storage"
)

// terminalHost is always valid: the terminal does not go away mid-flow.
type terminalHost struct{}

func (terminalHost) Valid() bool { return true }

// terminalDialog renders the satisfaction flow as stdin prompts.
type terminalDialog struct {
	in *bufio.Reader
}

func (d *terminalDialog) ShowPreDialog(_ context.Context, _ dialog.Host) (dialog.Choice, error) {
	fmt.Print("Enjoying the app? [y]es / [n]o / [l]ater / [d]ismiss: ")
	line, err := d.in.ReadString('\n')
	if err != nil {
		return dialog.ChoiceDismissed, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return dialog.ChoicePositive, nil
	case "n", "no":
		return dialog.ChoiceNegative, nil
	case "l", "later":
		return dialog.ChoiceRemindLater, nil
	default:
		return dialog.ChoiceDismissed, nil
	}
}

func (d *terminalDialog) ShowFeedbackDialog(_ context.Context, _ dialog.Host) (*dialog.Feedback, error) {
	fmt.Print("What went wrong? (empty line to skip): ")
	line, err := d.in.ReadString('\n')
	if err != nil {
		return nil, err
	}
	comment := strings.TrimSpace(line)
	if comment == "" {
		return nil, nil
	}
	return &dialog.Feedback{Comment: comment}, nil
}

// logReviewer simulates the OS review-request capability.
type logReviewer struct{}

func (logReviewer) Available() bool { return true }

func (logReviewer) RequestReview(_ context.Context, _ dialog.Host) error {
	logrus.Info("OS review dialog requested")
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	level, _ := logrus.ParseLevel(cfg.LogLevel)
	logrus.SetLevel(level)

	ctx := context.Background()

	client, err := storage.InitRedisClient(ctx, storage.RedisOptions{
		Host:         cfg.RedisHost,
		Port:         cfg.RedisPort,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		MaxRetries:   cfg.RedisMaxRetries,
		RetryBackoff: time.Duration(cfg.RedisRetryDelayMs) * time.Millisecond,
	})
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	defer client.Close()

	fileCfg, err := review.LoadFileConfig(cfg.EngineConfigPath)
	if err != nil {
		logrus.Fatalf("failed to load engine config: %v", err)
	}
	engineCfg, err := fileCfg.EngineConfig()
	if err != nil {
		logrus.Fatalf("failed to build engine config: %v", err)
	}

	in := bufio.NewReader(os.Stdin)

	metrics := review.NewMetrics()
	engineCfg.Store = storage.NewRedisStore(client, cfg.RedisKeyPrefix)
	engineCfg.Dialog = &terminalDialog{in: in}
	engineCfg.Reviewer = logReviewer{}
	engineCfg.Metrics = metrics
	engineCfg.Callbacks = review.Callbacks{
		OnFeedbackSubmitted: func(fb dialog.Feedback) {
			logrus.Infof("feedback received: %q", fb.Comment)
		},
	}

	engine, err := review.New(ctx, engineCfg)
	if err != nil {
		logrus.Fatalf("failed to construct engine: %v", err)
	}

	metricsServer := server.NewMetricsServer(cfg.MetricsPort, cfg.MetricsEndpoint)
	if err := metricsServer.Setup(metrics); err != nil {
		logrus.Fatalf("failed to set up metrics server: %v", err)
	}
	if err := metricsServer.Start(ctx); err != nil {
		logrus.Fatalf("failed to start metrics server: %v", err)
	}
	defer metricsServer.Shutdown(ctx)

	fmt.Println("type an event name per line; 'snapshot' and 'reset' are commands, Ctrl-D exits")

	host := terminalHost{}
	for {
		fmt.Print("> ")
		line, err := in.ReadString('\n')
		if err != nil {
			break
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		switch input {
		case "snapshot":
			snap, err := engine.Snapshot(ctx)
			if err != nil {
				logrus.Errorf("snapshot failed: %v", err)
				continue
			}
			out, _ := json.MarshalIndent(snap, "", "  ")
			fmt.Println(string(out))

		case "reset":
			if err := engine.Reset(ctx); err != nil {
				logrus.Errorf("reset failed: %v", err)
				continue
			}
			fmt.Println("state cleared")

		default:
			result, err := engine.LogEvent(ctx, host, input)
			if err != nil {
				logrus.Errorf("logEvent failed: %v", err)
				continue
			}
			fmt.Printf("%s -> %s\n", input, result)
		}
	}
}
