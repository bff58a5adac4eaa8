package review

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"github.com/happyreview/happyreview-go/pkg/dialog"
	"github.com/happyreview/happyreview-go/pkg/storage"
)

// TestEngine_StatePersistsAcrossRestarts drives the engine over a real
// (in-process) Redis and rebuilds it mid-scenario, the way an app restart
// would. Counters and prompt history must carry over.
func TestEngine_StatePersistsAcrossRestarts(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := storage.NewRedisStore(client, "")
	ctx := context.Background()

	cfg := baseConfig()
	cfg.Store = store
	cfg.Dialog = &fakeDialog{choice: dialog.ChoicePositive}
	e := mustEngine(t, cfg)

	logEvent(t, e, "purchase")
	logEvent(t, e, "purchase")

	// "Restart": a fresh engine over the same store continues the count.
	e = mustEngine(t, cfg)

	if count, _ := e.EventCount(ctx, "purchase"); count != 2 {
		t.Fatalf("EventCount() = %d after restart, expected 2", count)
	}
	if result := logEvent(t, e, "purchase"); result != ResultReviewRequested {
		t.Fatalf("result = %s, expected %s", result, ResultReviewRequested)
	}

	// And the prompt history carries over too.
	e = mustEngine(t, cfg)
	if shown, _ := e.PromptsShownCount(ctx); shown != 1 {
		t.Errorf("PromptsShownCount() = %d after restart, expected 1", shown)
	}
	if _, ok, _ := e.LastPromptDate(ctx); !ok {
		t.Error("LastPromptDate() unset after restart")
	}
}
