package insights

import (
	"context"
	"time"

	"github.com/checkfox/leadintel/internal/cache"
	"github.com/checkfox/leadintel/internal/client"
	"github.com/checkfox/leadintel/internal/logger"
	"github.com/checkfox/leadintel/internal/metrics"
	"github.com/checkfox/leadintel/internal/models"
	"github.com/checkfox/leadintel/internal/prompts"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// narrative is the text an orchestrator embeds in its result plus how it was obtained
type narrative struct {
	Text           string
	FromCache      bool
	Fallback       bool
	FallbackReason string
}

// engine runs the resolve, cache, complete, fallback pipeline shared by
// every orchestrator
type engine struct {
	registry  *prompts.Registry
	cache     *cache.ResponseCache
	completer client.Completer
	metrics   *metrics.Manager
	now       func() time.Time
	inflight  singleflight.Group
}

// generate resolves the prompt for purpose and returns a narrative. Binding
// errors are returned; completion failures are replaced by offline().
func (e *engine) generate(ctx context.Context, purpose models.Purpose, slots map[string]string, offline func() string) (narrative, error) {
	ctx = context.WithValue(ctx, logger.PurposeKey, string(purpose))

	prompt, err := e.registry.Resolve(purpose, slots, "")
	if err != nil {
		logger.LogError(ctx, "Failed to resolve prompt", err)
		return narrative{}, err
	}

	if text, ok := e.cache.Get(purpose, slots); ok {
		logger.Debug(ctx, "Narrative served from cache")
		return narrative{Text: text, FromCache: true}, nil
	}

	result, fromCache := e.complete(ctx, purpose, slots, prompt)
	if result.OK {
		return narrative{Text: result.Text, FromCache: fromCache}, nil
	}

	reason := string(result.Reason)
	logger.Warn(ctx, "Completion unavailable, using offline narrative",
		"reason", reason,
		"attempts", result.Attempts)
	e.metrics.RecordFallback(string(purpose), reason)

	text := offline()
	if text == "" {
		text = result.Text
	}
	return narrative{Text: text, Fallback: true, FallbackReason: reason}, nil
}

// sharedCompletion is the value handed to every caller of one coalesced call
type sharedCompletion struct {
	result    client.Result
	fromCache bool
}

// complete coalesces concurrent identical misses into one outbound call and
// stores successful results. The shared call ignores the cancellation of
// whichever caller started it; each caller stops waiting when its own ctx ends.
func (e *engine) complete(ctx context.Context, purpose models.Purpose, slots map[string]string, prompt prompts.Prompt) (client.Result, bool) {
	request := client.CompletionRequest{
		Purpose: purpose,
		Prompt:  prompt.Text,
		System:  prompt.System,
	}

	key, err := cache.Fingerprint(purpose, slots)
	if err != nil {
		return e.completer.Complete(ctx, request), false
	}
	if ctx.Err() != nil {
		return cancelled(purpose), false
	}

	shared := context.WithoutCancel(ctx)
	ch := e.inflight.DoChan(key, func() (interface{}, error) {
		// a call that finished between our lookup and this one already stored the text
		if text, ok := e.cache.Peek(purpose, slots); ok {
			return sharedCompletion{result: client.Result{OK: true, Text: text}, fromCache: true}, nil
		}
		result := e.completer.Complete(shared, request)
		if result.OK {
			if err := e.cache.Put(purpose, slots, result.Text); err != nil {
				logger.Warn(shared, "Failed to cache narrative", "error", err.Error())
			}
		}
		return sharedCompletion{result: result}, nil
	})

	select {
	case res := <-ch:
		value := res.Val.(sharedCompletion)
		return value.result, value.fromCache
	case <-ctx.Done():
		return cancelled(purpose), false
	}
}

func cancelled(purpose models.Purpose) client.Result {
	return client.Result{Text: client.Fallback(purpose), Reason: client.ReasonTransport}
}

func (e *engine) metadata(purpose models.Purpose, n narrative) models.ResultMetadata {
	return models.ResultMetadata{
		RequestID:       uuid.NewString(),
		Purpose:         purpose,
		GeneratedAt:     e.now().UTC(),
		ServedFromCache: n.FromCache,
		Fallback:        n.Fallback,
		FallbackReason:  n.FallbackReason,
	}
}
