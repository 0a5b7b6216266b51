package assistant

import (
	"context"
	"fmt"
	"io"
	"time"

	"inboxpilot/internal/logger"
	"inboxpilot/internal/model"
	"inboxpilot/internal/repository"
)

// AnalysisFailedNarrative is used whenever a message cannot be analyzed:
// classifier transport failure, empty content, or an unexpected fault.
const AnalysisFailedNarrative = "Email received, but encountered an error during analysis."

// Runner drives the per-message lifecycle: fetch and store new mail, walk
// the unprocessed backlog one message at a time, and mark each processed
// regardless of how its actions fared. Strictly sequential; nothing here
// is safe for a second concurrent runner against the same store.
type Runner struct {
	repo       repository.MessageRepository
	mailClient MailClient
	aiClient   AIClient
	dispatcher *Dispatcher
	pause      time.Duration
	out        io.Writer
	logger     *logger.Logger
}

func NewRunner(
	repo repository.MessageRepository,
	mailClient MailClient,
	aiClient AIClient,
	dispatcher *Dispatcher,
	pause time.Duration,
	out io.Writer,
	logger *logger.Logger,
) *Runner {
	return &Runner{
		repo:       repo,
		mailClient: mailClient,
		aiClient:   aiClient,
		dispatcher: dispatcher,
		pause:      pause,
		out:        out,
		logger:     logger,
	}
}

// Run executes one full pass: fetch, then process the backlog.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.fetchAndStore(ctx); err != nil {
		// Fetch failure is not fatal; the existing backlog can still be
		// worked through.
		r.logger.Error("Failed to fetch new messages:", err)
	}

	messages, err := r.repo.ListUnprocessed(ctx)
	if err != nil {
		return fmt.Errorf("failed to list unprocessed messages: %w", err)
	}
	if len(messages) == 0 {
		r.logger.Info("No unprocessed messages found")
		return nil
	}
	r.logger.Info("Found", len(messages), "messages for processing")

	for i, msg := range messages {
		r.logger.Info("Processing message:", msg.MessageID)

		outcome := r.processMessage(ctx, msg)
		r.report(msg, outcome)

		// The message is done whether or not its action succeeded; the
		// processed flag only ever moves false to true.
		if ok, err := r.repo.MarkProcessed(ctx, msg.MessageID); err != nil {
			r.logger.Error("Failed to mark message processed:", msg.MessageID, err)
		} else if !ok {
			r.logger.Warn("Message not found when marking processed:", msg.MessageID)
		}

		// Fixed pause between messages to respect external rate limits.
		if i < len(messages)-1 {
			time.Sleep(r.pause)
		}
	}

	return nil
}

// fetchAndStore pulls unread mail and inserts anything not already stored.
func (r *Runner) fetchAndStore(ctx context.Context) error {
	fetched, err := r.mailClient.ListUnreadMessages(ctx)
	if err != nil {
		return fmt.Errorf("failed to list unread messages: %w", err)
	}

	stored := 0
	for _, msg := range fetched {
		exists, err := r.repo.Exists(ctx, msg.MessageID)
		if err != nil {
			r.logger.Error("Failed to check message existence:", msg.MessageID, err)
			continue
		}
		if exists {
			continue
		}
		ok, err := r.repo.Insert(ctx, msg)
		if err != nil {
			r.logger.Error("Failed to store message:", msg.MessageID, err)
			continue
		}
		if ok {
			stored++
		}
	}

	r.logger.Info("Stored", stored, "new messages")
	return nil
}

// processMessage runs the analyze-filter-dispatch pipeline for one message.
// Unexpected faults are contained here so one bad message cannot abort the
// rest of the pass.
func (r *Runner) processMessage(ctx context.Context, msg *model.Message) (outcome model.ActionOutcome) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Unexpected fault processing message:", msg.MessageID, rec)
			outcome = model.ActionOutcome{Narrative: AnalysisFailedNarrative}
		}
	}()

	result, err := r.analyze(ctx, msg)
	if err != nil {
		r.logger.Error("Analysis failed for message:", msg.MessageID, err)
		return model.ActionOutcome{Narrative: AnalysisFailedNarrative}
	}

	return r.dispatcher.Dispatch(ctx, result, msg)
}

// analyze classifies the message and, for meeting requests, extracts the
// scheduling details, then applies the keyword override.
func (r *Runner) analyze(ctx context.Context, msg *model.Message) (model.ClassificationResult, error) {
	if msg.Subject == "" && msg.BodyPlain == "" {
		return model.ClassificationResult{}, fmt.Errorf("subject and body are both empty")
	}

	rawIntent, err := r.aiClient.ClassifyIntent(ctx, msg.Subject, msg.BodyPlain)
	if err != nil {
		return model.ClassificationResult{}, err
	}
	result := model.ClassificationResult{Intent: model.ParseIntent(rawIntent)}

	if result.Intent == model.IntentMeetingRequest {
		// Extraction failure is non-fatal; details simply stay absent.
		result.Details, _ = r.aiClient.ExtractMeetingDetails(ctx, msg.Subject, msg.BodyPlain)
	}

	if overridden, fired := OverrideIntent(result.Intent, msg.Subject, msg.BodyPlain); fired {
		r.logger.Infof("Overriding intent %q to %q based on keyword cues", result.Intent, overridden)
		result.Intent = overridden
		result.Details = nil
	}

	return result, nil
}

// report surfaces the outcome and any draft to the operator.
func (r *Runner) report(msg *model.Message, outcome model.ActionOutcome) {
	fmt.Fprintf(r.out, "\n[%s] %s\n", msg.MessageID, outcome.Narrative)

	if outcome.ReplyDraft != "" {
		fmt.Fprintf(r.out, "\n--- Draft Reply ---\nTo: %s\nSubject: Re: %s\n---\n%s\n-------------------\n",
			msg.Sender, msg.Subject, outcome.ReplyDraft)
	}
}
