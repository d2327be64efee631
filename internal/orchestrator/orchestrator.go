// Package orchestrator drives one conversation per user identity: session
// lifecycle, bootstrap-prompt construction, model invocation, response
// parsing and the plan persistence pipeline.
package orchestrator

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"FouserBot/internal/llm"
	"FouserBot/internal/models"
	"FouserBot/internal/parser"
	"FouserBot/internal/prompt"
	"FouserBot/internal/session"
	"FouserBot/internal/storage"
)

// Canned replies.
const (
	// ApologyReply is sent when the model capability fails.
	ApologyReply = "I'm sorry, I had trouble processing that. Please try again."
	// ResetReply acknowledges a reset command.
	ResetReply = "I've cleared our conversation history. We can start fresh!"
)

// storeTimeout bounds every structured-store call; the model call itself
// is unbounded.
const storeTimeout = 10 * time.Second

// ProfileRepository reads stored user profiles.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID int64) (models.Profile, error)
}

// PlanHistoryRepository reads the active plan and runs the versioning
// pipeline. SaveNewPlan upserts the profile, closes the active plan and
// opens the new one; at most one plan per user may be left open.
type PlanHistoryRepository interface {
	GetActivePlan(ctx context.Context, userID int64) (*models.Plan, error)
	SaveNewPlan(ctx context.Context, userID int64, profile models.Profile, planText string) error
}

// TurnLog appends messages to the conversation history.
type TurnLog interface {
	LogTurn(ctx context.Context, userID int64, sender, text string) error
}

// Orchestrator composes the session store, the model capability and the
// repositories. Safe for concurrent use: handling is serialized per user
// identity and fully concurrent across identities.
type Orchestrator struct {
	model    llm.Client
	profiles ProfileRepository
	plans    PlanHistoryRepository
	turns    TurnLog
	sessions *session.Store
}

func New(model llm.Client, profiles ProfileRepository, plans PlanHistoryRepository, turns TurnLog) *Orchestrator {
	return &Orchestrator{
		model:    model,
		profiles: profiles,
		plans:    plans,
		turns:    turns,
		sessions: session.NewStore(),
	}
}

// HandleMessage runs one inbound message end to end and returns the reply
// to deliver. Model and store failures never escape: they are logged and
// folded into the reply, so the user always hears back.
func (o *Orchestrator) HandleMessage(ctx context.Context, userID int64, text string) string {
	conv := o.sessions.Get(userID)
	conv.Lock()
	defer conv.Unlock()

	o.logTurn(ctx, userID, models.SenderUser, text)

	raw, err := o.exchange(ctx, conv, userID, text)
	if err != nil {
		log.Printf("HandleMessage(): model call failed for user %d: %v", userID, err)
		return ApologyReply
	}

	o.logTurn(ctx, userID, models.SenderAI, raw)
	return o.deliver(ctx, userID, raw)
}

// Reset discards the model session for userID only; the structured store
// is untouched.
func (o *Orchestrator) Reset(userID int64) string {
	o.sessions.Reset(userID)
	log.Printf("Reset(): cleared model session for user %d", userID)
	return ResetReply
}

// exchange sends text through the user's model session, bootstrapping a new
// session first when none is live. Caller holds the conversation lock.
func (o *Orchestrator) exchange(ctx context.Context, conv *session.Conversation, userID int64, text string) (string, error) {
	if conv.Handle != nil {
		return conv.Handle.Send(ctx, text)
	}

	handle, err := o.model.NewSession(ctx)
	if err != nil {
		return "", err
	}
	conv.ID = uuid.New().String()
	conv.Handle = handle
	conv.State = session.Bootstrapping
	log.Printf("exchange(): new model session %s for user %d", conv.ID, userID)

	reply, err := conv.Handle.Send(ctx, o.bootstrapNote(ctx, userID, text))
	if err != nil {
		// No reply ever arrived; drop the handle so the next message
		// bootstraps again instead of continuing a half-opened session.
		conv.ID = ""
		conv.Handle = nil
		conv.State = session.NoSession
		return "", err
	}
	conv.State = session.Active
	return reply, nil
}

// bootstrapNote performs the single profile read (plus the active-plan read
// for returning users) and builds the system note for the first turn. Store
// failures degrade to the new-user path so the chat still works.
func (o *Orchestrator) bootstrapNote(ctx context.Context, userID int64, firstMessage string) string {
	sctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	profile, err := o.profiles.GetProfile(sctx, userID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("bootstrapNote(): profile read failed for user %d: %v", userID, err)
		}
		log.Printf("bootstrapNote(): user %d is new", userID)
		return prompt.NewUserNote(firstMessage)
	}

	lastPlan := prompt.NoPreviousPlan
	plan, err := o.plans.GetActivePlan(sctx, userID)
	switch {
	case err == nil:
		lastPlan = plan.PlanText
	case !errors.Is(err, storage.ErrNotFound):
		log.Printf("bootstrapNote(): active plan read failed for user %d: %v", userID, err)
	}
	log.Printf("bootstrapNote(): user %d is returning", userID)
	return prompt.ReturningUserNote(profile, lastPlan, firstMessage)
}

// deliver parses the raw model reply and decides the user-visible text.
// Persistence runs only for a final reply carrying a usable profile block,
// and its outcome never blocks or alters the reply.
func (o *Orchestrator) deliver(ctx context.Context, userID int64, raw string) string {
	res := parser.Parse(raw)
	if !res.IsFinal {
		return raw
	}

	if res.Profile == nil {
		log.Printf("deliver(): plan marker without usable profile block for user %d: %v", userID, res.ProfileErr)
		return strings.TrimSpace(strings.ReplaceAll(raw, parser.EndOfPlanMarker, ""))
	}

	sctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	if err := o.plans.SaveNewPlan(sctx, userID, res.Profile, res.PlanText); err != nil {
		log.Printf("deliver(): failed to save plan and profile for user %d: %v", userID, err)
	} else {
		log.Printf("deliver(): saved new plan and profile for user %d", userID)
	}

	reply := res.PlanText
	if res.Disclaimer != "" {
		reply += "\n\n" + res.Disclaimer
	}
	return strings.TrimSpace(reply)
}

// logTurn appends to the conversation history, best effort.
func (o *Orchestrator) logTurn(ctx context.Context, userID int64, sender, text string) {
	sctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	if err := o.turns.LogTurn(sctx, userID, sender, text); err != nil {
		log.Printf("logTurn(): failed to log %s turn for user %d: %v", sender, userID, err)
	}
}
