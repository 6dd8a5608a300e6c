package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"maitred/internal/catalog"
	"maitred/internal/match"
	"maitred/internal/models"
	"maitred/internal/monitoring"
	"maitred/internal/repair"
	"maitred/internal/session"
	"maitred/internal/slots"
)

// Generator is the opaque language-model capability the engine defers to for
// natural-language replies: text in, free-form text out. The engine never
// inspects how the text is produced; it only parses what comes back.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// MaxCandidates is how many ranked restaurants are surfaced to the caller
// and offered to the model.
const MaxCandidates = 3

// DefaultGenerateTimeout bounds a single model call. The timeout is
// advisory: its expiry still yields a valid fallback reply.
const DefaultGenerateTimeout = 20 * time.Second

// Result is what one processed utterance yields for the caller
type Result struct {
	SessionID  string                       `json:"session_id"`
	Reply      string                       `json:"reply"`
	Slots      models.ConversationSlots     `json:"slots"`
	Candidates []models.CandidateRestaurant `json:"candidates,omitempty"`
	Intent     *models.OrderIntent          `json:"intent,omitempty"`
}

// Resolver turns a sequence of free-form utterances into a validated order
// intent. It owns the per-conversation state machine: collect slots, rank
// restaurants once the slots saturate, defer to the model for a reply, and
// repair whatever structured payload the model embeds.
type Resolver struct {
	store      *session.Store
	catalog    catalog.Source
	gen        Generator
	metrics    *monitoring.Metrics
	genTimeout time.Duration
}

// Option configures a Resolver
type Option func(*Resolver)

// WithGenerateTimeout overrides the advisory model-call timeout
func WithGenerateTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.genTimeout = d }
}

// NewResolver wires the resolver with its collaborators
func NewResolver(store *session.Store, source catalog.Source, gen Generator, metrics *monitoring.Metrics, opts ...Option) *Resolver {
	r := &Resolver{
		store:      store,
		catalog:    source,
		gen:        gen,
		metrics:    metrics,
		genTimeout: DefaultGenerateTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HandleUtterance processes one conversational turn for a session. Input
// errors (empty text, out-of-range coordinates) are rejected before any
// session mutation. Upstream model failures degrade to a canned reply with
// the session preserved so the next utterance can retry.
func (r *Resolver) HandleUtterance(ctx context.Context, sessionID, text string, userLoc *models.Coordinate) (*Result, error) {
	text = strings.TrimSpace(text)
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}
	if text == "" {
		return nil, fmt.Errorf("utterance text is empty")
	}
	if userLoc != nil {
		if err := userLoc.Validate(); err != nil {
			return nil, fmt.Errorf("invalid user coordinate: %w", err)
		}
	}

	now := time.Now()

	// Critical section: extract slots and append the turn. Blocking I/O
	// (catalog lookup, model call) stays outside.
	var snap session.Session
	r.store.Update(sessionID, func(s *session.Session) {
		s.Slots = slots.ExtractWithCorrections(text, s.Slots)
		if userLoc != nil && s.Slots.Location == nil {
			s.Slots.Location = userLoc
		}
		s.AppendTurn("user", text, now)
		if s.Status == session.StatusCollecting && s.Slots.Saturated() {
			s.Status = session.StatusReady
		}
		snap = *s
		snap.Turns = append([]session.Turn(nil), s.Turns...)
	})
	r.metrics.SetActiveSessions(r.store.Len())

	result := &Result{SessionID: sessionID, Slots: snap.Slots}

	// One matching pass per utterance once the slots are saturated, until
	// the session is placed or abandoned.
	if snap.Slots.Saturated() && snap.Status != session.StatusPlaced {
		result.Candidates = r.rankCandidates(ctx, snap.Slots)
	}

	reply, intent := r.generateAndRepair(ctx, snap, text, result.Candidates)
	result.Reply = reply
	result.Intent = intent

	// Merge the outcome back, re-checking the session was not concurrently
	// advanced past placement while the model call was in flight.
	r.store.Update(sessionID, func(s *session.Session) {
		s.AppendTurn("assistant", reply, time.Now())
		if intent != nil && s.Status != session.StatusPlaced {
			s.Status = session.StatusPlaced
		}
	})

	outcome := "reply"
	if intent != nil {
		outcome = "placed"
	}
	r.metrics.ObserveUtterance(outcome)

	return result, nil
}

// ClearSession drops all state for a session identifier
func (r *Resolver) ClearSession(sessionID string) bool {
	cleared := r.store.Clear(sessionID)
	r.metrics.SetActiveSessions(r.store.Len())
	return cleared
}

func (r *Resolver) rankCandidates(ctx context.Context, s models.ConversationSlots) []models.CandidateRestaurant {
	restaurants, err := r.catalog.ListRestaurants(ctx)
	if err != nil {
		// No-match is not an error for the user; a catalog failure just
		// means this turn proceeds without candidates.
		log.Printf("catalog lookup failed: %v", err)
		return nil
	}

	food := ""
	if s.Food != nil {
		food = *s.Food
	}
	candidates := match.Rank(restaurants, food, s.Veg, s.Location)
	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}
	return candidates
}

func (r *Resolver) generateAndRepair(ctx context.Context, snap session.Session, text string, candidates []models.CandidateRestaurant) (string, *models.OrderIntent) {
	gctx, cancel := context.WithTimeout(ctx, r.genTimeout)
	defer cancel()

	start := time.Now()
	raw, err := r.gen.Generate(gctx, BuildContext(snap, candidates), text)
	r.metrics.ObserveGenerate(time.Since(start), err)
	if err != nil {
		log.Printf("generate failed for session %s: %v", snap.ID, err)
		return fallbackReply(snap.Slots, candidates), nil
	}

	payload, ok := repair.ExtractPayload(raw)
	if !ok {
		// No embedded payload: surface the natural-language reply as-is.
		return strings.TrimSpace(raw), nil
	}

	intent := repair.Repair(payload, candidateMenu(candidates))
	if intent.Reply == repair.FallbackReply {
		r.metrics.RecordRepairFallback()
	}
	return intent.Reply, &intent
}

// candidateMenu flattens the matched items of the ranked candidates into the
// menu the repairer resolves item names against.
func candidateMenu(candidates []models.CandidateRestaurant) []models.MenuItem {
	var menu []models.MenuItem
	for _, c := range candidates {
		menu = append(menu, c.Items...)
	}
	return menu
}

// fallbackReply covers model failures and timeouts: ask for the next missing
// slot, or acknowledge the match set when the slots are complete.
func fallbackReply(s models.ConversationSlots, candidates []models.CandidateRestaurant) string {
	switch {
	case s.Food == nil:
		return "What would you like to eat?"
	case s.Veg == nil:
		return "Would you prefer vegetarian or non-vegetarian?"
	case s.Quantity == nil:
		return "How many would you like?"
	case s.Location == nil:
		return "Where should we deliver? Please share your location."
	case len(candidates) == 0:
		return "Sorry, no restaurants near you can serve that right now."
	default:
		return fmt.Sprintf("I found %d restaurants that can serve you. Please try again in a moment.", len(candidates))
	}
}
