package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stridehq/stride/internal/adapter/otel"
	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/domain/session"
	"github.com/stridehq/stride/internal/domain/user"
	"github.com/stridehq/stride/internal/port/broadcast"
	"github.com/stridehq/stride/internal/port/database"
	"github.com/stridehq/stride/internal/port/eventbus"
	"github.com/stridehq/stride/internal/port/planner"
)

// scheduleContextKey is the session-context key under which the scheduling
// context travels to the agent. The agent reads it by this name.
const scheduleContextKey = "schedule"

// TurnResult is the outcome of one conversational turn: the agent's reply
// and action plus the reconciled session.
type TurnResult struct {
	Reply   string
	Action  planner.Action
	Session *session.Session
}

// SessionService brokers the conversational planning workflow: it owns
// session lifecycle, the append-only transcript, agent invocation, and the
// reconciliation of agent responses back into session state.
type SessionService struct {
	store    database.Store
	runner   planner.Runner
	schedule *ScheduleService
	bus      eventbus.Bus
	hub      broadcast.Broadcaster
	metrics  *otel.Metrics
	now      func() time.Time // for testing
}

// NewSessionService creates a new SessionService. bus, hub, and metrics may
// be nil.
func NewSessionService(store database.Store, runner planner.Runner, schedule *ScheduleService,
	bus eventbus.Bus, hub broadcast.Broadcaster, metrics *otel.Metrics) *SessionService {
	return &SessionService{
		store:    store,
		runner:   runner,
		schedule: schedule,
		bus:      bus,
		hub:      hub,
		metrics:  metrics,
		now:      time.Now,
	}
}

// LatestActive returns the user's most recently updated active session,
// starting a fresh one when none exists.
func (s *SessionService) LatestActive(ctx context.Context, u *user.User) (*session.Session, error) {
	sess, err := s.store.LatestActiveSession(ctx, u.ID)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.start(ctx, u)
}

// start creates a session/chat pair seeded with the user's current scheduling
// context. The session id is generated here so the chat can reference it
// before the session row exists.
func (s *SessionService) start(ctx context.Context, u *user.User) (*session.Session, error) {
	sc, err := s.schedule.Context(ctx, u)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	chat, err := s.store.CreateChat(ctx, &session.Chat{UserID: u.ID, SessionID: id})
	if err != nil {
		return nil, err
	}

	sess, err := s.store.CreateSession(ctx, &session.Session{
		ID:        id,
		UserID:    u.ID,
		ChatID:    chat.ID,
		State:     session.StatePlanGenerated,
		Iteration: 0,
		Active:    true,
		Context:   map[string]any{scheduleContextKey: sc},
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SessionsStarted.Add(ctx, 1)
	}
	s.publishSessionUpdated(ctx, sess)
	return sess, nil
}

// HandleMessage runs one conversational turn: validate the session, append
// the user's message, invoke the agent, reconcile the returned state and
// action, and append the agent's reply. The user message is appended before
// the agent call so a failed turn still leaves it in the transcript.
func (s *SessionService) HandleMessage(ctx context.Context, u *user.User, req session.MessageRequest) (*TurnResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sess, err := s.store.GetSession(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Validationf("unknown sessionId %q", req.SessionID)
		}
		return nil, err
	}
	if sess.UserID != u.ID {
		return nil, domain.Unauthorizedf("session %s does not belong to the authenticated user", sess.ID)
	}
	if !sess.Active {
		return nil, domain.Conflictf("session_finalized", "session %s is finalized and cannot accept messages", sess.ID)
	}

	if _, err := s.store.AppendMessage(ctx, &session.Message{
		ChatID:    sess.ChatID,
		SessionID: sess.ID,
		Sender:    session.SenderUser,
		Message:   req.Message,
	}); err != nil {
		return nil, err
	}

	turnContext := s.buildTurnContext(ctx, u, sess, req.Context)

	resp, err := s.invokeAgent(ctx, planner.Request{
		SessionID: sess.ID,
		UserID:    u.ID,
		Message:   req.Message,
		Context:   turnContext,
		State: planner.StatePayload{
			State:         string(sess.State),
			Iteration:     &sess.Iteration,
			SessionActive: &sess.Active,
			GoalPreviewID: optional(sess.GoalPreviewID),
		},
	})
	if err != nil {
		// The session is left untouched apart from the user message.
		return nil, err
	}

	s.applyState(sess, resp)
	finalized, err := s.applyAction(ctx, u, sess, resp.Action)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateSession(ctx, sess); err != nil {
		return nil, err
	}

	if resp.Reply != "" {
		if _, err := s.store.AppendMessage(ctx, &session.Message{
			ChatID:    sess.ChatID,
			SessionID: sess.ID,
			Sender:    session.SenderAgent,
			Message:   resp.Reply,
		}); err != nil {
			return nil, err
		}
	}

	s.publishSessionUpdated(ctx, sess)
	if finalized {
		if s.metrics != nil {
			s.metrics.SessionsFinalized.Add(ctx, 1)
		}
		s.publish(ctx, eventbus.SubjectGoalFinalized, eventbus.GoalFinalizedPayload{
			SessionID:     sess.ID,
			UserID:        sess.UserID,
			GoalPreviewID: sess.GoalPreviewID,
		})
	}
	if s.hub != nil {
		s.hub.Broadcast(u.ID, broadcast.Event{Type: "session.updated", Payload: sess})
	}

	return &TurnResult{Reply: resp.Reply, Action: resp.Action, Session: sess}, nil
}

// Transcript returns a session's messages in conversation order, enforcing
// ownership.
func (s *SessionService) Transcript(ctx context.Context, userID, sessionID string) ([]session.Message, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, domain.Forbiddenf("session %s does not belong to the authenticated user", sessionID)
	}
	return s.store.ListMessages(ctx, sessionID)
}

// GetPreview returns a goal preview by id, enforcing ownership.
func (s *SessionService) GetPreview(ctx context.Context, userID, id string) (*session.Preview, error) {
	p, err := s.store.GetPreview(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, domain.Forbiddenf("preview %s does not belong to the authenticated user", id)
	}
	return p, nil
}

// ListPreviews returns all goal previews of a user, newest first.
func (s *SessionService) ListPreviews(ctx context.Context, userID string) ([]session.Preview, error) {
	return s.store.ListPreviews(ctx, userID)
}

// buildTurnContext merges the caller-supplied context over the session's
// stored context and refreshes the scheduling context so the agent always
// sees current availability.
func (s *SessionService) buildTurnContext(ctx context.Context, u *user.User, sess *session.Session, extra map[string]any) map[string]any {
	merged := make(map[string]any, len(sess.Context)+len(extra)+1)
	for k, v := range sess.Context {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	if sc, err := s.schedule.Context(ctx, u); err == nil {
		merged[scheduleContextKey] = sc
	} else {
		slog.Warn("schedule context refresh failed, forwarding stale context",
			"user_id", u.ID, "session_id", sess.ID, "error", err)
	}
	sess.Context = merged
	return merged
}

// invokeAgent calls the planner with call and latency instrumentation.
func (s *SessionService) invokeAgent(ctx context.Context, req planner.Request) (*planner.Response, error) {
	start := s.now()
	resp, err := s.runner.Run(ctx, req)
	if s.metrics != nil {
		s.metrics.AgentCalls.Add(ctx, 1)
		s.metrics.AgentLatency.Record(ctx, s.now().Sub(start).Seconds())
		if err != nil {
			s.metrics.AgentFailures.Add(ctx, 1)
		}
	}
	return resp, err
}

// applyState folds the agent's state payload into the session. Omitted
// fields hold over from the previous turn; an omitted iteration advances by
// one, and a provided iteration never moves the counter backwards.
func (s *SessionService) applyState(sess *session.Session, resp *planner.Response) {
	if st := session.State(resp.State.State); resp.State.State != "" {
		if session.ValidStates[st] {
			sess.State = st
		} else {
			slog.Warn("agent returned unknown session state, keeping previous",
				"session_id", sess.ID, "state", resp.State.State)
		}
	}

	if resp.State.Iteration != nil {
		if *resp.State.Iteration > sess.Iteration {
			sess.Iteration = *resp.State.Iteration
		}
	} else {
		sess.Iteration++
	}

	if resp.State.SessionActive != nil {
		sess.Active = *resp.State.SessionActive
	}
	if resp.State.GoalPreviewID != nil {
		sess.GoalPreviewID = *resp.State.GoalPreviewID
	}
	if resp.Context != nil {
		sess.Context = resp.Context
	}
}

// applyAction executes the agent's requested side effect. finalize_goal is
// authoritative: it closes the session regardless of what the state payload
// said.
func (s *SessionService) applyAction(ctx context.Context, u *user.User, sess *session.Session, action planner.Action) (finalized bool, err error) {
	switch action.Type {
	case planner.ActionSavePreview:
		p, err := s.upsertPreview(ctx, u.ID, sess, action.Payload)
		if err != nil {
			return false, err
		}
		sess.GoalPreviewID = p.ID
		return false, nil

	case planner.ActionFinalizeGoal:
		sess.Active = false
		sess.State = session.StateFinalized
		return true, nil

	case planner.ActionNone, "":
		return false, nil

	default:
		slog.Warn("agent requested unknown action, ignoring",
			"session_id", sess.ID, "action", action.Type)
		return false, nil
	}
}

// upsertPreview stores a save_preview payload. The payload shape is lenient:
// a nested goalPreview field carries the plan data when present, otherwise
// the whole payload is the plan; an id selects update over create.
func (s *SessionService) upsertPreview(ctx context.Context, userID string, sess *session.Session, payload json.RawMessage) (*session.Preview, error) {
	var pp planner.PreviewPayload
	// A non-object payload is fine: it just means no id and no nested field.
	_ = json.Unmarshal(payload, &pp)

	data := pp.GoalPreview
	if len(data) == 0 {
		data = payload
	}
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}

	if pp.ID != "" {
		existing, err := s.store.GetPreview(ctx, pp.ID)
		switch {
		case err == nil:
			if existing.UserID != userID {
				return nil, domain.Forbiddenf("preview %s does not belong to the authenticated user", pp.ID)
			}
			existing.Data = data
			if err := s.store.UpdatePreview(ctx, existing); err != nil {
				return nil, err
			}
			return existing, nil
		case errors.Is(err, domain.ErrNotFound):
			// Agent referenced an id we never stored; fall through to create.
		default:
			return nil, err
		}
	}

	return s.store.CreatePreview(ctx, &session.Preview{
		UserID:    userID,
		SessionID: sess.ID,
		Data:      data,
	})
}

func (s *SessionService) publishSessionUpdated(ctx context.Context, sess *session.Session) {
	s.publish(ctx, eventbus.SubjectSessionUpdated, eventbus.SessionUpdatedPayload{
		SessionID: sess.ID,
		UserID:    sess.UserID,
		State:     string(sess.State),
		Iteration: sess.Iteration,
		Active:    sess.Active,
	})
}

// publish sends a domain event, logging instead of failing the request.
func (s *SessionService) publish(ctx context.Context, subject string, payload any) {
	if s.bus == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal event payload", "subject", subject, "error", err)
		return
	}
	if err := s.bus.Publish(ctx, subject, data); err != nil {
		slog.Warn("event publish failed", "subject", subject, "error", err)
	}
}

// optional maps the empty string to nil for omit-when-empty pointer fields.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
