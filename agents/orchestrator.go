package agents

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nyayguru-backend/models"
)

// Input validation failures surfaced before the pipeline starts.
var (
	ErrEmptyQuery   = errors.New("query must not be empty")
	ErrQueryTooLong = errors.New("query exceeds maximum length")
)

const maxQueryLength = 5000

// defaultStreamDelay paces streamed stage updates so clients can render the
// pipeline progressing.
const defaultStreamDelay = 100 * time.Millisecond

// Stream event types, in emission order.
const (
	EventStart       = "start"
	EventAgentStatus = "agent_status"
	EventStatutes    = "statutes"
	EventCaseLaws    = "case_laws"
	EventCitations   = "citations"
	EventResponse    = "response"
	EventComplete    = "complete"
	EventCancelled   = "cancelled"
)

// StreamEvent is one server-sent update during streaming execution.
type StreamEvent struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// AgentStatus is the payload of an agent_status event.
type AgentStatus struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	NameHindi string `json:"name_hi"`
	State     string `json:"state"`
	Message   string `json:"message,omitempty"`
	Color     string `json:"color,omitempty"`
}

// ResponseContent carries the final answer in both languages.
type ResponseContent struct {
	Content      string `json:"content"`
	ContentHindi string `json:"content_hi,omitempty"`
}

// ChatResponse is the full result of one pipeline run.
type ChatResponse struct {
	ID               string                 `json:"id"`
	SessionID        string                 `json:"session_id"`
	Query            string                 `json:"query"`
	DetectedLanguage string                 `json:"detected_language"`
	DetectedDomain   string                 `json:"detected_domain"`
	Response         ResponseContent        `json:"response"`
	Statutes         []models.Statute       `json:"statutes"`
	CaseLaws         []models.CaseLaw       `json:"case_laws"`
	Mappings         []models.IPCBNSMapping `json:"ipc_bns_mappings"`
	Citations        []models.Citation      `json:"citations"`
	AgentPipeline    []Step                 `json:"agent_pipeline"`
	Errors           []StageError           `json:"errors,omitempty"`
	ExecutionTime    float64                `json:"execution_time_seconds"`
	Timestamp        time.Time              `json:"timestamp"`
}

// Orchestrator drives the seven stages in fixed order. Retrieval stages are
// skipped once the query stage marks the request off-domain; the response
// stage always runs so the caller gets an answer either way.
type Orchestrator struct {
	stages      []Agent
	logger      *zap.Logger
	streamDelay time.Duration
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithStreamDelay overrides the pacing delay between streamed stage updates.
// Zero disables pacing.
func WithStreamDelay(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) { o.streamDelay = d }
}

// NewOrchestrator wires the pipeline. Stages run in the order given; the
// first must be the query stage and the last the response stage.
func NewOrchestrator(stages []Agent, logger *zap.Logger, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		stages:      stages,
		logger:      logger,
		streamDelay: defaultStreamDelay,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// AgentInfos returns the stage metadata in pipeline order.
func (o *Orchestrator) AgentInfos() []Info {
	infos := make([]Info, 0, len(o.stages))
	for _, stage := range o.stages {
		infos = append(infos, stage.Info())
	}
	return infos
}

func validateQuery(query string) error {
	if query == "" {
		return ErrEmptyQuery
	}
	if len(query) > maxQueryLength {
		return ErrQueryTooLong
	}
	return nil
}

// skippable reports whether the stage is bypassed for off-domain queries.
// The query stage already ran and the response stage must render the
// rejection, so only the middle five qualify.
func skippable(kind string) bool {
	switch kind {
	case KindStatute, KindCase, KindRegulatory, KindCitation, KindSummary:
		return true
	}
	return false
}

// QueryOption attaches optional request state before the pipeline runs.
type QueryOption func(*RequestContext)

// WithDocumentID associates an uploaded document with the request so the
// summarization stage can pull its stored summary into the answer.
func WithDocumentID(id string) QueryOption {
	return func(rc *RequestContext) { rc.DocumentID = id }
}

// ProcessQuery runs the pipeline to completion and returns the aggregate
// response.
func (o *Orchestrator) ProcessQuery(ctx context.Context, query, language, sessionID, domain string, opts ...QueryOption) (*ChatResponse, error) {
	if err := validateQuery(query); err != nil {
		return nil, err
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	rc := NewRequestContext(query, language, sessionID, domain)
	for _, opt := range opts {
		opt(rc)
	}
	start := time.Now()

	// Once the request context dies, remaining retrieval stages are skipped
	// but the response stage still runs so the caller gets whatever was
	// gathered before the deadline.
	expired := false
	for _, stage := range o.stages {
		if !expired {
			if err := ctx.Err(); err != nil {
				expired = true
				rc.AddError(stage.Info().Name, err.Error())
				o.logger.Warn("request context expired mid-pipeline",
					zap.String("session_id", sessionID),
					zap.Error(err))
			}
		}
		if expired && stage.Kind() != KindResponse {
			continue
		}
		if !rc.IsRelevant && skippable(stage.Kind()) {
			continue
		}
		run(ctx, stage, rc, o.logger)
	}

	resp := o.buildResponse(rc, start)
	o.logger.Info("pipeline completed",
		zap.String("session_id", sessionID),
		zap.Bool("relevant", rc.IsRelevant),
		zap.Float64("execution_time_seconds", resp.ExecutionTime))
	return resp, nil
}

// ProcessQueryStreaming runs the pipeline and emits progress events on the
// returned channel, which closes when the run ends. Cancellation between
// stages produces a final cancelled event.
func (o *Orchestrator) ProcessQueryStreaming(ctx context.Context, query, language, sessionID, domain string, opts ...QueryOption) (<-chan StreamEvent, error) {
	if err := validateQuery(query); err != nil {
		return nil, err
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	events := make(chan StreamEvent, 16)
	go func() {
		defer close(events)

		rc := NewRequestContext(query, language, sessionID, domain)
		for _, opt := range opts {
			opt(rc)
		}
		start := time.Now()

		events <- StreamEvent{Type: EventStart, Data: map[string]string{
			"session_id": sessionID,
			"query":      query,
		}}

		for _, stage := range o.stages {
			if ctx.Err() != nil {
				events <- StreamEvent{Type: EventCancelled}
				return
			}
			if !rc.IsRelevant && skippable(stage.Kind()) {
				continue
			}

			info := stage.Info()
			events <- StreamEvent{Type: EventAgentStatus, Data: AgentStatus{
				ID:        info.ID,
				Name:      info.Name,
				NameHindi: info.NameHindi,
				State:     StateProcessing,
				Color:     info.Color,
			}}

			run(ctx, stage, rc, o.logger)

			status := AgentStatus{
				ID:        info.ID,
				Name:      info.Name,
				NameHindi: info.NameHindi,
				State:     StateCompleted,
				Color:     info.Color,
			}
			if last := lastStep(rc, stage.Kind()); last != nil && last.State == StateError {
				status.State = StateError
				status.Message = last.ResultSummary
			}
			events <- StreamEvent{Type: EventAgentStatus, Data: status}

			o.emitStageSnapshot(events, stage.Kind(), rc)

			if o.streamDelay > 0 {
				select {
				case <-time.After(o.streamDelay):
				case <-ctx.Done():
					events <- StreamEvent{Type: EventCancelled}
					return
				}
			}
		}

		resp := o.buildResponse(rc, start)
		events <- StreamEvent{Type: EventResponse, Data: resp}
		events <- StreamEvent{Type: EventComplete, Data: map[string]float64{
			"execution_time_seconds": resp.ExecutionTime,
		}}
	}()
	return events, nil
}

// emitStageSnapshot publishes intermediate retrieval results right after the
// stage that produced them.
func (o *Orchestrator) emitStageSnapshot(events chan<- StreamEvent, kind string, rc *RequestContext) {
	switch kind {
	case KindStatute:
		statutes := rc.Statutes
		if len(statutes) > 5 {
			statutes = statutes[:5]
		}
		events <- StreamEvent{Type: EventStatutes, Data: statutes}
	case KindCase:
		cases := rc.CaseLaws
		if len(cases) > 3 {
			cases = cases[:3]
		}
		events <- StreamEvent{Type: EventCaseLaws, Data: cases}
	case KindCitation:
		events <- StreamEvent{Type: EventCitations, Data: rc.Citations}
	}
}

func lastStep(rc *RequestContext, kind string) *Step {
	for i := range rc.Steps {
		if rc.Steps[i].Agent == kind {
			return &rc.Steps[i]
		}
	}
	return nil
}

func (o *Orchestrator) buildResponse(rc *RequestContext, start time.Time) *ChatResponse {
	if rc.Statutes == nil {
		rc.Statutes = []models.Statute{}
	}
	if rc.CaseLaws == nil {
		rc.CaseLaws = []models.CaseLaw{}
	}
	if rc.Mappings == nil {
		rc.Mappings = []models.IPCBNSMapping{}
	}
	if rc.Citations == nil {
		rc.Citations = []models.Citation{}
	}

	return &ChatResponse{
		ID:               uuid.NewString(),
		SessionID:        rc.SessionID,
		Query:            rc.OriginalQuery,
		DetectedLanguage: rc.DetectedLanguage,
		DetectedDomain:   rc.DetectedDomain,
		Response: ResponseContent{
			Content:      rc.Response,
			ContentHindi: rc.ResponseHindi,
		},
		Statutes:      rc.Statutes,
		CaseLaws:      rc.CaseLaws,
		Mappings:      rc.Mappings,
		Citations:     rc.Citations,
		AgentPipeline: rc.Steps,
		Errors:        rc.Errors,
		ExecutionTime: time.Since(start).Seconds(),
		Timestamp:     time.Now().UTC(),
	}
}
