package agents

import (
	"context"

	"go.uber.org/zap"
)

// Stage kinds, in pipeline order.
const (
	KindQuery      = "query"
	KindStatute    = "statute"
	KindCase       = "case"
	KindRegulatory = "regulatory"
	KindCitation   = "citation"
	KindSummary    = "summary"
	KindResponse   = "response"
)

// Info describes an agent for the UI.
type Info struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	NameHindi        string `json:"name_hi"`
	Description      string `json:"description"`
	DescriptionHindi string `json:"description_hi"`
	Color            string `json:"color"`
}

// Agent is one pipeline stage. Process mutates the request context and
// returns an error only for trace bookkeeping; the orchestrator converts it
// to an error record and continues.
type Agent interface {
	Kind() string
	Info() Info
	Process(ctx context.Context, rc *RequestContext) error
}

// run executes one agent with trace bookkeeping. Failures become per-stage
// error records; they never abort the pipeline.
func run(ctx context.Context, agent Agent, rc *RequestContext, logger *zap.Logger) {
	info := agent.Info()
	rc.SetStep(agent.Kind(), StateProcessing, "")
	logger.Info("agent started", zap.String("agent", agent.Kind()))

	if err := agent.Process(ctx, rc); err != nil {
		logger.Error("agent failed", zap.String("agent", agent.Kind()), zap.Error(err))
		rc.SetStep(agent.Kind(), StateError, err.Error())
		rc.AddError(info.Name, err.Error())
		return
	}

	rc.SetStep(agent.Kind(), StateCompleted, info.Name+" completed successfully")
	logger.Info("agent completed", zap.String("agent", agent.Kind()))
}
