package server

import (
	"context"

	"connectrpc.com/connect"
	"go.uber.org/zap"

	"foxie/internal/agent"
	"foxie/internal/logging"
	"foxie/internal/output"
	"foxie/internal/runlog"
	"foxie/internal/scaffold"
	"foxie/internal/types"
	"foxie/internal/validate"
)

// ScaffoldHandler serves the scaffold procedures.
type ScaffoldHandler struct {
	svc  *scaffold.Service
	runs runlog.Store
	// Outputs, when set, returns the writer used to persist a run's files.
	Outputs func(runID string) output.Writer
	log     *zap.Logger
}

func NewScaffoldHandler(svc *scaffold.Service, runs runlog.Store, log *zap.Logger) *ScaffoldHandler {
	if runs == nil {
		runs = runlog.NewMemoryStore()
	}
	return &ScaffoldHandler{svc: svc, runs: runs, log: logging.OrNop(log)}
}

func (h *ScaffoldHandler) Generate(ctx context.Context, req *connect.Request[GenerateRequest]) (*connect.Response[GenerateResponse], error) {
	r := req.Msg
	entry := runlog.Begin("oneshot", r.ProjectName, r.Resource, r.Backend)
	code, err := h.svc.GenerateCRUDFeature(ctx, *r)
	if err != nil {
		h.record(ctx, entry.Finish(0, 0, false, err))
		return nil, toConnectError(err)
	}
	loc, err := h.persist(ctx, entry.ID, code)
	h.record(ctx, entry.Finish(len(code.Files), 0, err == nil, err))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GenerateResponse{RunID: entry.ID, Files: code.Files, Location: loc}), nil
}

func (h *ScaffoldHandler) RunAgent(ctx context.Context, req *connect.Request[RunAgentRequest]) (*connect.Response[RunAgentResponse], error) {
	out, err := h.runAgent(ctx, *req.Msg, nil)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(out), nil
}

func (h *ScaffoldHandler) runAgent(ctx context.Context, r RunAgentRequest, emitter agent.Emitter) (*RunAgentResponse, error) {
	entry := runlog.Begin("agent", r.ProjectName, r.Resource, r.Backend)
	res, err := h.svc.RunAgent(ctx, r, emitter)
	if err != nil {
		h.record(ctx, entry.Finish(0, 0, false, err))
		return nil, err
	}
	loc, err := h.persist(ctx, entry.ID, res.Code())
	h.record(ctx, entry.Finish(len(res.GeneratedFiles), res.TotalSteps, res.IsComplete && err == nil, err))
	if err != nil {
		return nil, err
	}
	return &RunAgentResponse{RunID: entry.ID, Result: res, Location: loc}, nil
}

func (h *ScaffoldHandler) Validate(_ context.Context, req *connect.Request[ValidateRequest]) (*connect.Response[ValidateResponse], error) {
	report := h.svc.Validate(types.GeneratedCode{Files: req.Msg.Files})
	return connect.NewResponse(&ValidateResponse{
		Valid:  len(report) == 0,
		Issues: report,
		Counts: validate.Count(report),
	}), nil
}

func (h *ScaffoldHandler) persist(ctx context.Context, runID string, code types.GeneratedCode) (string, error) {
	if h.Outputs == nil || len(code.Files) == 0 {
		return "", nil
	}
	return h.Outputs(runID).Write(ctx, code)
}

// record never fails the request; a broken run log is only logged.
func (h *ScaffoldHandler) record(ctx context.Context, e runlog.Entry) {
	if err := h.runs.Record(context.WithoutCancel(ctx), e); err != nil {
		h.log.Warn("run log write failed", zap.String("run_id", e.ID), zap.Error(err))
	}
}

func (h *ScaffoldHandler) ListRuns(ctx context.Context, req *connect.Request[ListRunsRequest]) (*connect.Response[ListRunsResponse], error) {
	runs, err := h.runs.List(ctx, req.Msg.Limit)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&ListRunsResponse{Runs: runs}), nil
}
