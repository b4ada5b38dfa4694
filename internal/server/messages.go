package server

import (
	"foxie/internal/agent"
	"foxie/internal/runlog"
	"foxie/internal/scaffold"
	"foxie/internal/types"
	"foxie/internal/validate"
)

const ServiceName = "foxie.v1.ScaffoldService"

const (
	GenerateProcedure = "/" + ServiceName + "/Generate"
	RunAgentProcedure = "/" + ServiceName + "/RunAgent"
	ValidateProcedure = "/" + ServiceName + "/Validate"
)

type GenerateRequest = scaffold.Request

type GenerateResponse struct {
	RunID    string                `json:"run_id"`
	Files    []types.GeneratedFile `json:"files"`
	Location string                `json:"location,omitempty"`
}

type RunAgentRequest = scaffold.AgentRequest

type RunAgentResponse struct {
	RunID    string       `json:"run_id"`
	Result   agent.Result `json:"result"`
	Location string       `json:"location,omitempty"`
}

type ValidateRequest struct {
	Files []types.GeneratedFile `json:"files"`
}

type ValidateResponse struct {
	Valid  bool                        `json:"valid"`
	Issues map[string][]validate.Issue `json:"issues"`
	Counts map[validate.Severity]int   `json:"counts"`
}

const ListRunsProcedure = "/" + ServiceName + "/ListRuns"

type ListRunsRequest struct {
	Limit int `json:"limit"`
}

type ListRunsResponse struct {
	Runs []runlog.Entry `json:"runs"`
}
