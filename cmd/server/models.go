package main

import (
	"time"

	"github.com/AlexGitta/Fuzz/fizzbuzz"
	"github.com/AlexGitta/Fuzz/render"
	"github.com/AlexGitta/Fuzz/workspace"
)

// API request and response models

// CreateWorkspaceRequest represents the request body for creating a workspace
type CreateWorkspaceRequest struct {
	Name     string `json:"name"`
	Defaults bool   `json:"defaults"`
}

// WorkspaceResponse represents a workspace in list responses
type WorkspaceResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	BlockCount int       `json:"block_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// WorkspaceDetailResponse represents a workspace with its full block list
type WorkspaceDetailResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"created_at"`
	Blocks    []BlockResponse `json:"blocks"`
}

// WorkspacesListResponse represents the response for listing workspaces
type WorkspacesListResponse struct {
	Workspaces []WorkspaceResponse `json:"workspaces"`
}

// BlockRequest represents the request body for creating or updating a
// block. Type is read on create only; divisor applies to divisor blocks
// and start/end to range blocks.
type BlockRequest struct {
	Type    string `json:"type,omitempty"`
	Name    string `json:"name"`
	Word    string `json:"word"`
	Divisor int    `json:"divisor,omitempty"`
	Start   int    `json:"start,omitempty"`
	End     int    `json:"end,omitempty"`
}

// BlockResponse represents a rule block in API responses
type BlockResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Word      string    `json:"word"`
	Divisor   int       `json:"divisor,omitempty"`
	Start     int       `json:"start,omitempty"`
	End       int       `json:"end,omitempty"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BlocksListResponse represents the response for listing a workspace's blocks
type BlocksListResponse struct {
	Blocks []BlockResponse `json:"blocks"`
}

// MoveBlockRequest represents the request body for moving a block one step
type MoveBlockRequest struct {
	Direction string `json:"direction"`
}

// GenerateRequest represents the request body for evaluating a
// workspace's blocks over an inclusive integer range
type GenerateRequest struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ResultResponse represents a single evaluated number
type ResultResponse struct {
	Number          int      `json:"number"`
	Label           string   `json:"label"`
	MatchedBlockIDs []string `json:"matched_block_ids,omitempty"`
}

// GenerateResponse represents the default JSON payload of the generate
// endpoint
type GenerateResponse struct {
	WorkspaceID    string           `json:"workspace_id"`
	Start          int              `json:"start"`
	End            int              `json:"end"`
	Results        []ResultResponse `json:"results"`
	EvaluationTime string           `json:"evaluation_time"`
}

// GridResponse represents the ?view=grid payload: the square layout
// plus the color legend for its categories
type GridResponse struct {
	WorkspaceID string               `json:"workspace_id"`
	Grid        render.Grid          `json:"grid"`
	Legend      []render.LegendEntry `json:"legend"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string `json:"status"`
	Workspaces int    `json:"workspaces"`
}

func toBlockResponse(b fizzbuzz.RuleBlock) BlockResponse {
	return BlockResponse{
		ID:        b.ID,
		Type:      string(b.Type),
		Name:      b.Name,
		Word:      b.Word,
		Divisor:   b.Divisor,
		Start:     b.RangeStart,
		End:       b.RangeEnd,
		Order:     b.Order,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func toBlockResponses(blocks []fizzbuzz.RuleBlock) []BlockResponse {
	out := make([]BlockResponse, len(blocks))
	for i, b := range blocks {
		out[i] = toBlockResponse(b)
	}
	return out
}

func toWorkspaceResponse(ws *workspace.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		ID:         ws.ID,
		Name:       ws.Name,
		BlockCount: ws.Len(),
		CreatedAt:  ws.CreatedAt,
	}
}

func toWorkspaceDetailResponse(ws *workspace.Workspace) WorkspaceDetailResponse {
	return WorkspaceDetailResponse{
		ID:        ws.ID,
		Name:      ws.Name,
		CreatedAt: ws.CreatedAt,
		Blocks:    toBlockResponses(ws.Blocks()),
	}
}

func toResultResponses(results []fizzbuzz.Result) []ResultResponse {
	out := make([]ResultResponse, len(results))
	for i, r := range results {
		out[i] = ResultResponse{
			Number:          r.Number,
			Label:           r.Label,
			MatchedBlockIDs: r.MatchedBlockIDs,
		}
	}
	return out
}
