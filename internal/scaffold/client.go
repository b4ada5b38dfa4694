// Package scaffold generates a complete CRUD feature, either in one model
// call or through the agent loop.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"foxie/internal/llm"
	"foxie/internal/llmtool"
	"foxie/internal/logging"
	"foxie/internal/types"
	"foxie/internal/util/jsonutil"
)

// ErrNoFiles is wrapped when the model returns an empty file list.
var ErrNoFiles = errors.New("model returned no files")

// GenerationError reports a failed or unusable generation call.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return "generation: " + e.Err.Error() }
func (e *GenerationError) Unwrap() error { return e.Err }

var codeSchema = llmtool.MustSchemaFromStruct(types.GeneratedCode{})

// Client performs the one-shot generation call.
type Client struct {
	llm llm.LLMClient
	log *zap.Logger
}

func NewClient(c llm.LLMClient, log *zap.Logger) *Client {
	return &Client{llm: c, log: logging.OrNop(log)}
}

// Generate sends prompt and decodes the reply into GeneratedCode. The
// result is not validated here.
func (c *Client) Generate(ctx context.Context, prompt string) (types.GeneratedCode, error) {
	ctx = llm.WithPhase(ctx, "scaffold")
	raw, err := c.llm.GenerateJSON(ctx, prompt, codeSchema)
	if err != nil {
		return types.GeneratedCode{}, &GenerationError{Err: err}
	}
	var code types.GeneratedCode
	if err := jsonutil.UnmarshalRaw(raw, &code); err != nil {
		c.log.Warn("unparsable generation reply", zap.Int("bytes", len(raw)), zap.Error(err))
		return types.GeneratedCode{}, &GenerationError{Err: fmt.Errorf("decode reply: %w", err)}
	}
	code.Files = normalizeFiles(code.Files)
	if len(code.Files) == 0 {
		return types.GeneratedCode{}, &GenerationError{Err: ErrNoFiles}
	}
	return code, nil
}

// normalizeFiles cleans paths, drops entries without a path and keeps the
// first file for each path.
func normalizeFiles(in []types.GeneratedFile) []types.GeneratedFile {
	seen := make(map[string]bool, len(in))
	out := make([]types.GeneratedFile, 0, len(in))
	for _, f := range in {
		p := strings.TrimPrefix(strings.ReplaceAll(strings.TrimSpace(f.FilePath), `\`, "/"), "./")
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		f.FilePath = p
		out = append(out, f)
	}
	return out
}
