package scaffold

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"foxie/internal/apikey"
	"foxie/internal/fields"
	"foxie/internal/logging"
	"foxie/internal/metrics"
	"foxie/internal/prompt"
	"foxie/internal/styleguide"
	"foxie/internal/templates"
	"foxie/internal/types"
	"foxie/internal/validate"
)

// Request describes one CRUD feature to scaffold.
type Request struct {
	Resource      string `json:"resource"`
	Fields        string `json:"fields"`
	ProjectName   string `json:"project_name"`
	APIKey        string `json:"api_key,omitempty"`
	Backend       string `json:"database_type"`
	AuthEnabled   bool   `json:"enable_auth"`
	ProtectRoutes bool   `json:"protect_routes"`
	Mode          string `json:"mode,omitempty"`
}

// spec is a Request after parsing.
type spec struct {
	key     string
	fields  []types.Field
	backend types.Backend
	mode    prompt.Mode
}

// Service wires the style-guide loader, the prompt and the model client.
type Service struct {
	Guides    *styleguide.Loader
	NewClient ClientFactory
	Metrics   *metrics.Registry
	Log       *zap.Logger
}

func NewService(guides *styleguide.Loader, factory ClientFactory, reg *metrics.Registry, log *zap.Logger) *Service {
	return &Service{Guides: guides, NewClient: factory, Metrics: reg, Log: logging.OrNop(log)}
}

func (s *Service) parse(r Request) (spec, error) {
	key, _, err := apikey.Resolve(r.APIKey, true)
	if err != nil {
		return spec{}, err
	}
	resource := strings.TrimSpace(r.Resource)
	if resource == "" {
		return spec{}, &InputError{Field: "resource", Err: errors.New("name is required")}
	}
	if strings.TrimSpace(r.ProjectName) == "" {
		return spec{}, &InputError{Field: "project_name", Err: errors.New("name is required")}
	}
	if r.AuthEnabled && len(authCollisions(resource)) > 0 {
		return spec{}, &InputError{Field: "resource", Err: fmt.Errorf("%q conflicts with authentication files", resource)}
	}
	fs, err := fields.Parse(r.Fields)
	if err != nil {
		return spec{}, err
	}
	if len(fs) == 0 {
		return spec{}, &fields.ParseError{Segment: r.Fields, Reason: "at least one field is required"}
	}
	backend := types.BackendSQL
	if strings.TrimSpace(r.Backend) != "" {
		if backend, err = types.ParseBackend(r.Backend); err != nil {
			return spec{}, &InputError{Field: "database_type", Err: err}
		}
	}
	mode, err := prompt.ParseMode(r.Mode)
	if err != nil {
		return spec{}, &InputError{Field: "mode", Err: err}
	}
	return spec{key: key, fields: fs, backend: backend, mode: mode}, nil
}

// authCollisions lists the resource's core paths that are also auth paths.
func authCollisions(resource string) []string {
	auth := make(map[string]bool)
	for _, p := range templates.AuthPaths() {
		auth[p] = true
	}
	var out []string
	for _, p := range prompt.CoreFiles(resource) {
		if auth[p] {
			out = append(out, p)
		}
	}
	return out
}

// GenerateCRUDFeature runs the one-shot flow. It returns the complete file
// set or an error; a model failure aborts the whole request.
func (s *Service) GenerateCRUDFeature(ctx context.Context, r Request) (types.GeneratedCode, error) {
	log := logging.OrNop(s.Log)
	sp, err := s.parse(r)
	if err != nil {
		s.count(sp.mode, "invalid")
		return types.GeneratedCode{}, err
	}

	var guide string
	if s.Guides != nil {
		guide = s.Guides.Load(ctx, sp.backend, r.AuthEnabled)
	}
	in := prompt.Input{
		Resource:      strings.TrimSpace(r.Resource),
		Fields:        sp.fields,
		ProjectName:   strings.TrimSpace(r.ProjectName),
		StyleGuide:    guide,
		Backend:       sp.backend,
		AuthEnabled:   r.AuthEnabled,
		ProtectRoutes: r.ProtectRoutes,
		Mode:          sp.mode,
	}
	text, err := prompt.Build(in)
	if err != nil {
		s.count(sp.mode, "invalid")
		return types.GeneratedCode{}, err
	}

	client, err := s.NewClient(ctx, sp.key)
	if err != nil {
		s.count(sp.mode, "error")
		return types.GeneratedCode{}, &GenerationError{Err: err}
	}
	defer client.Close()

	log.Info("generating crud feature",
		zap.String("resource", in.Resource),
		zap.String("backend", in.Backend.String()),
		zap.Bool("auth", in.AuthEnabled),
		zap.String("mode", string(in.Mode)),
		zap.Int("prompt_bytes", len(text)))
	code, err := NewClient(client, log).Generate(ctx, text)
	if err != nil {
		s.count(sp.mode, "error")
		return types.GeneratedCode{}, err
	}

	code, err = finish(code, in)
	if err != nil {
		s.count(sp.mode, "error")
		return types.GeneratedCode{}, err
	}
	s.count(sp.mode, "ok")
	log.Info("crud feature generated", zap.Int("files", len(code.Files)))
	return code, nil
}

// finish applies the local post-processing: auth files are dropped when auth
// is off and replaced by templates in split mode; project files are added.
// A path that is also one of the resource's core files is never treated as
// an auth file.
func finish(code types.GeneratedCode, in prompt.Input) (types.GeneratedCode, error) {
	auth := make(map[string]bool)
	for _, p := range templates.AuthPaths() {
		auth[p] = true
	}
	for _, p := range prompt.CoreFiles(in.Resource) {
		delete(auth, p)
	}
	replaceAuth := !in.AuthEnabled || in.Mode == prompt.ModeSplit

	data := templates.Data{ProjectName: in.ProjectName, Backend: in.Backend, AuthEnabled: in.AuthEnabled}
	project, err := templates.RenderProject(data)
	if err != nil {
		return types.GeneratedCode{}, err
	}
	local := make(map[string]bool)
	for _, f := range project {
		local[f.FilePath] = true
	}

	var out []types.GeneratedFile
	for _, f := range code.Files {
		if (replaceAuth && auth[f.FilePath]) || local[f.FilePath] {
			continue
		}
		out = append(out, f)
	}
	if in.AuthEnabled && in.Mode == prompt.ModeSplit {
		files, err := templates.RenderAuth(data)
		if err != nil {
			return types.GeneratedCode{}, err
		}
		out = append(out, files...)
	}
	out = append(out, project...)
	return types.GeneratedCode{Files: out}, nil
}

// Validate runs the validator over every file and counts the findings.
func (s *Service) Validate(code types.GeneratedCode) map[string][]validate.Issue {
	report := validate.Report(code.Files)
	if s.Metrics != nil {
		for sev, n := range validate.Count(report) {
			s.Metrics.ValidationIssue.WithLabelValues(string(sev)).Add(float64(n))
		}
	}
	return report
}

func (s *Service) count(mode prompt.Mode, outcome string) {
	if s.Metrics == nil {
		return
	}
	if mode == "" {
		mode = "unknown"
	}
	s.Metrics.ScaffoldRuns.WithLabelValues(string(mode), outcome).Inc()
}

// InputError rejects a request field other than the field list, which
// reports a fields.ParseError instead.
type InputError struct {
	Field string
	Err   error
}

func (e *InputError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *InputError) Unwrap() error { return e.Err }

// IsInputError reports whether err was caused by the request itself.
func IsInputError(err error) bool {
	var pe *fields.ParseError
	var ce *apikey.ConfigError
	var ie *InputError
	return errors.As(err, &pe) || errors.As(err, &ce) || errors.As(err, &ie)
}
