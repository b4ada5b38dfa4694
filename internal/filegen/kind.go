// Package filegen generates one project file at a time for the agent.
package filegen

import (
	"path"
	"strings"

	"foxie/internal/types"
)

// Kind identifies the role of a file in the generated project. It is
// resolved once when a plan is built and drives prompt selection.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindDBSession
	KindBaseModel
	KindResourceModel
	KindResourceSchema
	KindResourceCRUD
	KindResourceEndpoint
	KindRouter
	KindAuthDependency
	KindMain
	KindSecurity
	KindUserModel
	KindUserSchema
	KindUserCRUD
	KindAuthEndpoint
)

var kindNames = map[Kind]string{
	KindUnknown:          "unknown",
	KindConfig:           "config",
	KindDBSession:        "db-session",
	KindBaseModel:        "base-model",
	KindResourceModel:    "resource-model",
	KindResourceSchema:   "resource-schema",
	KindResourceCRUD:     "resource-crud",
	KindResourceEndpoint: "resource-endpoint",
	KindRouter:           "router",
	KindAuthDependency:   "auth-dependency",
	KindMain:             "main",
	KindSecurity:         "security",
	KindUserModel:        "user-model",
	KindUserSchema:       "user-schema",
	KindUserCRUD:         "user-crud",
	KindAuthEndpoint:     "auth-endpoint",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// IsAuth reports whether k is one of the six authentication files.
func (k Kind) IsAuth() bool {
	switch k {
	case KindSecurity, KindUserModel, KindUserSchema, KindUserCRUD, KindAuthEndpoint, KindAuthDependency:
		return true
	}
	return false
}

// Target is one planned file.
type Target struct {
	Path string `json:"path"`
	Kind Kind   `json:"kind"`
}

// layout maps each kind to its path; "{r}" is the resource file stem.
var layout = []struct {
	kind Kind
	path string
}{
	{KindConfig, "internal/core/config.go"},
	{KindDBSession, "internal/database/db_session.go"},
	{KindBaseModel, "internal/models/base_model.go"},
	{KindResourceModel, "internal/models/{r}.go"},
	{KindResourceSchema, "internal/schemas/{r}.go"},
	{KindResourceCRUD, "internal/crud/{r}.go"},
	{KindResourceEndpoint, "internal/api/endpoints/{r}.go"},
	{KindRouter, "internal/api/router.go"},
	{KindAuthDependency, "internal/dependencies/auth_dependency.go"},
	{KindMain, "main.go"},
	{KindSecurity, "internal/core/security.go"},
	{KindUserModel, "internal/models/user.go"},
	{KindUserSchema, "internal/schemas/user.go"},
	{KindUserCRUD, "internal/crud/user.go"},
	{KindAuthEndpoint, "internal/api/endpoints/auth.go"},
}

// PathOf returns the canonical path of kind for resource.
func PathOf(k Kind, resource string) string {
	for _, l := range layout {
		if l.kind == k {
			return strings.ReplaceAll(l.path, "{r}", types.ResourceFile(resource))
		}
	}
	return ""
}

// Normalize trims a model-supplied path, converts backslashes and cleans it
// relative to the project root. Blank input stays blank.
func Normalize(filePath string) string {
	p := strings.TrimSpace(strings.ReplaceAll(filePath, `\`, "/"))
	if p == "" {
		return ""
	}
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

// Classify resolves a path to its kind by exact match against the canonical
// layout. Resource paths win over auth paths so a resource named "user"
// keeps its requested fields.
func Classify(filePath, resource string) Kind {
	p := Normalize(filePath)
	for _, pass := range []bool{false, true} {
		for _, l := range layout {
			if l.kind.IsAuth() != pass {
				continue
			}
			if p == strings.ReplaceAll(l.path, "{r}", types.ResourceFile(resource)) {
				return l.kind
			}
		}
	}
	return KindUnknown
}

// DefaultPlan is the canonical ten-file plan used when the model's plan is
// unusable.
func DefaultPlan(resource string) []Target {
	kinds := []Kind{
		KindConfig, KindDBSession, KindBaseModel,
		KindResourceModel, KindResourceSchema, KindResourceCRUD, KindResourceEndpoint,
		KindRouter, KindAuthDependency, KindMain,
	}
	out := make([]Target, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, Target{Path: PathOf(k, resource), Kind: k})
	}
	return out
}

// Plan classifies paths, dropping blanks and duplicates. Unknown paths are
// kept with KindUnknown so the generator can still attempt them.
func Plan(paths []string, resource string) []Target {
	seen := map[string]bool{}
	out := make([]Target, 0, len(paths))
	for _, p := range paths {
		p = Normalize(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, Target{Path: p, Kind: Classify(p, resource)})
	}
	return out
}

// Paths lists target paths in order.
func Paths(ts []Target) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Path
	}
	return out
}

// related lists the kinds whose content helps keep names consistent when
// generating k.
var related = map[Kind][]Kind{
	KindDBSession:        {KindConfig, KindBaseModel, KindResourceModel, KindUserModel},
	KindResourceModel:    {KindBaseModel},
	KindResourceSchema:   {KindResourceModel},
	KindResourceCRUD:     {KindResourceModel, KindResourceSchema},
	KindResourceEndpoint: {KindResourceSchema, KindResourceCRUD, KindAuthDependency},
	KindRouter:           {KindResourceEndpoint, KindAuthEndpoint},
	KindAuthDependency:   {KindConfig, KindSecurity, KindUserCRUD},
	KindMain:             {KindConfig, KindDBSession, KindRouter},
	KindSecurity:         {KindConfig},
	KindUserModel:        {KindBaseModel},
	KindUserSchema:       {KindUserModel},
	KindUserCRUD:         {KindUserModel, KindUserSchema, KindSecurity},
	KindAuthEndpoint:     {KindUserSchema, KindUserCRUD, KindSecurity},
}
