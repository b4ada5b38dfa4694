package styleguide

import "foxie/internal/types"

// Catalog file names. Core examples are always loaded; backend and auth
// examples are added by selector.
var (
	coreExamples = []string{
		"config.go.example",
		"main.go.example",
	}
	backendExamples = map[types.Backend][]string{
		types.BackendSQL: {
			"db_session.go.example",
			"base_model.go.example",
		},
		types.BackendMongoDB: {
			"db_session_mongodb.go.example",
			"base_model_mongodb.go.example",
		},
	}
	authExamples = []string{
		"security.go.example",
		"user_model.go.example",
		"auth_endpoints.go.example",
		"auth_dependency.go.example",
	}
)

// Names returns the ordered example names selected for backend and auth.
func Names(backend types.Backend, authEnabled bool) []string {
	out := append([]string(nil), coreExamples...)
	out = append(out, backendExamples[backend]...)
	if authEnabled {
		out = append(out, authExamples...)
	}
	return out
}

// AuthNames lists the auth-only examples.
func AuthNames() []string {
	return append([]string(nil), authExamples...)
}
