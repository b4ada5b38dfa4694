package filegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		want Kind
	}{
		{"internal/core/config.go", KindConfig},
		{"./internal/database/db_session.go", KindDBSession},
		{`internal\models\task.go`, KindResourceModel},
		{"internal/models/base_model.go", KindBaseModel},
		{"internal/schemas/task.go", KindResourceSchema},
		{"internal/crud/task.go", KindResourceCRUD},
		{"internal/api/endpoints/task.go", KindResourceEndpoint},
		{"internal/api/router.go", KindRouter},
		{"internal/dependencies/auth_dependency.go", KindAuthDependency},
		{"main.go", KindMain},
		{"internal/core/security.go", KindSecurity},
		{"internal/api/endpoints/auth.go", KindAuthEndpoint},
		{"internal/models/other.go", KindUnknown},
		{"cmd/main.go", KindUnknown},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.path, "task"), c.path)
	}
}

func TestClassifyUserResourcePrefersResourceKinds(t *testing.T) {
	assert.Equal(t, KindResourceModel, Classify("internal/models/user.go", "user"))
	assert.Equal(t, KindResourceSchema, Classify("internal/schemas/user.go", "user"))
	assert.Equal(t, KindResourceCRUD, Classify("internal/crud/user.go", "user"))
	assert.Equal(t, KindSecurity, Classify("internal/core/security.go", "user"))

	plan := Plan(Paths(DefaultPlan("user")), "user")
	for _, tg := range plan {
		assert.False(t, tg.Kind == KindUserModel || tg.Kind == KindUserSchema || tg.Kind == KindUserCRUD, tg.Path)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "internal/models/task.go", Normalize(" ./internal/models/task.go "))
	assert.Equal(t, "internal/models/task.go", Normalize(`internal\models\task.go`))
	assert.Equal(t, "main.go", Normalize("/main.go"))
	assert.Equal(t, "", Normalize("  "))
}

func TestDefaultPlan(t *testing.T) {
	plan := DefaultPlan("BlogPost")
	require.Len(t, plan, 10)
	assert.Equal(t, []string{
		"internal/core/config.go",
		"internal/database/db_session.go",
		"internal/models/base_model.go",
		"internal/models/blog_post.go",
		"internal/schemas/blog_post.go",
		"internal/crud/blog_post.go",
		"internal/api/endpoints/blog_post.go",
		"internal/api/router.go",
		"internal/dependencies/auth_dependency.go",
		"main.go",
	}, Paths(plan))
	for _, tg := range plan {
		assert.Equal(t, tg.Kind, Classify(tg.Path, "BlogPost"), tg.Path)
	}
}

func TestPlanDropsBlanksAndDuplicates(t *testing.T) {
	plan := Plan([]string{"main.go", " ", "main.go", "docs/readme.go"}, "task")
	require.Len(t, plan, 2)
	assert.Equal(t, KindMain, plan[0].Kind)
	assert.Equal(t, KindUnknown, plan[1].Kind)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "resource-crud", KindResourceCRUD.String())
	assert.Equal(t, "unknown", Kind(99).String())
	assert.True(t, KindAuthDependency.IsAuth())
	assert.False(t, KindRouter.IsAuth())
}
