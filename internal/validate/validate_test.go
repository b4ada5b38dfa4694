package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foxie/internal/types"
)

const cleanEndpoint = `package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"app/internal/crud"
	"app/internal/dependencies"
	"app/internal/schemas"
)

func RegisterTaskRoutes(rg *gin.RouterGroup, db *gorm.DB) {
	repo := crud.NewTaskRepository(db)
	g := rg.Group("/tasks", dependencies.RequireUser(db))
	g.GET("/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, schemas.TaskResponse{})
	})
	g.POST("", func(c *gin.Context) {
		_ = repo
		c.JSON(http.StatusCreated, schemas.TaskResponse{})
	})
}
`

const cleanModel = `package models

type Task struct {
	BaseModel
	Title string ` + "`gorm:\"size:255\" json:\"title\"`" + `
	Done  bool   ` + "`gorm:\"not null\" json:\"done\"`" + `
}
`

func messages(issues []Issue) string {
	return strings.Join(Messages(issues), "\n")
}

func TestAll_CleanFilesHaveNoIssues(t *testing.T) {
	assert.Empty(t, All(cleanEndpoint, "internal/api/endpoints/task.go"))
	assert.Empty(t, All(cleanModel, "internal/models/task.go"))
	assert.Empty(t, All("package main\n\nfunc main() {}\n", "main.go"))
}

func TestAll_NonGoPathsAreSkipped(t *testing.T) {
	assert.Empty(t, All("this is { not go", "go.mod"))
	assert.Empty(t, All("KEY=value", ".env.example"))
}

func TestAll_SyntaxErrorIsSingleCritical(t *testing.T) {
	src := "package endpoints\n\nfunc broken( {\n"
	issues := All(src, "internal/api/endpoints/task.go")
	require.Len(t, issues, 1)
	assert.Equal(t, Critical, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "syntax error at line 3")
	assert.Equal(t, "internal/api/endpoints/task.go", issues[0].FilePath)
	assert.True(t, HasCritical(issues))
}

func TestAll_ImportOfOwnPackage(t *testing.T) {
	src := "package crud\n\nimport _ \"app/internal/crud\"\n"
	issues := All(src, "internal/crud/task.go")
	require.Len(t, issues, 1)
	assert.Equal(t, Warning, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "circular import")

	// Windows separators normalise to the same directory.
	assert.Len(t, All(src, `internal\crud\task.go`), 1)
}

func TestAll_ImportHygieneIsSegmentAligned(t *testing.T) {
	// A plain substring test would flag the router importing its child package.
	router := `package api

import (
	"github.com/gin-gonic/gin"

	"app/internal/api/endpoints"
)

func RegisterRoutes(e *gin.Engine) {
	endpoints.RegisterTaskRoutes(e.Group("/api"))
}
`
	assert.Empty(t, All(router, "internal/api/router.go"))

	// Known false positive: a third-party package whose path happens to end
	// with the same directory is indistinguishable from a self import.
	src := "package crud\n\nimport _ \"github.com/acme/internal/crud\"\n"
	assert.Len(t, All(src, "internal/crud/task.go"), 1)
}

func TestAll_EndpointPatterns(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "no router no routes",
			src:  "package endpoints\n\nfunc Helper() {}\n",
			want: []string{"gin router", "no route registrations"},
		},
		{
			name: "dependencies without import",
			src: `package endpoints

import "github.com/gin-gonic/gin"

func R(rg *gin.RouterGroup) {
	rg.DELETE("/:id", dependencies.RequireUser(nil))
}
`,
			want: []string{"does not import the dependencies package"},
		},
		{
			name: "post without created and response",
			src: `package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func R(rg *gin.RouterGroup) {
	rg.POST("", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })
}
`,
			want: []string{"*Response schema type", "http.StatusCreated"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			issues := All(tc.src, "internal/api/endpoints/task.go")
			require.Len(t, issues, len(tc.want), messages(issues))
			for i, w := range tc.want {
				assert.Equal(t, Warning, issues[i].Severity)
				assert.Contains(t, issues[i].Message, w)
			}
		})
	}
}

func TestAll_EndpointHeuristicFalsePositives(t *testing.T) {
	// A helper file living under api/ that declares no routes is still held
	// to the router rules.
	helper := "package api\n\nfunc Paginate(page, size int) (int, int) { return page * size, size }\n"
	assert.Len(t, All(helper, "internal/api/pagination.go"), 2)

	// Any identifier ending in Response satisfies the response rule, even
	// when it is not a schema type.
	loose := `package endpoints

import "github.com/gin-gonic/gin"

func R(rg *gin.RouterGroup) {
	var lastResponse int
	rg.GET("", func(c *gin.Context) { c.JSON(200, lastResponse) })
}
`
	assert.Empty(t, All(loose, "internal/api/endpoints/x.go"))
}

func TestAll_ModelPatterns(t *testing.T) {
	mixed := "package models\n\ntype Task struct {\n\tBaseModel\n\tTitle string `gorm:\"size:255\"`\n\tDone bool\n\tNote string `json:\"note\"`\n}\n"
	issues := All(mixed, "internal/models/task.go")
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "model Task")
	assert.Contains(t, issues[0].Message, "Done, Note")

	mongo := "package models\n\ntype Task struct {\n\tBaseDocument `bson:\",inline\"`\n\tTitle string `bson:\"title\"`\n}\n"
	assert.Empty(t, All(mongo, "internal/models/task.go"))

	// Structs without a Base* embed are not persistent entities.
	plain := "package models\n\ntype Filter struct {\n\tQ string `gorm:\"-\"`\n\tLimit int\n}\n"
	assert.Empty(t, All(plain, "internal/models/filter.go"))

	// Known false positive: a transient field deliberately left untagged on
	// an entity is reported even though gorm would ignore it only with "-".
	transient := "package models\n\ntype Task struct {\n\tBaseModel\n\tTitle string `gorm:\"size:255\"`\n\tcache map[string]string\n}\n"
	assert.Len(t, All(transient, "internal/models/task.go"), 1)
}

func TestReport_OmitsCleanFilesAndIsIdempotent(t *testing.T) {
	files := []types.GeneratedFile{
		{FilePath: "internal/models/task.go", Content: cleanModel},
		{FilePath: "internal/api/endpoints/task.go", Content: "package endpoints\n"},
		{FilePath: "internal/crud/task.go", Content: "package crud\nfunc ("},
		{FilePath: "go.mod", Content: "module app"},
	}
	first := Report(files)
	assert.Equal(t, []string{"internal/api/endpoints/task.go", "internal/crud/task.go"}, SortedPaths(first))
	assert.Equal(t, map[Severity]int{Critical: 1, Warning: 2}, Count(first))
	assert.Equal(t, first, Report(files))
}
