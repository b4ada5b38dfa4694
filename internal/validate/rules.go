package validate

import (
	"fmt"
	"go/ast"
	"regexp"
	"strings"
)

// checkImports flags an import of the file's own package directory. The
// match is anchored on path segments: "internal/api" does not match
// "internal/api/endpoints".
func checkImports(s *source) []string {
	if s.dir == "." || s.dir == "" {
		return nil
	}
	var out []string
	for _, imp := range s.imports {
		if imp == s.dir || strings.HasSuffix(imp, "/"+s.dir) {
			out = append(out, fmt.Sprintf("potential circular import: file in %s imports its own package %q", s.dir, imp))
		}
	}
	return out
}

var (
	reRouter     = regexp.MustCompile(`gin\.(RouterGroup|IRouter|IRoutes|Engine)\b|gin\.(New|Default)\(\)`)
	reRoute      = regexp.MustCompile(`\.(GET|POST|PUT|PATCH|DELETE|Handle|Any)\(|\bRegister\w*Routes\(`)
	reReadWrite  = regexp.MustCompile(`\.(GET|POST)\(`)
	rePost       = regexp.MustCompile(`\.POST\(`)
	reResponse   = regexp.MustCompile(`\b\w+Response\b`)
	reCreated    = regexp.MustCompile(`http\.StatusCreated\b|\b201\b`)
	reDependency = regexp.MustCompile(`\bdependencies\.\w+`)
)

// checkEndpoints applies gin conventions to files under an endpoints or api
// directory.
func checkEndpoints(s *source) []string {
	if !s.hasSegment("endpoints", "api") {
		return nil
	}
	var out []string
	if !reRouter.MatchString(s.content) {
		out = append(out, "endpoint file should declare a gin router (gin.RouterGroup, gin.IRouter or gin.Engine)")
	}
	if !reRoute.MatchString(s.content) {
		out = append(out, "no route registrations found for the declared router")
	}
	if reDependency.MatchString(s.content) && !s.importsDir("dependencies") {
		out = append(out, "uses dependencies.* but does not import the dependencies package")
	}
	if reReadWrite.MatchString(s.content) && !reResponse.MatchString(s.content) {
		out = append(out, "GET/POST handlers should respond with a *Response schema type")
	}
	if rePost.MatchString(s.content) && !reCreated.MatchString(s.content) {
		out = append(out, "POST handlers should respond with http.StatusCreated (201)")
	}
	return out
}

func (s *source) importsDir(name string) bool {
	for _, imp := range s.imports {
		if imp == name || strings.HasSuffix(imp, "/"+name) {
			return true
		}
	}
	return false
}

// checkModels flags persistent structs (those embedding a Base* type) that
// mix columns declared with explicit gorm/bson tags and columns without.
func checkModels(s *source) []string {
	if !s.hasSegment("models") {
		return nil
	}
	var out []string
	ast.Inspect(s.file, func(n ast.Node) bool {
		ts, ok := n.(*ast.TypeSpec)
		if !ok {
			return true
		}
		st, ok := ts.Type.(*ast.StructType)
		if !ok || !embedsBase(st) {
			return false
		}
		var tagged, untagged []string
		for _, f := range st.Fields.List {
			if len(f.Names) == 0 {
				continue
			}
			names := make([]string, 0, len(f.Names))
			for _, n := range f.Names {
				names = append(names, n.Name)
			}
			if f.Tag != nil && (strings.Contains(f.Tag.Value, "gorm:") || strings.Contains(f.Tag.Value, "bson:")) {
				tagged = append(tagged, names...)
			} else {
				untagged = append(untagged, names...)
			}
		}
		if len(tagged) > 0 && len(untagged) > 0 {
			out = append(out, fmt.Sprintf("model %s mixes tagged columns with untagged fields (%s); declare every column with an explicit gorm/bson tag",
				ts.Name.Name, strings.Join(untagged, ", ")))
		}
		return false
	})
	return out
}

func embedsBase(st *ast.StructType) bool {
	for _, f := range st.Fields.List {
		if len(f.Names) != 0 {
			continue
		}
		if strings.HasPrefix(typeName(f.Type), "Base") {
			return true
		}
	}
	return false
}

func typeName(e ast.Expr) string {
	switch t := e.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return typeName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	default:
		return ""
	}
}
