// Package validate runs static checks over generated Go files. Results are
// advisory: callers decide whether a critical issue gates anything.
package validate

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"path"
	"sort"
	"strconv"
	"strings"

	"foxie/internal/types"
)

type Severity string

const (
	Critical Severity = "critical"
	Warning  Severity = "warning"
	Info     Severity = "info"
)

// Issue is one failed check for one file.
type Issue struct {
	FilePath string   `json:"file_path"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s: %s", i.Severity, i.FilePath, i.Message)
}

// source is a parsed file shared by the rules.
type source struct {
	path    string
	dir     string
	content string
	file    *ast.File
	imports []string
}

func (s *source) hasSegment(names ...string) bool {
	for _, seg := range strings.Split(s.dir, "/") {
		for _, n := range names {
			if seg == n {
				return true
			}
		}
	}
	return false
}

type rule struct {
	name  string
	check func(*source) []string
}

// rules run in order after a successful parse. Each message is a warning.
var rules = []rule{
	{"imports", checkImports},
	{"endpoints", checkEndpoints},
	{"models", checkModels},
}

// All validates one file. Paths that are not Go sources yield no issues.
// A syntax error yields a single critical issue and skips the other checks.
func All(content, filePath string) []Issue {
	p := normalizePath(filePath)
	if !strings.HasSuffix(p, ".go") {
		return nil
	}
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, p, content, parser.SkipObjectResolution)
	if err != nil {
		return []Issue{{FilePath: filePath, Message: syntaxMessage(err), Severity: Critical}}
	}
	src := &source{path: p, dir: path.Dir(p), content: content, file: f}
	for _, imp := range f.Imports {
		if v, err := strconv.Unquote(imp.Path.Value); err == nil {
			src.imports = append(src.imports, v)
		}
	}
	var issues []Issue
	for _, r := range rules {
		for _, msg := range r.check(src) {
			issues = append(issues, Issue{FilePath: filePath, Message: msg, Severity: Warning})
		}
	}
	return issues
}

// Report validates every file and keeps only those with issues.
func Report(files []types.GeneratedFile) map[string][]Issue {
	out := map[string][]Issue{}
	for _, f := range files {
		if issues := All(f.Content, f.FilePath); len(issues) > 0 {
			out[f.FilePath] = append(out[f.FilePath], issues...)
		}
	}
	return out
}

// HasCritical reports whether any issue is critical.
func HasCritical(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == Critical {
			return true
		}
	}
	return false
}

// Messages flattens issues to "severity: message" strings.
func Messages(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, string(i.Severity)+": "+i.Message)
	}
	return out
}

// Count totals issues per severity across a report.
func Count(report map[string][]Issue) map[Severity]int {
	out := map[Severity]int{}
	for _, issues := range report {
		for _, i := range issues {
			out[i.Severity]++
		}
	}
	return out
}

// SortedPaths returns the report's paths in lexical order.
func SortedPaths(report map[string][]Issue) []string {
	out := make([]string, 0, len(report))
	for p := range report {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func normalizePath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), `\`, "/")
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

func syntaxMessage(err error) string {
	var list scanner.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		return fmt.Sprintf("syntax error at line %d: %s", list[0].Pos.Line, list[0].Msg)
	}
	return "syntax error: " + err.Error()
}
