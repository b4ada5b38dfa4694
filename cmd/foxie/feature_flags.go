package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"foxie/internal/apikey"
	"foxie/internal/scaffold"
	"foxie/internal/validate"
)

// featureFlags are shared by generate and agent.
type featureFlags struct {
	resource      string
	fields        string
	project       string
	databaseType  string
	auth          bool
	protectRoutes bool
	apiKey        string
	out           string
}

func (f *featureFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.resource, "resource", "r", "", "resource name, e.g. task")
	fl.StringVarP(&f.fields, "fields", "f", "", `fields as "name:type,...", e.g. "title:str,done:bool"`)
	fl.StringVarP(&f.project, "project", "p", "", "project name (default: <resource>_api)")
	fl.StringVar(&f.databaseType, "database-type", "", "sql or mongodb")
	fl.BoolVar(&f.auth, "auth", false, "generate JWT authentication")
	fl.BoolVar(&f.protectRoutes, "protect-routes", false, "require a logged-in user on the resource routes")
	fl.StringVar(&f.apiKey, "api-key", "", "Gemini API key (overrides GOOGLE_API_KEY and .env files)")
	fl.StringVarP(&f.out, "out", "o", "", "output directory (default: ./<project>)")
	_ = cmd.MarkFlagRequired("resource")
	_ = cmd.MarkFlagRequired("fields")
}

func (f *featureFlags) request() (scaffold.Request, error) {
	key, source := cfg.APIKey(f.apiKey)
	if key == "" {
		return scaffold.Request{}, &apikey.ConfigError{
			Err:  apikey.ErrMissingKey,
			Hint: "set GOOGLE_API_KEY, pass --api-key, or run 'foxie config set-key'",
		}
	}
	log.Debug("api key resolved", zap.String("source", source))
	project := strings.TrimSpace(f.project)
	if project == "" {
		project = strings.TrimSpace(f.resource) + "_api"
	}
	backend := f.databaseType
	if backend == "" {
		backend = cfg.Backend
	}
	return scaffold.Request{
		Resource:      f.resource,
		Fields:        f.fields,
		ProjectName:   project,
		APIKey:        key,
		Backend:       backend,
		AuthEnabled:   f.auth,
		ProtectRoutes: f.protectRoutes,
	}, nil
}

func (f *featureFlags) outDir(project string) string {
	if f.out != "" {
		return f.out
	}
	return project
}

func printValidation(cmd *cobra.Command, report map[string][]validate.Issue) {
	if len(report) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "validation: no issues")
		return
	}
	for _, p := range validate.SortedPaths(report) {
		for _, is := range report[p] {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", is)
		}
	}
}
