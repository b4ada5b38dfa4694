package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"foxie/internal/apikey"
	"foxie/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the per-user configuration in ~/.foxie",
}

var setKeyCmd = &cobra.Command{
	Use:   "set-key [key]",
	Short: "Save the Gemini API key to ~/.foxie/.env",
	Long:  `Save the Gemini API key. Reads the key from stdin when it is not given as an argument.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSetKey,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(setKeyCmd)
	configCmd.AddCommand(showCmd)
}

func runSetKey(cmd *cobra.Command, args []string) error {
	var key string
	if len(args) == 1 {
		key = args[0]
	} else {
		fmt.Fprint(cmd.OutOrStdout(), "Enter your Gemini API key: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read key: %w", err)
		}
		key = line
	}
	if _, _, err := apikey.Resolve(strings.TrimSpace(key), true); err != nil {
		return err
	}
	path, err := config.SaveAPIKey(cfg.Home, key)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "API key saved to %s\n", path)
	return nil
}

func runShow(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	key, source := cfg.APIKey("")
	if key == "" {
		fmt.Fprintln(w, "api key:       (not set)")
	} else {
		fmt.Fprintf(w, "api key:       %s (from %s)\n", mask(key), source)
	}
	fmt.Fprintf(w, "model:         %s\n", cfg.Model)
	fmt.Fprintf(w, "home:          %s\n", cfg.Home)
	fmt.Fprintf(w, "knowledge dir: %s\n", orNone(cfg.KnowledgeDir))
	fmt.Fprintf(w, "database:      %s\n", orNone(redactDSN(cfg.DatabaseURL)))
	fmt.Fprintf(w, "s3:            %s\n", orNone(cfg.S3.Endpoint))
	return nil
}

func mask(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	return dsn[:scheme+3] + "***" + dsn[at:]
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
