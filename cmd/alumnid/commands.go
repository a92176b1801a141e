package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HarelItay/leaders-alumni-association/internal/config"
)

// --- search ---

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the alumni directory",
	Long: `Search the alumni directory by relevance.

Examples:
  alumnid search fintech founder
  alumnid search "product manager" --limit 5
  alumnid search mentor --industry technology`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		limit, _ := cmd.Flags().GetInt("limit")
		industry, _ := cmd.Flags().GetString("industry")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		path := fmt.Sprintf("/search?q=%s&limit=%d", url.QueryEscape(query), limit)
		if industry != "" {
			path += "&industry=" + url.QueryEscape(industry)
		}
		resp, err := client.get(cmd.Context(), path)
		if err != nil {
			return err
		}

		var result struct {
			Query   string `json:"query"`
			Count   int    `json:"count"`
			Results []struct {
				Profile struct {
					ID       string `json:"id"`
					Personal struct {
						Name           string `json:"name"`
						GraduationYear int    `json:"graduation_year"`
					} `json:"personal"`
					Professional struct {
						CurrentRole string `json:"current_role"`
						Company     string `json:"company"`
						Industry    string `json:"industry"`
					} `json:"professional"`
				} `json:"profile"`
				Relevance float64 `json:"relevance"`
			} `json:"results"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if result.Count == 0 {
			fmt.Println("No matching alumni found.")
			return nil
		}

		for i, r := range result.Results {
			p := r.Profile
			fmt.Printf("\n%s [relevance: %.3f]\n",
				colorize(colorBold, fmt.Sprintf("%d. %s", i+1, p.Personal.Name)), r.Relevance)
			if p.Professional.CurrentRole != "" || p.Professional.Company != "" {
				fmt.Printf("  %s at %s\n", p.Professional.CurrentRole, p.Professional.Company)
			}
			fmt.Printf("  %s, class of %d  (%s)\n",
				p.Professional.Industry, p.Personal.GraduationYear, colorize(colorCyan, p.ID))
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().Int("limit", 10, "maximum number of results")
	searchCmd.Flags().String("industry", "", "restrict results to an industry")
}

// --- profiles ---

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Browse and manage alumni profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")
		industry, _ := cmd.Flags().GetString("industry")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		path := fmt.Sprintf("/profiles?limit=%d&offset=%d", limit, offset)
		if industry != "" {
			path += "&industry=" + url.QueryEscape(industry)
		}
		resp, err := client.get(cmd.Context(), path)
		if err != nil {
			return err
		}

		var profiles []struct {
			ID       string `json:"id"`
			Personal struct {
				Name           string `json:"name"`
				GraduationYear int    `json:"graduation_year"`
			} `json:"personal"`
			Professional struct {
				CurrentRole string `json:"current_role"`
				Company     string `json:"company"`
			} `json:"professional"`
		}
		if err := decodeJSON(resp, &profiles); err != nil {
			return err
		}

		if len(profiles) == 0 {
			fmt.Println("No profiles found.")
			return nil
		}

		for _, p := range profiles {
			role := p.Professional.CurrentRole
			if p.Professional.Company != "" {
				role += " at " + p.Professional.Company
			}
			fmt.Printf("%s  %-30s %s\n",
				colorize(colorCyan, p.ID),
				p.Personal.Name,
				role,
			)
		}
		return nil
	},
}

var profilesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single profile as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/profiles/"+args[0])
		if err != nil {
			return err
		}

		var profile any
		if err := decodeJSON(resp, &profile); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(profile)
	},
}

var profilesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/profiles/"+args[0])
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Deleted profile %s", args[0])
		return nil
	},
}

func init() {
	profilesListCmd.Flags().Int("limit", 20, "maximum number of profiles to list")
	profilesListCmd.Flags().Int("offset", 0, "offset into the profile list")
	profilesListCmd.Flags().String("industry", "", "filter by industry")
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesShowCmd)
	profilesCmd.AddCommand(profilesDeleteCmd)
}

// --- import ---

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import an alumni dataset (JSON or CSV)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// The server reads the file itself, so it needs an absolute path.
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("reading dataset: %w", err)
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/ingest", map[string]string{"path": path})
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Queued import %s", result["id"])
		return nil
	},
}

// --- prefs ---

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or update display preferences",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current preferences as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/preferences")
		if err != nil {
			return err
		}

		var prefs any
		if err := decodeJSON(resp, &prefs); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(prefs)
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a preference",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		body := map[string]string{key: value}
		resp, err := client.patch(cmd.Context(), "/preferences", body)
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsSetCmd)
}

// --- history ---

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage search history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent searches",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), fmt.Sprintf("/search-history?limit=%d", limit))
		if err != nil {
			return err
		}

		var entries []struct {
			ID          string `json:"id"`
			Query       string `json:"query"`
			ResultCount int    `json:"result_count"`
			Source      string `json:"source"`
			CreatedAt   string `json:"created_at"`
		}
		if err := decodeJSON(resp, &entries); err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No searches recorded.")
			return nil
		}

		for _, e := range entries {
			query := e.Query
			if len(query) > 60 {
				query = query[:60] + "..."
			}
			fmt.Printf("%s  %s  %-5s %s (%s)\n",
				colorize(colorCyan, e.ID[:8]),
				e.CreatedAt,
				e.Source,
				query,
				countLabel(e.ResultCount, "result"),
			)
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all search history",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/search-history")
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Search history cleared")
		return nil
	},
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum number of searches to list")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
}

// --- data ---

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Export or purge stored data",
}

var dataExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all stored data as JSONL",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		var writer *os.File
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			writer = f
		} else {
			writer = os.Stdout
		}

		enc := json.NewEncoder(writer)

		// Export profiles.
		offset := 0
		for {
			resp, err := client.get(cmd.Context(), fmt.Sprintf("/profiles?limit=100&offset=%d", offset))
			if err != nil {
				return err
			}
			var profiles []any
			if err := decodeJSON(resp, &profiles); err != nil {
				return err
			}
			if len(profiles) == 0 {
				break
			}
			for _, p := range profiles {
				record := map[string]any{"type": "profile", "data": p}
				enc.Encode(record)
			}
			offset += len(profiles)
		}

		// Export search history.
		resp, err := client.get(cmd.Context(), "/search-history?limit=100")
		if err != nil {
			return err
		}
		var entries []any
		if err := decodeJSON(resp, &entries); err != nil {
			return err
		}
		for _, e := range entries {
			record := map[string]any{"type": "search", "data": e}
			enc.Encode(record)
		}

		if output != "" {
			printSuccess("Data exported to %s", output)
		}
		return nil
	},
}

var dataPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete all stored data",
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			printWarning("This will delete ALL stored data. Use --confirm to proceed.")
			return nil
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		printStep("Deleting profiles...")
		deleted, failed, err := purgeProfiles(cmd.Context(), client)
		if err != nil {
			return err
		}
		if failed > 0 {
			printWarning("Deleted %s, %d failed", countLabel(deleted, "profile"), failed)
		} else {
			printStep("Deleted %s", countLabel(deleted, "profile"))
		}

		printStep("Clearing search history...")
		resp, err := client.delete(cmd.Context(), "/search-history")
		if err != nil {
			return err
		}
		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("All data purged")
		return nil
	},
}

// purgeProfiles deletes profiles page by page until none remain. Profiles
// that fail to delete are counted and skipped so a single bad record cannot
// loop the purge forever.
func purgeProfiles(ctx context.Context, client *apiClient) (deleted, failed int, err error) {
	for {
		resp, err := client.get(ctx, "/profiles?limit=100")
		if err != nil {
			return deleted, failed, err
		}
		var profiles []struct {
			ID string `json:"id"`
		}
		if err := decodeJSON(resp, &profiles); err != nil {
			return deleted, failed, err
		}

		progress := false
		for _, p := range profiles {
			delResp, err := client.delete(ctx, "/profiles/"+p.ID)
			if err != nil {
				return deleted, failed, err
			}
			var result map[string]string
			if err := decodeJSON(delResp, &result); err != nil {
				printError("Failed to delete profile %s: %v", p.ID, err)
				failed++
				continue
			}
			deleted++
			progress = true
		}
		if !progress {
			return deleted, failed, nil
		}
	}
}

func countLabel(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %s", n, noun+"s")
}

func init() {
	dataExportCmd.Flags().String("output", "", "output file path (default: stdout)")
	dataPurgeCmd.Flags().Bool("confirm", false, "confirm data purge")
	dataCmd.AddCommand(dataExportCmd)
	dataCmd.AddCommand(dataPurgeCmd)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
