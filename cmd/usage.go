package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/visiq/internal/imagegen"
	"github.com/abhisek/visiq/internal/llm"
	"github.com/abhisek/visiq/internal/store"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Inspect recorded text and image generation calls",
}

var usageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent generation calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryGenerations(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No generation calls recorded.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-5s  %-10s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Kind", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 104))

		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			in, outCol := strconv.Itoa(e.InputTokens), strconv.Itoa(e.OutputTokens)
			if e.Kind == store.KindImage {
				in, outCol = "-", fmt.Sprintf("%dimg", e.Images)
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-5s  %-10s  %-28s  %-6s  %-6s  %-7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Kind,
				truncate(e.Purpose, 10),
				truncate(e.Model, 28),
				in,
				outCol,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var usageViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View the full request and response of a call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetGeneration(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:        %d\n", e.ID)
		fmt.Fprintf(out, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Session:   %s\n", e.SessionID)
		fmt.Fprintf(out, "Kind:      %s\n", e.Kind)
		fmt.Fprintf(out, "Provider:  %s\n", e.Provider)
		fmt.Fprintf(out, "Model:     %s\n", e.Model)
		fmt.Fprintf(out, "Purpose:   %s\n", e.Purpose)
		if e.Kind == store.KindImage {
			fmt.Fprintf(out, "Images:    %d\n", e.Images)
		} else {
			fmt.Fprintf(out, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
		}
		fmt.Fprintf(out, "Latency:   %dms\n", e.LatencyMs)
		fmt.Fprintf(out, "Success:   %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Fprintf(out, "Error:     %s\n", e.ErrorMessage)
		}

		printSection(out, "REQUEST", e.RequestBody)
		printSection(out, "RESPONSE", e.ResponseBody)
		return nil
	},
}

var usageStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		stats, err := s.EventRepo().UsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(stats) == 0 {
			fmt.Fprintln(out, "No usage recorded yet.")
			return nil
		}

		rule := strings.Repeat("─", 80)
		fmt.Fprintln(out, "Usage by Purpose")
		fmt.Fprintln(out, rule)
		fmt.Fprintf(out, "%-16s  %6s  %10s  %10s  %8s  %8s\n",
			"Purpose", "Calls", "Input", "Output", "Images", "Avg Ms")
		fmt.Fprintln(out, rule)

		var totalCalls, totalIn, totalOut, totalImages int
		for _, st := range stats {
			fmt.Fprintf(out, "%-16s  %6d  %10d  %10d  %8d  %8d\n",
				st.Purpose, st.Calls, st.InputTokens, st.OutputTokens, st.Images, st.AvgLatencyMs)
			totalCalls += st.Calls
			totalIn += st.InputTokens
			totalOut += st.OutputTokens
			totalImages += st.Images
		}
		fmt.Fprintln(out, rule)
		fmt.Fprintf(out, "%-16s  %6d  %10d  %10d  %8d\n",
			"TOTAL", totalCalls, totalIn, totalOut, totalImages)

		modelUsage, err := s.EventRepo().UsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(modelUsage) == 0 {
			return nil
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Estimated Cost (USD)")
		fmt.Fprintln(out, rule)
		fmt.Fprintf(out, "%-32s  %-5s  %6s  %10s  %10s\n", "Model", "Kind", "Calls", "Units", "Cost")
		fmt.Fprintln(out, rule)

		var totalCost float64
		var unknown []string
		for _, mu := range modelUsage {
			cost, units, known := estimate(mu)
			if !known {
				unknown = append(unknown, mu.Model)
				fmt.Fprintf(out, "%-32s  %-5s  %6d  %10s  %10s\n",
					truncate(mu.Model, 32), mu.Kind, mu.Calls, units, "?")
				continue
			}
			totalCost += cost
			fmt.Fprintf(out, "%-32s  %-5s  %6d  %10s  %10s\n",
				truncate(mu.Model, 32), mu.Kind, mu.Calls, units, formatCost(cost))
		}

		fmt.Fprintln(out, rule)
		label := "TOTAL"
		if len(unknown) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Fprintf(out, "%-32s  %-5s  %6s  %10s  %10s\n", label, "", "", "", formatCost(totalCost))
		if len(unknown) > 0 {
			fmt.Fprintf(out, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
		}
		return nil
	},
}

// estimate prices one model row. Text rows are priced per token, image
// rows per image.
func estimate(mu store.ModelUsage) (cost float64, units string, known bool) {
	if mu.Kind == store.KindImage {
		units = fmt.Sprintf("%d img", mu.Images)
		if c := imagegen.LookupImageCost(mu.Model); c != nil {
			return c.Cost(mu.Images), units, true
		}
		return 0, units, false
	}
	units = fmt.Sprintf("%d tok", mu.InputTokens+mu.OutputTokens)
	if c := llm.LookupCost(mu.Model); c != nil {
		return c.Cost(mu.InputTokens, mu.OutputTokens), units, true
	}
	return 0, units, false
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func printSection(out io.Writer, title, body string) {
	sep := strings.Repeat("─", 60)
	fmt.Fprintln(out)
	fmt.Fprintln(out, sep)
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, sep)
	if body == "" {
		body = "(not captured)"
	}
	fmt.Fprintln(out, body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	usageListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	usageListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (quiz-gen or quiz-image)")

	usageCmd.AddCommand(usageListCmd)
	usageCmd.AddCommand(usageViewCmd)
	usageCmd.AddCommand(usageStatsCmd)
}
