package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/halgrim/gauntlet/internal/ledger"
)

type ScaffoldSummary struct {
	ScaffoldID   string  `json:"scaffold_id"`
	Passes       int     `json:"passes"`
	LatestMean   float64 `json:"latest_mean"`
	LatestStd    float64 `json:"latest_std"`
	BestMean     float64 `json:"best_mean"`
	MeanTimeS    float64 `json:"mean_time_s"`
	TotalTokens  int     `json:"total_tokens"`
	TotalCostUSD float64 `json:"total_cost_usd"`
}

// Generate reads the ledger and writes a per-scaffold summary. "Latest" is
// the most recent evaluation pass; "best" is the highest mean across passes.
func Generate(led *ledger.Ledger, format string, w io.Writer) error {
	records, err := led.All()
	if err != nil {
		return err
	}
	latest, err := led.MostRecentAll()
	if err != nil {
		return err
	}

	summaries := aggregate(records, latest)

	switch format {
	case "markdown":
		return writeMarkdown(summaries, w)
	case "json":
		return writeJSON(summaries, w)
	default:
		return writeTable(summaries, w)
	}
}

func aggregate(records []*ledger.Record, latest map[string]*ledger.Record) []ScaffoldSummary {
	type accum struct {
		passes  int
		best    float64
		timeS   float64
		runs    int
		tokens  int
		costUSD float64
	}
	byScaffold := map[string]*accum{}

	for _, r := range records {
		a, ok := byScaffold[r.ScaffoldID]
		if !ok {
			a = &accum{}
			byScaffold[r.ScaffoldID] = a
		}
		a.passes++
		if r.MeanScore > a.best {
			a.best = r.MeanScore
		}
		for _, t := range r.ExecutionTimesS {
			a.timeS += t
			a.runs++
		}
		a.tokens += r.TotalInputTokens + r.TotalOutputTokens
		a.costUSD += r.TotalCostUSD
	}

	var summaries []ScaffoldSummary
	for id, a := range byScaffold {
		s := ScaffoldSummary{
			ScaffoldID:   id,
			Passes:       a.passes,
			BestMean:     a.best,
			TotalTokens:  a.tokens,
			TotalCostUSD: a.costUSD,
		}
		if a.runs > 0 {
			s.MeanTimeS = a.timeS / float64(a.runs)
		}
		if rec := latest[id]; rec != nil {
			s.LatestMean = rec.MeanScore
			s.LatestStd = rec.StdScore
		}
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].LatestMean != summaries[j].LatestMean {
			return summaries[i].LatestMean > summaries[j].LatestMean
		}
		return summaries[i].ScaffoldID < summaries[j].ScaffoldID
	})
	return summaries
}

func writeTable(summaries []ScaffoldSummary, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCAFFOLD\tPASSES\tLATEST MEAN\tLATEST STD\tBEST MEAN\tMEAN TIME\tTOKENS\tCOST")
	fmt.Fprintln(tw, strings.Repeat("-", 88))
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.3f\t%.3f\t%.1fs\t%d\t$%.4f\n",
			s.ScaffoldID, s.Passes, s.LatestMean, s.LatestStd, s.BestMean, s.MeanTimeS, s.TotalTokens, s.TotalCostUSD)
	}
	return tw.Flush()
}

func writeMarkdown(summaries []ScaffoldSummary, w io.Writer) error {
	fmt.Fprintln(w, "| Scaffold | Passes | Latest Mean | Latest Std | Best Mean | Mean Time | Tokens | Cost |")
	fmt.Fprintln(w, "|---|---|---|---|---|---|---|---|")
	for _, s := range summaries {
		fmt.Fprintf(w, "| %s | %d | %.3f | %.3f | %.3f | %.1fs | %d | $%.4f |\n",
			s.ScaffoldID, s.Passes, s.LatestMean, s.LatestStd, s.BestMean, s.MeanTimeS, s.TotalTokens, s.TotalCostUSD)
	}
	return nil
}

func writeJSON(summaries []ScaffoldSummary, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summaries)
}
