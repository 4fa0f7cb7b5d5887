// Package ledger persists per-scaffold evaluation outcomes. The store is
// append-only: a new record per evaluation pass, never a mutation, so
// concurrent writers only ever race on ordering, which is resolved by
// timestamp at read time.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Record struct {
	ScaffoldID        string    `json:"scaffold_id"`
	Timestamp         time.Time `json:"timestamp"`
	Domain            string    `json:"domain,omitempty"`
	MeanScore         float64   `json:"mean_score"`
	StdScore          float64   `json:"std_score"`
	Scores            []float64 `json:"scores"`
	ExecutionTimesS   []float64 `json:"execution_times_s"`
	ModelSpec         string    `json:"model_spec,omitempty"`
	TotalInputTokens  int       `json:"total_input_tokens,omitempty"`
	TotalOutputTokens int       `json:"total_output_tokens,omitempty"`
	TotalCostUSD      float64   `json:"total_cost_usd,omitempty"`
}

type Ledger struct {
	dir string
}

func New(dir string) *Ledger {
	return &Ledger{dir: dir}
}

func (l *Ledger) Dir() string {
	return l.dir
}

// Append persists a record. Filenames are timestamp- and uuid-qualified and
// created with O_EXCL, so overlapping evaluation passes never collide.
func (l *Ledger) Append(rec *Record) error {
	if rec.ScaffoldID == "" {
		return fmt.Errorf("record missing scaffold_id")
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	rec.MeanScore = Mean(rec.Scores)
	rec.StdScore = StdDev(rec.Scores)

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s_%s.json",
		rec.ScaffoldID,
		rec.Timestamp.Format("2006-01-02T15-04-05"),
		uuid.NewString()[:8])
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(l.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating record file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing record file: %w", err)
	}
	return nil
}

// All loads every record in the ledger. Unparseable files are skipped.
func (l *Ledger) All() ([]*Record, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading ledger dir: %w", err)
	}
	var records []*Record
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(l.dir, e.Name()))
		if err != nil {
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		records = append(records, &rec)
	}
	return records, nil
}

// MostRecent returns the latest record for a scaffold, or nil if it has never
// been evaluated. Recency is computed from timestamps at read time, never
// cached.
func (l *Ledger) MostRecent(scaffoldID string) (*Record, error) {
	all, err := l.MostRecentAll()
	if err != nil {
		return nil, err
	}
	return all[scaffoldID], nil
}

// MostRecentAll returns the latest record per scaffold.
func (l *Ledger) MostRecentAll() (map[string]*Record, error) {
	records, err := l.All()
	if err != nil {
		return nil, err
	}
	latest := make(map[string]*Record)
	for _, rec := range records {
		cur, ok := latest[rec.ScaffoldID]
		if !ok || rec.Timestamp.After(cur.Timestamp) {
			latest[rec.ScaffoldID] = rec
		}
	}
	return latest, nil
}
