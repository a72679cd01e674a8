package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"resumehunt-engine/internal/domain"
)

// DateKeyLayout is how run dates are keyed, e.g. 19.10.2026.
const DateKeyLayout = "02.01.2006"

// createdLayout sorts lexically in time order.
const createdLayout = "2006-01-02T15:04:05.000000000Z"

// Entry is one stored result set.
type Entry struct {
	ID         string           `json:"id"`
	DateKey    string           `json:"date"`
	Source     string           `json:"source"`
	Label      string           `json:"query"`
	Count      int              `json:"count"`
	CreatedAt  time.Time        `json:"created_at"`
	Candidates domain.ResultSet `json:"candidates,omitempty"`
}

// Append stores rs under (dateKey, source, label). A second append with the
// same key replaces the earlier set.
func (d *DB) Append(ctx context.Context, dateKey, source, label string, rs domain.ResultSet) (string, error) {
	if rs == nil {
		rs = domain.ResultSet{}
	}
	b, err := json.Marshal(rs)
	if err != nil {
		return "", eris.Wrap(err, "store: encode result set")
	}

	id := uuid.NewString()
	err = d.Pool.QueryRowContext(ctx, `
INSERT INTO result_sets (id, date_key, source, query_label, candidate_count, candidates, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(date_key, source, query_label) DO UPDATE SET
  candidate_count = excluded.candidate_count,
  candidates = excluded.candidates,
  created_at = excluded.created_at
RETURNING id;`,
		id, dateKey, source, label, len(rs), string(b), time.Now().UTC().Format(createdLayout),
	).Scan(&id)
	if err != nil {
		return "", eris.Wrapf(err, "store: append %s/%s/%s", dateKey, source, label)
	}
	return id, nil
}

// Entries lists the sets stored under dateKey, oldest first. Candidates are
// only decoded when withCandidates is set.
func (d *DB) Entries(ctx context.Context, dateKey string, withCandidates bool) ([]Entry, error) {
	rows, err := d.Pool.QueryContext(ctx, `
SELECT id, date_key, source, query_label, candidate_count, candidates, created_at
FROM result_sets
WHERE date_key = ?
ORDER BY created_at ASC, source ASC, query_label ASC;`, dateKey)
	if err != nil {
		return nil, eris.Wrapf(err, "store: query %s", dateKey)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var raw, created string
		if err := rows.Scan(&e.ID, &e.DateKey, &e.Source, &e.Label, &e.Count, &raw, &created); err != nil {
			return nil, eris.Wrap(err, "store: scan result set")
		}
		e.CreatedAt, _ = time.Parse(createdLayout, created)
		if withCandidates {
			if err := json.Unmarshal([]byte(raw), &e.Candidates); err != nil {
				return nil, eris.Wrapf(err, "store: decode result set %s", e.ID)
			}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "store: iterate result sets")
	}
	return out, nil
}

// Lookup returns source -> query label -> result set for dateKey.
func (d *DB) Lookup(ctx context.Context, dateKey string) (map[string]map[string]domain.ResultSet, error) {
	entries, err := d.Entries(ctx, dateKey, true)
	if err != nil {
		return nil, err
	}
	out := map[string]map[string]domain.ResultSet{}
	for _, e := range entries {
		if out[e.Source] == nil {
			out[e.Source] = map[string]domain.ResultSet{}
		}
		out[e.Source][e.Label] = e.Candidates
	}
	return out, nil
}

// ListDates returns every stored date key, most recent run first.
func (d *DB) ListDates(ctx context.Context) ([]string, error) {
	rows, err := d.Pool.QueryContext(ctx, `
SELECT date_key
FROM result_sets
GROUP BY date_key
ORDER BY MAX(created_at) DESC;`)
	if err != nil {
		return nil, eris.Wrap(err, "store: list dates")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, eris.Wrap(err, "store: scan date")
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "store: iterate dates")
	}
	return out, nil
}

// CleanupOlderThan removes result sets created before now-age.
func (d *DB) CleanupOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-age).Format(createdLayout)
	res, err := d.Pool.ExecContext(ctx, `DELETE FROM result_sets WHERE created_at < ?;`, cutoff)
	if err != nil {
		return 0, eris.Wrap(err, "store: cleanup")
	}
	n, _ := res.RowsAffected()
	return n, nil
}
