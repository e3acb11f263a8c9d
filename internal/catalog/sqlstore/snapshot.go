package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/dshills/quantagraph/internal/catalog"
	"github.com/dshills/quantagraph/internal/errors"
)

const (
	tokenLabel    = "label"
	tokenProperty = "property"

	estimateLabelCount       = "label_count"
	estimateIndexSelectivity = "index_selectivity"
	estimateOverride         = "override"
)

// Save stores snap under name, replacing any snapshot of that name.
// Indexes are stored plain first, then unique, so a loaded snapshot
// assigns the same ordinals.
func (s *Store) Save(ctx context.Context, name string, snap *catalog.Snapshot) error {
	if name == "" {
		return errors.InvalidParameterValueError("name", name, "snapshot name must not be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.StoreError("save", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := s.deleteTx(ctx, tx, name); err != nil {
		return errors.StoreError("save", err)
	}

	st := snap.Statistics
	if err := s.exec(ctx, tx,
		`INSERT INTO snapshots (name, total_nodes, label_selectivity, index_selectivity, id_seek_cardinality, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		name, st.TotalNodes, st.LabelSelectivity, st.IndexSelectivity, st.IDSeekCardinality,
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		return errors.StoreError("save", err)
	}

	insertToken := `INSERT INTO snapshot_tokens (snapshot, kind, seq, name) VALUES (?, ?, ?, ?)`
	for i, l := range snap.KnownLabels {
		if err := s.exec(ctx, tx, insertToken, name, tokenLabel, i, l); err != nil {
			return errors.StoreError("save", err)
		}
	}
	for i, p := range snap.KnownPropertyKeys {
		if err := s.exec(ctx, tx, insertToken, name, tokenProperty, i, p); err != nil {
			return errors.StoreError("save", err)
		}
	}

	insertIndex := `INSERT INTO snapshot_indexes (snapshot, seq, label, property, is_unique) VALUES (?, ?, ?, ?, ?)`
	seq := 0
	for _, idx := range snap.Indexes {
		if err := s.exec(ctx, tx, insertIndex, name, seq, idx.Label, idx.Property, 0); err != nil {
			return errors.StoreError("save", err)
		}
		seq++
	}
	for _, idx := range snap.UniqueIndexes {
		if err := s.exec(ctx, tx, insertIndex, name, seq, idx.Label, idx.Property, 1); err != nil {
			return errors.StoreError("save", err)
		}
		seq++
	}

	insertEstimate := `INSERT INTO snapshot_estimates (snapshot, kind, shape, value) VALUES (?, ?, ?, ?)`
	estimates := []struct {
		kind   string
		values map[string]float64
	}{
		{estimateLabelCount, st.LabelCounts},
		{estimateIndexSelectivity, st.IndexSelectivities},
		{estimateOverride, snap.CardinalityOverrides},
	}
	for _, e := range estimates {
		for key, v := range e.values {
			if err := s.exec(ctx, tx, insertEstimate, name, e.kind, key, v); err != nil {
				return errors.StoreError("save", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.StoreError("save", err)
	}
	return nil
}

// Load returns the snapshot stored under name.
func (s *Store) Load(ctx context.Context, name string) (*catalog.Snapshot, error) {
	snap := &catalog.Snapshot{}
	st := &snap.Statistics

	row := s.db.QueryRowContext(ctx, rebind(s.driver,
		`SELECT total_nodes, label_selectivity, index_selectivity, id_seek_cardinality
		 FROM snapshots WHERE name = ?`), name)
	err := row.Scan(&st.TotalNodes, &st.LabelSelectivity, &st.IndexSelectivity, &st.IDSeekCardinality)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.UndefinedSnapshotError(name)
	}
	if err != nil {
		return nil, errors.StoreError("load", err)
	}

	if err := s.loadTokens(ctx, name, snap); err != nil {
		return nil, errors.StoreError("load", err)
	}
	if err := s.loadIndexes(ctx, name, snap); err != nil {
		return nil, errors.StoreError("load", err)
	}
	if err := s.loadEstimates(ctx, name, snap); err != nil {
		return nil, errors.StoreError("load", err)
	}
	return snap, nil
}

func (s *Store) loadTokens(ctx context.Context, name string, snap *catalog.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, rebind(s.driver,
		`SELECT kind, name FROM snapshot_tokens WHERE snapshot = ? ORDER BY kind, seq`), name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var kind, token string
		if err := rows.Scan(&kind, &token); err != nil {
			return err
		}
		switch kind {
		case tokenLabel:
			snap.KnownLabels = append(snap.KnownLabels, token)
		case tokenProperty:
			snap.KnownPropertyKeys = append(snap.KnownPropertyKeys, token)
		}
	}
	return rows.Err()
}

func (s *Store) loadIndexes(ctx context.Context, name string, snap *catalog.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, rebind(s.driver,
		`SELECT label, property, is_unique FROM snapshot_indexes WHERE snapshot = ? ORDER BY seq`), name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var spec catalog.IndexSpec
		var unique int
		if err := rows.Scan(&spec.Label, &spec.Property, &unique); err != nil {
			return err
		}
		if unique != 0 {
			snap.UniqueIndexes = append(snap.UniqueIndexes, spec)
		} else {
			snap.Indexes = append(snap.Indexes, spec)
		}
	}
	return rows.Err()
}

func (s *Store) loadEstimates(ctx context.Context, name string, snap *catalog.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, rebind(s.driver,
		`SELECT kind, shape, value FROM snapshot_estimates WHERE snapshot = ?`), name)
	if err != nil {
		return err
	}
	defer rows.Close()

	put := func(m *map[string]float64, key string, v float64) {
		if *m == nil {
			*m = make(map[string]float64)
		}
		(*m)[key] = v
	}

	for rows.Next() {
		var kind, key string
		var v float64
		if err := rows.Scan(&kind, &key, &v); err != nil {
			return err
		}
		switch kind {
		case estimateLabelCount:
			put(&snap.Statistics.LabelCounts, key, v)
		case estimateIndexSelectivity:
			put(&snap.Statistics.IndexSelectivities, key, v)
		case estimateOverride:
			put(&snap.CardinalityOverrides, key, v)
		}
	}
	return rows.Err()
}

// List returns the stored snapshot names in order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM snapshots ORDER BY name`)
	if err != nil {
		return nil, errors.StoreError("list", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.StoreError("list", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StoreError("list", err)
	}
	return names, nil
}

// Delete removes the snapshot stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.StoreError("delete", err)
	}
	defer tx.Rollback() //nolint:errcheck

	existed, err := s.deleteTx(ctx, tx, name)
	if err != nil {
		return errors.StoreError("delete", err)
	}
	if !existed {
		return errors.UndefinedSnapshotError(name)
	}

	if err := tx.Commit(); err != nil {
		return errors.StoreError("delete", err)
	}
	return nil
}

// deleteTx removes name and its rows, children first.
func (s *Store) deleteTx(ctx context.Context, tx *sql.Tx, name string) (bool, error) {
	for _, table := range []string{"snapshot_tokens", "snapshot_indexes", "snapshot_estimates"} {
		if err := s.exec(ctx, tx, "DELETE FROM "+table+" WHERE snapshot = ?", name); err != nil {
			return false, err
		}
	}
	res, err := tx.ExecContext(ctx, rebind(s.driver, `DELETE FROM snapshots WHERE name = ?`), name)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
