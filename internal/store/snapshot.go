package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/dyn/internal/codec"
	"github.com/roach88/dyn/internal/dyn"
)

// ErrNotFound reports a snapshot name with no stored container.
var ErrNotFound = errors.New("snapshot not found")

// Info describes a stored snapshot without loading its container.
type Info struct {
	Name       string
	PrimaryTag dyn.Tag
	Immutable  bool
	Version    int
}

// Save upserts a container snapshot under a name. Saving over an existing
// name bumps its version.
func (s *Store) Save(ctx context.Context, name string, c *dyn.Container) error {
	reps, err := encodeRepresentations(c)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", name, err)
	}

	primary, _ := c.PrimaryTag()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (name, primary_tag, null_safe, immutable, reps, version)
		VALUES (?, ?, ?, ?, ?, 1)
		ON CONFLICT(name) DO UPDATE SET
			primary_tag = excluded.primary_tag,
			null_safe = excluded.null_safe,
			immutable = excluded.immutable,
			reps = excluded.reps,
			version = snapshots.version + 1
	`, name, string(primary), boolInt(c.NullSafe()), boolInt(c.IsImmutable()), reps)
	if err != nil {
		return fmt.Errorf("saving %q: %w", name, err)
	}
	return nil
}

// Load reconstructs the container stored under a name.
// Returns ErrNotFound when the name has no snapshot.
func (s *Store) Load(ctx context.Context, name string) (*dyn.Container, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT primary_tag, null_safe, immutable, reps
		FROM snapshots WHERE name = ?
	`, name)

	var primaryTag, reps string
	var nullSafe, immutable int
	if err := row.Scan(&primaryTag, &nullSafe, &immutable, &reps); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("loading %q: %w", name, err)
	}

	decoded, err := decodeRepresentations(reps)
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", name, err)
	}

	return dyn.Rehydrate(decoded, dyn.Tag(primaryTag), nullSafe != 0, immutable != 0), nil
}

// Delete removes a snapshot. Returns ErrNotFound when nothing was stored.
func (s *Store) Delete(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting %q: %w", name, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// List returns stored snapshots ordered by name. A non-empty tag filters to
// snapshots whose primary tag matches.
func (s *Store) List(ctx context.Context, tag dyn.Tag) ([]Info, error) {
	query := `SELECT name, primary_tag, immutable, version FROM snapshots ORDER BY name`
	args := []any{}
	if tag != "" {
		query = `SELECT name, primary_tag, immutable, version FROM snapshots WHERE primary_tag = ? ORDER BY name`
		args = append(args, string(tag))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var info Info
		var primaryTag string
		var immutable int
		if err := rows.Scan(&info.Name, &primaryTag, &immutable, &info.Version); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		info.PrimaryTag = dyn.Tag(primaryTag)
		info.Immutable = immutable != 0
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// encodeRepresentations serializes a container's representation list as a
// JSON array of {tag, value} objects in insertion order.
func encodeRepresentations(c *dyn.Container) (string, error) {
	reps := c.Representations()
	out := make([]any, len(reps))
	for i, rep := range reps {
		out[i] = map[string]any{
			"tag":   string(rep.Tag),
			"value": rep.Value,
		}
	}
	return codec.Stringify(out)
}

// decodeRepresentations parses the stored list and rehydrates each value
// into its tag's shape, so decimals and times come back as themselves
// rather than as the strings and numbers JSON reduced them to.
func decodeRepresentations(text string) ([]dyn.Representation, error) {
	parsed, err := codec.Parse(text)
	if err != nil {
		return nil, err
	}
	list, ok := parsed.([]any)
	if !ok {
		return nil, fmt.Errorf("snapshot representations are not a list")
	}

	reps := make([]dyn.Representation, 0, len(list))
	for i, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("representation %d is not an object", i)
		}
		tagName, ok := m["tag"].(string)
		if !ok {
			return nil, fmt.Errorf("representation %d has no tag", i)
		}
		tag, ok := dyn.ParseTag(tagName)
		if !ok {
			return nil, fmt.Errorf("representation %d has unknown tag %q", i, tagName)
		}

		value := m["value"]
		if value != nil && tag != dyn.TagEmpty {
			value, err = codec.ConvertStructurally(value, tag.Shape())
			if err != nil {
				return nil, fmt.Errorf("representation %d: %w", i, err)
			}
		}
		reps = append(reps, dyn.Representation{Tag: tag, Value: value})
	}
	return reps, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
