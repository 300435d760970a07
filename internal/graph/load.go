package graph

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// Load reads a graph from path. Files ending in .db, .sqlite or .sqlite3 are
// read as SQLite databases; anything else as JSON. An empty path or a
// missing file yields an empty graph.
func Load(ctx context.Context, path string) (*Graph, error) {
	if path == "" {
		return New(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("path", path).Msg("relation graph not found, clustering disabled")
		return New(), nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(ctx, path)
	default:
		return LoadJSON(path)
	}
}

// LoadJSON reads the builder's mapping
// {item_id: {"outgoing": [...], "incoming": [...]}}.
func LoadJSON(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}
	var m map[string]Relations
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse graph %s: %w", path, err)
	}
	g := FromRelations(m)
	log.Debug().Str("path", path).Int("nodes", g.Len()).Msg("relation graph loaded")
	return g, nil
}

// LoadSQLite reads edges from the relations(from_id, to_id, rel) table of a
// database the graph builder maintains. The database is opened read-only.
func LoadSQLite(ctx context.Context, path string) (*Graph, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open graph db: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT from_id, to_id, rel FROM relations`)
	if err != nil {
		return nil, fmt.Errorf("query relations: %w", err)
	}
	defer rows.Close()

	var edges []Edge
	for rows.Next() {
		var e Edge
		if err := rows.Scan(&e.From, &e.To, &e.Type); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	g := FromEdges(edges)
	log.Debug().Str("path", path).Int("edges", len(edges)).Msg("relation graph loaded")
	return g, nil
}
