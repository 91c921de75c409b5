package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/innovationgame/innovation-server-go/internal/game/catalog"
)

const schema = `
CREATE TABLE IF NOT EXISTS card_faces (
	name       TEXT PRIMARY KEY,
	color      TEXT NOT NULL,
	age        INTEGER NOT NULL CHECK (age BETWEEN 1 AND 10),
	symbols    TEXT[] NOT NULL DEFAULT '{}',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const upsertFace = `
INSERT INTO card_faces (name, color, age, symbols, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (name) DO UPDATE
SET color = EXCLUDED.color, age = EXCLUDED.age, symbols = EXCLUDED.symbols, updated_at = now()`

// Querier is the part of a pgx pool or transaction the repository uses.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CardRepository loads and stores card faces.
type CardRepository struct {
	db     Querier
	logger *zap.Logger
}

// NewCardRepository creates a repository over a pool or transaction.
func NewCardRepository(db Querier, logger *zap.Logger) *CardRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CardRepository{db: db, logger: logger}
}

// EnsureSchema creates the card_faces table if it is missing.
func (r *CardRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create card_faces: %w", err)
	}
	return nil
}

// UpsertFaces writes faces in one transaction, replacing existing rows
// with the same name. Either every face is written or none is.
func (r *CardRepository) UpsertFaces(ctx context.Context, faces []catalog.Face) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	batch := &pgx.Batch{}
	for _, f := range faces {
		batch.Queue(upsertFace, f.Name, f.Color, f.Age, EncodeSymbols(f.Symbols))
	}
	results := tx.SendBatch(ctx, batch)
	for _, f := range faces {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return 0, fmt.Errorf("failed to upsert %s: %w", f.Name, err)
		}
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to close batch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit faces: %w", err)
	}

	r.logger.Info("upserted card faces", zap.Int("count", len(faces)))
	return len(faces), nil
}

// LoadFaces returns every stored face ordered by age then name.
func (r *CardRepository) LoadFaces(ctx context.Context) ([]catalog.Face, error) {
	rows, err := r.db.Query(ctx, `SELECT name, color, age, symbols FROM card_faces ORDER BY age, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query card faces: %w", err)
	}
	faces, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Face, error) {
		var (
			f       catalog.Face
			symbols []string
		)
		if err := row.Scan(&f.Name, &f.Color, &f.Age, &symbols); err != nil {
			return f, err
		}
		decoded, err := DecodeSymbols(symbols)
		if err != nil {
			return f, fmt.Errorf("%s: %w", f.Name, err)
		}
		f.Symbols = decoded
		return f, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read card faces: %w", err)
	}
	return faces, nil
}

// Count returns the number of stored faces.
func (r *CardRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM card_faces`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count card faces: %w", err)
	}
	return n, nil
}

// Clear removes every stored face.
func (r *CardRepository) Clear(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `TRUNCATE card_faces`); err != nil {
		return fmt.Errorf("failed to clear card faces: %w", err)
	}
	return nil
}

// EncodeSymbols renders symbols as "type@position" for the symbols column.
func EncodeSymbols(symbols []catalog.FaceSymbol) []string {
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, s.Type+"@"+s.Position)
	}
	return out
}

// DecodeSymbols parses the symbols column.
func DecodeSymbols(values []string) ([]catalog.FaceSymbol, error) {
	var out []catalog.FaceSymbol
	for _, v := range values {
		typ, pos, ok := strings.Cut(v, "@")
		if !ok || typ == "" || pos == "" {
			return nil, fmt.Errorf("malformed symbol %q", v)
		}
		out = append(out, catalog.FaceSymbol{Type: typ, Position: pos})
	}
	return out, nil
}
