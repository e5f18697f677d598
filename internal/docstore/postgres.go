package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	inErrors "github.com/printforge/storefront/internal/errors"
	"github.com/printforge/storefront/internal/log"
	"github.com/printforge/storefront/internal/otel"
)

var fieldPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// PostgresStore keeps each document as a JSONB row keyed by collection and id.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(
	c context.Context,
	collection string,
	id string,
) (json.RawMessage, error) {
	c, span := otel.Tracer.Start(c, "PostgresStore Get")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PostgresStore Get").
		Str(log.KeyCollection, collection).
		Str(log.KeyDocumentID, id).
		Logger()

	doc := json.RawMessage{}
	err := s.pool.QueryRow(
		c,
		`select doc from documents where collection = $1 and id = $2`,
		collection,
		id,
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, inErrors.ErrDocumentNotFound
		}
		err = fmt.Errorf("failed getting document with error=%w", errors.Join(err, inErrors.ErrPersistenceUnavailable))
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	return doc, nil
}

func (s *PostgresStore) Put(
	c context.Context,
	collection string,
	id string,
	doc any,
) error {
	c, span := otel.Tracer.Start(c, "PostgresStore Put")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PostgresStore Put").
		Str(log.KeyCollection, collection).
		Str(log.KeyDocumentID, id).
		Logger()

	encoded, err := json.Marshal(doc)
	if err != nil {
		err = fmt.Errorf("failed marshaling document with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	_, err = s.pool.Exec(
		c,
		`insert into documents (collection, id, doc, created_at, updated_at)
		 values ($1, $2, $3, now(), now())
		 on conflict (collection, id)
		 do update set doc = excluded.doc, updated_at = now()`,
		collection,
		id,
		encoded,
	)
	if err != nil {
		err = fmt.Errorf("failed putting document with error=%w", errors.Join(err, inErrors.ErrPersistenceUnavailable))
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	return nil
}

func (s *PostgresStore) Query(
	c context.Context,
	collection string,
	q Query,
) ([]json.RawMessage, error) {
	c, span := otel.Tracer.Start(c, "PostgresStore Query")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PostgresStore Query").
		Str(log.KeyCollection, collection).
		Logger()

	sql := strings.Builder{}
	sql.WriteString(`select doc from documents where collection = $1`)
	args := []any{collection}
	for _, f := range q.Filters {
		if !fieldPattern.MatchString(f.Field) {
			return nil, fmt.Errorf("invalid filter field %q", f.Field)
		}
		op, err := sqlOp(f.Op)
		if err != nil {
			return nil, err
		}
		args = append(args, f.Value)
		fmt.Fprintf(&sql, ` and doc->>'%s' %s $%d`, f.Field, op, len(args))
	}
	if q.OrderBy != "" {
		if !fieldPattern.MatchString(q.OrderBy) {
			return nil, fmt.Errorf("invalid order field %q", q.OrderBy)
		}
		fmt.Fprintf(&sql, ` order by doc->>'%s'`, q.OrderBy)
		if q.Descending {
			sql.WriteString(` desc`)
		}
	}
	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sql, ` limit $%d`, len(args))
	}

	rows, err := s.pool.Query(c, sql.String(), args...)
	if err != nil {
		err = fmt.Errorf("failed querying documents with error=%w", errors.Join(err, inErrors.ErrPersistenceUnavailable))
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	defer rows.Close()

	docs := []json.RawMessage{}
	for rows.Next() {
		doc := json.RawMessage{}
		if err := rows.Scan(&doc); err != nil {
			err = fmt.Errorf("failed scanning document with error=%w", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		err = fmt.Errorf("failed iterating documents with error=%w", errors.Join(err, inErrors.ErrPersistenceUnavailable))
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	return docs, nil
}

func sqlOp(op string) (string, error) {
	switch op {
	case "==", "=":
		return "=", nil
	case "<", "<=", ">", ">=":
		return op, nil
	default:
		return "", fmt.Errorf("unsupported filter op %q", op)
	}
}
