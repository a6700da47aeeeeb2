package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sqlens/sqlens/internal/errs"
	"github.com/sqlens/sqlens/internal/schema"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.queryContext(r)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		s.writeError(w, r, err)
		return
	}
	version, err := s.catalog.DatabaseVersion(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":         "ok",
		"sqlite_version": version,
	})
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.queryContext(r)
	defer cancel()

	tables, err := s.catalog.ListTables(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if tables == nil {
		tables = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"tables": tables})
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.queryContext(r)
	defer cancel()
	table := chi.URLParam(r, "table")

	cols, err := s.catalog.DescribeTable(ctx, table)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]schema.ColumnSnapshot, 0, len(cols))
	for _, col := range cols {
		cs := schema.ColumnSnapshot{ColumnDescription: col}
		// Unknown column types are reported without a field type rather
		// than failing the whole table.
		if ft, err := schema.ResolveFieldType(col.TypeName); err == nil {
			cs.FieldType = &ft
		}
		out = append(out, cs)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"table":   table,
		"columns": out,
	})
}

func (s *Server) handleIndexes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.queryContext(r)
	defer cancel()
	table := chi.URLParam(r, "table")

	indexes, err := s.catalog.TableIndexes(ctx, table)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"table":   table,
		"indexes": indexes,
	})
}

func (s *Server) handleRelations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.queryContext(r)
	defer cancel()
	table := chi.URLParam(r, "table")

	relations, err := s.catalog.TableRelations(ctx, table)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"table":     table,
		"relations": relations,
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		s.writeError(w, r, errs.New(errs.ErrKindUnsupported, "snapshot store is not configured"))
		return
	}

	ctx, cancel := s.queryContext(r)
	defer cancel()

	res, err := s.exporter.Export(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, res)
}

// --- response helpers ---

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Errorf("encoding response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.ErrorWith("request failed", err, map[string]any{
			"path":   r.URL.Path,
			"method": r.Method,
		})
	}

	var e *errs.Error
	kind := errs.ErrKindUnknown.String()
	msg := "internal error"
	if errors.As(err, &e) {
		kind = e.Kind.String()
		msg = e.Message
	}
	s.writeJSON(w, status, errorResponse{Error: msg, Kind: kind})
}

// statusFor maps error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errs.IsNotFound(err):
		return http.StatusNotFound
	case errs.IsInvalidInput(err):
		return http.StatusBadRequest
	case errs.IsUnsupported(err):
		return http.StatusNotImplemented
	case errs.IsTimeout(err):
		return http.StatusGatewayTimeout
	case errs.IsPermissionDenied(err):
		return http.StatusForbidden
	case errs.IsConnectionFailed(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
