package baas

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// ErrorCodeNoRows is returned when a single-object request matched no row.
const ErrorCodeNoRows = "PGRST116"

const mediaObject = "application/vnd.pgrst.object+json"

// Query is a row API request against one table. Filters accumulate; the
// terminal methods send the request.
type Query struct {
	session *Session
	table   string
	params  url.Values
}

// From starts a query on table.
func (s *Session) From(table string) *Query {
	return &Query{session: s, table: table, params: url.Values{}}
}

// Eq adds a col=eq.val filter.
func (q *Query) Eq(col, val string) *Query {
	q.params.Add(col, "eq."+val)
	return q
}

// Order sorts by col.
func (q *Query) Order(col string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.params.Set("order", col+"."+dir)
	return q
}

func (q *Query) path() string {
	p := "/rest/v1/" + url.PathEscape(q.table)
	if enc := q.params.Encode(); enc != "" {
		p += "?" + enc
	}
	return p
}

func (q *Query) send(ctx context.Context, method string, body any, headers map[string]string, dst any) error {
	req, err := q.session.authRequest(ctx, method, q.path(), body)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return do(q.session.hc, req, dst)
}

// Select loads every matching row into dst, which must point at a slice.
func (q *Query) Select(ctx context.Context, dst any) error {
	q.params.Set("select", "*")
	return q.send(ctx, http.MethodGet, nil, nil, dst)
}

// Single loads exactly one row into dst. No match yields an APIError with
// ErrorCodeNoRows.
func (q *Query) Single(ctx context.Context, dst any) error {
	q.params.Set("select", "*")
	return q.send(ctx, http.MethodGet, nil, map[string]string{"Accept": mediaObject}, dst)
}

// Insert creates row and decodes the stored representation into dst.
func (q *Query) Insert(ctx context.Context, row, dst any) error {
	return q.send(ctx, http.MethodPost, row, map[string]string{
		"Accept": mediaObject,
		"Prefer": "return=representation",
	}, dst)
}

// Upsert inserts row or merges it into the row conflicting on onConflict.
func (q *Query) Upsert(ctx context.Context, row any, onConflict string, dst any) error {
	q.params.Set("on_conflict", onConflict)
	return q.send(ctx, http.MethodPost, row, map[string]string{
		"Accept": mediaObject,
		"Prefer": "resolution=merge-duplicates,return=representation",
	}, dst)
}

// Update patches the single matching row and decodes the result into dst.
func (q *Query) Update(ctx context.Context, patch, dst any) error {
	return q.send(ctx, http.MethodPatch, patch, map[string]string{
		"Accept": mediaObject,
		"Prefer": "return=representation",
	}, dst)
}

// Delete removes the matching rows and reports how many were removed.
func (q *Query) Delete(ctx context.Context) (int, error) {
	var rows []json.RawMessage
	err := q.send(ctx, http.MethodDelete, nil, map[string]string{
		"Prefer": "return=representation",
	}, &rows)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}
