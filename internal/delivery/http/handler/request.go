package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

var errInvalidQuery = errors.New("invalid query parameter")

// pathID reads a positive int64 path variable.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// pageParams reads page and limit, defaulting to the first page of ten.
func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func queryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errInvalidQuery
	}
	return &v, nil
}

func queryBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errInvalidQuery
	}
	return &v, nil
}

// queryDate accepts YYYY-MM-DD or RFC 3339. With endOfRange set a plain date
// is moved to the following midnight so the day is included in [from, to).
func queryDate(r *http.Request, name string, endOfRange bool) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, errInvalidQuery
	}
	if endOfRange {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}

// dateRange reads the from and to query parameters.
func dateRange(r *http.Request) (*time.Time, *time.Time, error) {
	from, err := queryDate(r, "from", false)
	if err != nil {
		return nil, nil, err
	}
	to, err := queryDate(r, "to", true)
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}
