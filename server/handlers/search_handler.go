package handlers

import (
	"context"
	"net/http"
	"net/url"

	"specials-server/models"
)

const (
	ADDRESS_QUERY_ARG     = "address"
	TEXT_QUERY_ARG        = "q"
	TYPE_QUERY_ARG        = "type"
	ACTIVE_ONLY_QUERY_ARG = "active_only"
)

type SpecialsSearcher interface {
	Search(ctx context.Context, q models.SearchQuery) (*models.SearchResult, error)
}

type SearchHandler struct {
	searcher        SpecialsSearcher
	defaultPageSize int
}

func NewSearchHandler(searcher SpecialsSearcher, defaultPageSize int) *SearchHandler {
	return &SearchHandler{searcher: searcher, defaultPageSize: defaultPageSize}
}

// SearchSpecials handles GET /v1/specials/search.
// active_only defaults to true; page and page_size default to 1 and the configured size.
func (h *SearchHandler) SearchSpecials(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.searcher.Search(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *SearchHandler) parseQuery(vals url.Values) (models.SearchQuery, error) {
	q := models.SearchQuery{
		Address:     vals.Get(ADDRESS_QUERY_ARG),
		SearchText:  vals.Get(TEXT_QUERY_ARG),
		SpecialType: vals.Get(TYPE_QUERY_ARG),
	}
	var err error
	if q.RadiusMiles, err = parseArgFloat64(vals, RADIUS_QUERY_ARG); err != nil {
		return q, err
	}
	if q.ReferenceInstant, err = parseArgTime(vals, AT_QUERY_ARG); err != nil {
		return q, err
	}
	if q.ActiveOnly, err = parseArgBool(vals, ACTIVE_ONLY_QUERY_ARG, true); err != nil {
		return q, err
	}
	if q.Page, err = parseArgInt(vals, PAGE_QUERY_ARG, 1); err != nil {
		return q, err
	}
	if q.PageSize, err = parseArgInt(vals, PAGE_SIZE_QUERY_ARG, h.defaultPageSize); err != nil {
		return q, err
	}
	return q, nil
}
