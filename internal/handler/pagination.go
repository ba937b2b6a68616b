package handler

import (
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pageParams are the pagination inputs for list endpoints: ?page=N starting
// at 1, ?page_size=M capped at maxPageSize.
type pageParams struct {
	page int
	size int
}

func pageFromRequest(c echo.Context) pageParams {
	params := pageParams{page: 1, size: defaultPageSize}
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		params.page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && v > 0 {
		params.size = v
		if params.size > maxPageSize {
			params.size = maxPageSize
		}
	}
	return params
}

func (p pageParams) offset() int {
	return (p.page - 1) * p.size
}

// PaginatedResponse is the envelope for list endpoints. Next and Previous are
// absolute URLs or null.
type PaginatedResponse struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

func paginated(c echo.Context, p pageParams, count int64, results interface{}) PaginatedResponse {
	resp := PaginatedResponse{Count: count, Results: results}
	if int64(p.offset()+p.size) < count {
		resp.Next = pageURL(c, p, p.page+1)
	}
	if p.page > 1 {
		resp.Previous = pageURL(c, p, p.page-1)
	}
	return resp
}

func pageURL(c echo.Context, p pageParams, page int) *string {
	u := *c.Request().URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	if p.size != defaultPageSize {
		q.Set("page_size", strconv.Itoa(p.size))
	}
	u.RawQuery = q.Encode()

	abs := url.URL{
		Scheme:   c.Scheme(),
		Host:     c.Request().Host,
		Path:     u.Path,
		RawQuery: u.RawQuery,
	}
	s := abs.String()
	return &s
}
