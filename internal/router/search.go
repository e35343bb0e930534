package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/dto"
	"github.com/inkpress/inkpress/internal/search"
	"github.com/inkpress/inkpress/internal/storage"
	"github.com/inkpress/inkpress/internal/validate"
	"github.com/inkpress/inkpress/pkg/pagination"
	"github.com/inkpress/inkpress/pkg/stringsutil"
	"github.com/labstack/echo/v4"
)

type SearchRouter struct {
	e        *echo.Echo
	searches *search.Service
	tokens   *auth.TokenManager
	users    auth.UserLoader
}

func NewSearchRouter(e *echo.Echo, searches *search.Service, tokens *auth.TokenManager, users auth.UserLoader) *SearchRouter {
	return &SearchRouter{e: e, searches: searches, tokens: tokens, users: users}
}

func (r *SearchRouter) Bind() {
	r.e.GET("/api/search", r.search, auth.OptionalAuthenticate(r.tokens, r.users))
	r.e.GET("/api/search/suggest", r.suggest)
}

// searchResponse pairs the scored hits with the pagination envelope the
// other list endpoints use. Articles is always a JSON array, never null.
type searchResponse struct {
	Articles     []storage.SearchHit `json:"articles"`
	TotalMatches int64               `json:"totalMatches"`
	MaxScore     float64             `json:"maxScore"`
	Pagination   pagination.Meta     `json:"pagination"`
}

func (r *SearchRouter) search(c echo.Context) error {
	var q dto.SearchQuery
	if err := validate.BindQuery(c, &q); err != nil {
		return err
	}
	q.Normalize(pagination.PageDefaultSize)

	req := storage.SearchRequest{
		Query:    q.Query,
		Category: q.Category,
		Tags:     stringsutil.SplitCSV(q.Tags),
		Author:   q.Author,
		Premium:  q.Premium,
		Featured: q.Featured,
		Language: q.Language,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		SortBy:   q.SortBy,
		Page:     q.Page,
		Size:     q.Limit,
	}

	var err error
	if req.DateFrom, err = parseDate(q.DateFrom); err != nil {
		return apperr.NewValidation("Invalid dateFrom")
	}
	if req.DateTo, err = parseDate(q.DateTo); err != nil {
		return apperr.NewValidation("Invalid dateTo")
	}

	result, err := r.searches.Search(c.Request().Context(), req, currentUserID(c))
	if err != nil {
		return err
	}

	hits := result.Hits
	if hits == nil {
		hits = []storage.SearchHit{}
	}
	return c.JSON(http.StatusOK, searchResponse{
		Articles:     hits,
		TotalMatches: result.TotalMatches,
		MaxScore:     result.MaxScore,
		Pagination:   pagination.NewMeta(q.Request, result.TotalMatches),
	})
}

func (r *SearchRouter) suggest(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	suggestions, err := r.searches.Suggest(c.Request().Context(), c.QueryParam("q"), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, suggestions)
}

// parseDate accepts RFC3339 stamps and bare dates.
func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
