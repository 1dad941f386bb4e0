package api

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cllg-project/TexTile-Backend/model"
	"github.com/cllg-project/TexTile-Backend/services"
)

const hitMarkOpen = `<mark class="dts-hit">`
const hitMarkClose = `</mark>`

func searchRequestFromQuery(c *gin.Context) services.SearchRequest {
	req := services.SearchRequest{
		Query:     c.Query("query"),
		Mode:      c.Query("mode"),
		Language:  c.Query("language"),
		Location:  c.Query("location"),
		DateRange: c.Query("date_range"),
		Resource:  c.Query("resource"),
		Page:      intQuery(c, "page", 0),
		PageSize:  intQuery(c, "page_size", 0),
	}
	if req.Query == "" {
		req.Query = c.Query("q")
	}
	return req
}

// markSnippet inlines the highlight spans into the snippet text.
func markSnippet(hit model.SearchHit) string {
	if len(hit.Highlights) == 0 {
		return hit.Snippet
	}
	var b strings.Builder
	prev := 0
	for _, span := range hit.Highlights {
		if span.Start < prev || span.End > len(hit.Snippet) {
			continue
		}
		b.WriteString(hit.Snippet[prev:span.Start])
		b.WriteString(hitMarkOpen)
		b.WriteString(hit.Snippet[span.Start:span.End])
		b.WriteString(hitMarkClose)
		prev = span.End
	}
	b.WriteString(hit.Snippet[prev:])
	return b.String()
}

type searchHitView struct {
	model.SearchHit
	MarkedSnippet string `json:"marked_snippet,omitempty"`
}

type searchResponseView struct {
	Hits     []searchHitView `json:"hits"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Partial  bool            `json:"partial,omitempty"`
	Took     int64           `json:"took"`
	QueryID  string          `json:"query_id"`
}

func searchView(resp services.SearchResponse) searchResponseView {
	hits := make([]searchHitView, len(resp.Hits))
	for i, hit := range resp.Hits {
		hits[i] = searchHitView{SearchHit: hit, MarkedSnippet: markSnippet(hit)}
	}
	return searchResponseView{
		Hits:     hits,
		Total:    resp.Total,
		Page:     resp.Page,
		PageSize: resp.PageSize,
		Partial:  resp.Partial,
		Took:     resp.Took,
		QueryID:  resp.QueryID,
	}
}

func writeSearchCSV(c *gin.Context, resp services.SearchResponse) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="search_results.csv"`)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"document_id", "ref", "score", "lexical_score", "vector_score", "title", "snippet"})
	for _, hit := range resp.Hits {
		_ = w.Write([]string{
			hit.DocumentID,
			hit.Ref,
			strconv.FormatFloat(hit.Score, 'f', 6, 64),
			strconv.FormatFloat(hit.LexicalScore, 'f', 6, 64),
			strconv.FormatFloat(hit.VectorScore, 'f', 6, 64),
			hit.Metadata.Title,
			markSnippet(hit),
		})
	}
	w.Flush()
}

// SearchHandler runs a lexical search.
// Query parameters: query (or q), mode, page, page_size, language, location,
// date_range, resource, format (json|csv).
func (api *API) SearchHandler(c *gin.Context) {
	req := searchRequestFromQuery(c)
	if strings.TrimSpace(req.Query) == "" {
		SendValidationError(c, "query", "query parameter is required")
		return
	}

	resp, err := api.backend.Search(c.Request.Context(), req)
	if err != nil {
		SendDomainError(c, err)
		return
	}

	if c.Query("format") == "csv" {
		writeSearchCSV(c, resp)
		return
	}
	c.JSON(http.StatusOK, searchView(resp))
}

// HybridSearchHandler runs a merged lexical + vector search. Same
// parameters as SearchHandler.
func (api *API) HybridSearchHandler(c *gin.Context) {
	req := searchRequestFromQuery(c)
	if strings.TrimSpace(req.Query) == "" {
		SendValidationError(c, "query", "query parameter is required")
		return
	}

	resp, err := api.backend.HybridSearch(c.Request.Context(), req)
	if err != nil {
		SendDomainError(c, err)
		return
	}

	if c.Query("format") == "csv" {
		writeSearchCSV(c, resp)
		return
	}
	c.JSON(http.StatusOK, searchView(resp))
}
