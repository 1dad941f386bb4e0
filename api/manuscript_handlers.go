package api

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cllg-project/TexTile-Backend/internal/query"
	"github.com/cllg-project/TexTile-Backend/model"
	"github.com/cllg-project/TexTile-Backend/services"
)

func writeManuscriptCSV(c *gin.Context, manuscripts []model.Manuscript) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="manuscripts.csv"`)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"identifier", "title", "language", "location", "dates", "ark", "manifest", "tokens"})
	for _, ms := range manuscripts {
		dates := ""
		if ms.Dates != nil {
			dates = ms.Dates.String()
		}
		_ = w.Write([]string{
			ms.Identifier,
			ms.Title,
			ms.Language,
			ms.Location,
			dates,
			ms.Ark,
			ms.Manifest,
			strconv.Itoa(ms.Tokens),
		})
	}
	w.Flush()
}

func (api *API) listManuscripts(c *gin.Context, q services.ManuscriptQuery) {
	listing, err := api.backend.ListManuscripts(c.Request.Context(), q)
	if err != nil {
		SendDomainError(c, err)
		return
	}
	if c.Query("format") == "csv" {
		writeManuscriptCSV(c, listing.Manuscripts)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// ListManuscriptsHandler lists catalog records. The free-text q parameter
// is sniffed for years ("missel 1250" filters on [1200,1300]) unless an
// explicit date_range is given.
func (api *API) ListManuscriptsHandler(c *gin.Context) {
	q := services.ManuscriptQuery{
		Query:     strings.TrimSpace(c.Query("q")),
		Language:  c.Query("language"),
		Location:  c.Query("location"),
		DateRange: c.Query("date_range"),
		Page:      intQuery(c, "page", 0),
		PageSize:  intQuery(c, "page_size", 0),
	}
	if q.DateRange == "" && q.Query != "" {
		if years, rest := query.SniffYears(q.Query); years != nil {
			q.DateRange = years.String()
			q.Query = rest
		}
	}
	api.listManuscripts(c, q)
}

// ManuscriptsByLanguage lists the manuscripts catalogued under a language code.
func (api *API) ManuscriptsByLanguage(c *gin.Context) {
	api.listManuscripts(c, services.ManuscriptQuery{
		Language: c.Param("language"),
		Page:     intQuery(c, "page", 0),
		PageSize: intQuery(c, "page_size", 0),
	})
}

// ManuscriptsByRangeHandler lists manuscripts whose dating overlaps the
// queried range ("800-1400" or a single year).
func (api *API) ManuscriptsByRangeHandler(c *gin.Context) {
	expr := strings.TrimSpace(c.Query("q"))
	if expr == "" {
		SendValidationError(c, "q", "date range parameter is required")
		return
	}
	api.listManuscripts(c, services.ManuscriptQuery{
		DateRange: expr,
		Page:      intQuery(c, "page", 0),
		PageSize:  intQuery(c, "page_size", 0),
	})
}

// ManuscriptsByDateHandler lists manuscripts by explicit dating bounds.
// start_year and stop_year filter the bounds independently; exact_start
// and exact_stop switch the comparison to equality.
func (api *API) ManuscriptsByDateHandler(c *gin.Context) {
	q := services.ManuscriptQuery{
		Page:       intQuery(c, "page", 0),
		PageSize:   intQuery(c, "page_size", 0),
		ExactStart: c.Query("exact_start") == "true",
		ExactStop:  c.Query("exact_stop") == "true",
	}
	if raw := c.Query("start_year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			SendValidationError(c, "start_year", "must be an integer year")
			return
		}
		q.StartYear = &year
	}
	if raw := c.Query("stop_year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			SendValidationError(c, "stop_year", "must be an integer year")
			return
		}
		q.StopYear = &year
	}
	if q.StartYear == nil && q.StopYear == nil {
		SendValidationError(c, "start_year", "start_year or stop_year is required")
		return
	}
	api.listManuscripts(c, q)
}

// CountManuscriptsHandler returns the catalog size.
func (api *API) CountManuscriptsHandler(c *gin.Context) {
	count, err := api.backend.CountManuscripts(c.Request.Context())
	if err != nil {
		SendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// GetManuscriptHandler returns one catalog record by id.
func (api *API) GetManuscriptHandler(c *gin.Context) {
	identifier := strings.TrimSpace(c.Query("id"))
	if identifier == "" {
		SendValidationError(c, "id", "id parameter is required")
		return
	}
	ms, err := api.backend.GetManuscript(c.Request.Context(), identifier)
	if err != nil {
		SendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, ms)
}
