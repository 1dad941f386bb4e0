// Package query compiles raw request parameters into validated search
// descriptors shared by the lexical, vector, and hybrid paths.
package query

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cllg-project/TexTile-Backend/internal/errors"
	"github.com/cllg-project/TexTile-Backend/internal/tokenizer"
	"github.com/cllg-project/TexTile-Backend/model"
)

// Mode selects how query terms are matched against the index.
type Mode string

const (
	ModeExact   Mode = "exact"
	ModeFuzzy   Mode = "fuzzy"
	ModePartial Mode = "partial"
)

// NormalizeMode maps a raw mode parameter onto a supported mode. Unknown
// values fall back to exact matching rather than failing the request.
func NormalizeMode(raw string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeFuzzy:
		return ModeFuzzy
	case ModePartial:
		return ModePartial
	}
	return ModeExact
}

// Params are the raw, unvalidated request parameters.
type Params struct {
	Query     string
	Mode      string
	Resource  string
	Language  string
	Location  string
	DateRange string
	Page      int
	PageSize  int
}

// Descriptor is a compiled query ready for the search backends.
type Descriptor struct {
	Query    string
	Terms    []string
	Mode     Mode
	Resource string
	Language string
	Location string
	Dates    *model.YearRange
	Page     int
	PageSize int
}

// Compiler validates parameters against the configured pagination bounds.
type Compiler struct {
	defaultPageSize int
	maxPageSize     int
}

// NewCompiler creates a compiler with the given pagination defaults.
func NewCompiler(defaultPageSize, maxPageSize int) *Compiler {
	return &Compiler{defaultPageSize: defaultPageSize, maxPageSize: maxPageSize}
}

// Compile validates and normalizes the parameters. The query may be empty;
// callers short-circuit empty queries to an empty result set.
func (c *Compiler) Compile(p Params) (Descriptor, error) {
	desc := Descriptor{
		Query:    strings.TrimSpace(p.Query),
		Mode:     NormalizeMode(p.Mode),
		Resource: strings.TrimSpace(p.Resource),
		Language: strings.TrimSpace(p.Language),
		Location: strings.TrimSpace(p.Location),
		Page:     p.Page,
		PageSize: p.PageSize,
	}

	desc.Terms = tokenizer.Tokenize(desc.Query)

	if desc.Page < 1 {
		desc.Page = 1
	}
	if desc.PageSize < 1 {
		desc.PageSize = c.defaultPageSize
	}
	if desc.PageSize > c.maxPageSize {
		desc.PageSize = c.maxPageSize
	}

	if expr := strings.TrimSpace(p.DateRange); expr != "" {
		dates, err := ParseYearRange(expr)
		if err != nil {
			return Descriptor{}, err
		}
		desc.Dates = &dates
	}
	return desc, nil
}

// ParseYearRange parses a date range expression: either a single year
// ("1250") or an inclusive span ("800-1400").
func ParseYearRange(expr string) (model.YearRange, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return model.YearRange{}, errors.NewInvalidDateRangeError(expr, "expression is empty")
	}

	startStr, stopStr, isRange := strings.Cut(expr, "-")
	start, err := strconv.Atoi(strings.TrimSpace(startStr))
	if err != nil {
		return model.YearRange{}, errors.NewInvalidDateRangeError(expr, "start year is not a number")
	}
	if !isRange {
		return model.YearRange{Start: start, Stop: start}, nil
	}

	stop, err := strconv.Atoi(strings.TrimSpace(stopStr))
	if err != nil {
		return model.YearRange{}, errors.NewInvalidDateRangeError(expr, "stop year is not a number")
	}
	if start > stop {
		return model.YearRange{}, errors.NewInvalidDateRangeError(expr, "start year comes after stop year")
	}
	return model.YearRange{Start: start, Stop: stop}, nil
}

// yearPattern matches bare three- or four-digit years in free text.
var yearPattern = regexp.MustCompile(`\b(\d{3,4})\b`)

// SniffYears pulls year mentions out of a free-text catalog query. A single
// year widens to a window of 50 years on each side; two or more years span
// from the lowest to the highest. The returned query has the year tokens
// removed.
func SniffYears(q string) (*model.YearRange, string) {
	matches := yearPattern.FindAllString(q, -1)
	if len(matches) == 0 {
		return nil, q
	}

	low, high := 0, 0
	for i, m := range matches {
		year, _ := strconv.Atoi(m)
		if i == 0 || year < low {
			low = year
		}
		if i == 0 || year > high {
			high = year
		}
	}

	if len(matches) == 1 {
		low, high = low-50, high+50
	}

	cleaned := yearPattern.ReplaceAllString(q, " ")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return &model.YearRange{Start: low, Stop: high}, cleaned
}
