package main

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/open-isbn/pkg/isbn"
	"github.com/yourusername/open-isbn/pkg/isbn/iso2005"
	"github.com/yourusername/open-isbn/pkg/isbn/iso2017"
	"github.com/yourusername/open-isbn/pkg/marc"
	"github.com/yourusername/open-isbn/pkg/provider"
	"github.com/yourusername/open-isbn/pkg/telemetry"
)

const (
	standardLegacy = "legacy"
	standard2005   = "2005"
	standard2017   = "2017"

	maxBatchItems = 1000
	maxMARCBytes  = 1 << 20
)

var errUnknownStandard = errors.New("standard must be legacy, 2005 or 2017")

func (gw *Gateway) parserFor(standard string) (*isbn.Parser, string, error) {
	if standard == "" {
		standard = standardLegacy
	}
	p, ok := gw.parsers[standard]
	if !ok {
		return nil, "", errUnknownStandard
	}
	return p, standard, nil
}

// render produces the label-and-hyphens text for the chosen standard. Only
// the 2005 standard accepts a format selector.
func render(id isbn.Identifier, standard, format string) (string, error) {
	switch standard {
	case standard2005:
		f, err := iso2005.ParseFormat(format)
		if err != nil {
			return "", err
		}
		return iso2005.FromIdentifier(id).Format(f)
	case standard2017:
		if format != "" {
			return "", isbn.ErrUnsupportedFormat
		}
		return iso2017.FromIdentifier(id).String(), nil
	}
	if format != "" {
		return "", isbn.ErrUnsupportedFormat
	}
	return id.String(), nil
}

// ParseResponse is the body of a successful parse. Agency comes from the
// range table the gateway was started with.
type ParseResponse struct {
	Input     string          `json:"input"`
	Standard  string          `json:"standard"`
	Formatted string          `json:"formatted"`
	ISBN      isbn.Identifier `json:"isbn"`
	ISBN10    string          `json:"isbn10,omitempty"`
	Agency    string          `json:"agency,omitempty"`
}

// handleParse godoc
// @Summary  Parse free text into a decomposed ISBN
// @Tags     isbn
// @Produce  json
// @Param    q         query string true  "Text containing one ISBN"
// @Param    standard  query string false "legacy, 2005 or 2017"
// @Param    format    query string false "ISBN, ISBN-13 or ISBN-10 (2005 only)"
// @Success  200 {object} ParseResponse
// @Failure  400 {object} APIError
// @Failure  422 {object} APIError
// @Router   /isbn/parse [get]
func (gw *Gateway) handleParse(c *gin.Context) {
	q := c.Query("q")
	p, standard, err := gw.parserFor(c.Query("standard"))
	if err != nil {
		AbortWithError(c, http.StatusBadRequest, "Invalid standard", err)
		return
	}

	id, err := telemetry.TraceParse(c.Request.Context(), p, q)
	gw.metrics.ObserveParse(err)
	if err != nil {
		abortWithISBNError(c, err)
		return
	}

	formatted, err := render(id, standard, c.Query("format"))
	if err != nil {
		abortWithISBNError(c, err)
		return
	}

	resp := ParseResponse{Input: q, Standard: standard, Formatted: formatted, ISBN: id, Agency: id.AgencyIn(p.Table())}
	if standard != standard2017 {
		resp.ISBN10 = id.Hyphenated10()
	}
	c.JSON(http.StatusOK, resp)
}

// handleValidate godoc
// @Summary  Report whether text holds a valid ISBN
// @Tags     isbn
// @Produce  json
// @Param    q         query string true  "Text containing one ISBN"
// @Param    standard  query string false "legacy, 2005 or 2017"
// @Router   /isbn/validate [get]
func (gw *Gateway) handleValidate(c *gin.Context) {
	q := c.Query("q")
	p, _, err := gw.parserFor(c.Query("standard"))
	if err != nil {
		AbortWithError(c, http.StatusBadRequest, "Invalid standard", err)
		return
	}
	res := p.ParseResult(q)
	gw.metrics.ObserveParse(res.Err())
	c.JSON(http.StatusOK, gin.H{
		"input":          q,
		"valid":          res.OK(),
		"checksum_valid": p.ValidateChecksum(q),
		"kind":           res.Kind,
	})
}

// handleCheckDigit godoc
// @Summary  Compute the check character for 9 or 12 digits
// @Tags     isbn
// @Produce  json
// @Param    digits query string true "9 or 12 decimal digits"
// @Router   /isbn/check-digit [get]
func (gw *Gateway) handleCheckDigit(c *gin.Context) {
	digits := c.Query("digits")
	check, err := isbn.ComputeCheckDigit(digits)
	if err != nil {
		abortWithISBNError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"digits": digits, "check_digit": check})
}

type batchRequest struct {
	Items    []string `json:"items" binding:"required"`
	Standard string   `json:"standard"`
}

// handleBatch godoc
// @Summary  Parse many inputs in one call
// @Tags     isbn
// @Accept   json
// @Produce  json
// @Router   /isbn/batch [post]
func (gw *Gateway) handleBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}
	if len(req.Items) > maxBatchItems {
		AbortWithError(c, http.StatusRequestEntityTooLarge, "Too many items", nil)
		return
	}
	p, _, err := gw.parserFor(req.Standard)
	if err != nil {
		AbortWithError(c, http.StatusBadRequest, "Invalid standard", err)
		return
	}

	results := make([]isbn.Result, len(req.Items))
	for i, item := range req.Items {
		results[i] = p.ParseResult(item)
		gw.metrics.ObserveParse(results[i].Err())
	}
	c.JSON(http.StatusOK, results)
}

type groupInfo struct {
	Prefix string `json:"prefix"`
	Group  string `json:"group"`
	Agency string `json:"agency"`
	Rules  int    `json:"rules"`
}

// handleGroups godoc
// @Summary  List registration groups, or the known prefixes when none is given
// @Tags     groups
// @Produce  json
// @Param    prefix query string false "GS1 prefix such as 978"
// @Router   /groups [get]
func (gw *Gateway) handleGroups(c *gin.Context) {
	prefix := c.Query("prefix")
	if prefix == "" {
		c.JSON(http.StatusOK, gin.H{"prefixes": gw.table.Prefixes()})
		return
	}
	if !gw.table.HasPrefix(prefix) {
		AbortWithError(c, http.StatusNotFound, "Unknown prefix", isbn.ErrUnrecognisedPrefix)
		return
	}

	codes := gw.table.Groups(prefix)
	groups := make([]groupInfo, 0, len(codes))
	for _, code := range codes {
		e, _ := gw.table.Group(prefix, code)
		groups = append(groups, groupInfo{Prefix: prefix, Group: code, Agency: e.Agency, Rules: len(e.Rules)})
	}
	c.JSON(http.StatusOK, gin.H{"prefix": prefix, "count": len(groups), "groups": groups})
}

// handleGroupSearch godoc
// @Summary  Full-text search over agency names
// @Tags     groups
// @Produce  json
// @Param    q     query string true  "Query string, e.g. finland or +prefix:979 +agency:italy"
// @Param    limit query int    false "Maximum hits"
// @Router   /groups/search [get]
func (gw *Gateway) handleGroupSearch(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		AbortWithError(c, http.StatusBadRequest, "Missing query", nil)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	hits, err := gw.index.Search(q, limit)
	if err != nil {
		AbortWithError(c, http.StatusBadRequest, "Search failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": q, "hits": hits})
}

type createRecordRequest struct {
	ISBN   string `json:"isbn" binding:"required"`
	Title  string `json:"title"`
	Source string `json:"source"`
}

// handleCreateRecord godoc
// @Summary  Validate an ISBN and store it with its metadata
// @Tags     records
// @Accept   json
// @Produce  json
// @Success  201 {object} provider.Record
// @Failure  409 {object} APIError
// @Failure  422 {object} APIError
// @Router   /records [post]
func (gw *Gateway) handleCreateRecord(c *gin.Context) {
	var req createRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	id, err := telemetry.TraceParse(c.Request.Context(), gw.parsers[standardLegacy], req.ISBN)
	gw.metrics.ObserveParse(err)
	if err != nil {
		abortWithISBNError(c, err)
		return
	}

	rec := &provider.Record{ISBN: id, Title: req.Title, Source: req.Source}
	if err := gw.store.CreateRecord(rec); err != nil {
		if errors.Is(err, provider.ErrDuplicate) {
			AbortWithError(c, http.StatusConflict, "Record already exists", err)
			return
		}
		AbortWithError(c, http.StatusInternalServerError, "Failed to store record", err)
		return
	}
	gw.metrics.IncrementRecordsCreated()
	c.JSON(http.StatusCreated, rec)
}

// handleListRecords godoc
// @Summary  List stored records
// @Tags     records
// @Produce  json
// @Param    limit  query int false "Page size"
// @Param    offset query int false "Records to skip"
// @Router   /records [get]
func (gw *Gateway) handleListRecords(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(provider.DefaultListLimit)))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	recs, err := gw.store.ListRecords(limit, offset)
	if err != nil {
		AbortWithError(c, http.StatusInternalServerError, "Failed to list records", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": recs, "limit": limit, "offset": offset})
}

// handleGetRecord godoc
// @Summary  Fetch one record by ISBN in any accepted form
// @Tags     records
// @Produce  json
// @Param    isbn path string true "ISBN-10 or ISBN-13"
// @Router   /records/{isbn} [get]
func (gw *Gateway) handleGetRecord(c *gin.Context) {
	id, err := gw.parsers[standardLegacy].Parse(c.Param("isbn"))
	if err != nil {
		abortWithISBNError(c, err)
		return
	}
	rec, err := gw.store.GetRecord(id.Digits())
	if err != nil {
		if errors.Is(err, provider.ErrNotFound) {
			AbortWithError(c, http.StatusNotFound, "Record not found", err)
			return
		}
		AbortWithError(c, http.StatusInternalServerError, "Failed to fetch record", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// handleRecordStats godoc
// @Summary  Count stored records per registration agency
// @Tags     records
// @Produce  json
// @Router   /records/stats [get]
func (gw *Gateway) handleRecordStats(c *gin.Context) {
	counts, err := gw.store.CountByAgency()
	if err != nil {
		AbortWithError(c, http.StatusInternalServerError, "Failed to count records", err)
		return
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "by_agency": counts})
}

// handleMARCISBNs godoc
// @Summary  Extract and validate the ISBNs of a MARC record
// @Tags     marc
// @Accept   octet-stream
// @Produce  json
// @Param    profile query string false "auto, marc21, cnmarc or unimarc"
// @Param    charset query string false "Charset label for non-UTF-8 records"
// @Router   /marc/isbns [post]
func (gw *Gateway) handleMARCISBNs(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxMARCBytes+1))
	if err != nil {
		AbortWithError(c, http.StatusBadRequest, "Failed to read body", err)
		return
	}
	if len(data) > maxMARCBytes {
		AbortWithError(c, http.StatusRequestEntityTooLarge, "Record too large", nil)
		return
	}

	rec, err := marc.Parse(data, marc.NewDecoder(c.Query("charset")))
	if err != nil {
		AbortWithError(c, http.StatusBadRequest, "Invalid MARC record", err)
		return
	}

	profile := marc.DetectProfile(rec)
	if name := c.Query("profile"); name != "" && name != "auto" {
		var ok bool
		if profile, ok = marc.ProfileByName(name); !ok {
			AbortWithError(c, http.StatusBadRequest, "Unknown profile", nil)
			return
		}
	}

	entries := marc.ExtractISBNs(rec, profile, gw.parsers[standardLegacy])
	for _, e := range entries {
		gw.metrics.ObserveParse(e.Result.Err())
	}
	c.JSON(http.StatusOK, gin.H{
		"record_id": rec.ID(),
		"title":     rec.Title(profile),
		"profile":   profile.Name,
		"isbns":     entries,
	})
}
