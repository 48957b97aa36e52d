// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package entrez queries the NCBI E-utilities for nucleotide records and
// returns projected summary rows.
package entrez

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joelnitta/ftol-ppg-figs/internal/httputil"
	"github.com/joelnitta/ftol-ppg-figs/pkg/types"
)

// eutilsBase is the E-utilities endpoint prefix. Declared as a var so
// tests can substitute an httptest server.
var eutilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// database is the Entrez database all searches run against.
const database = "nuccore"

// batchSize is the number of identifiers fetched per summary request.
const batchSize = 200

// Field names a summary field to project into SequenceRecord.
type Field string

const (
	FieldAccession Field = "accession"
	FieldTaxID     Field = "taxid"
	FieldTitle     Field = "title"
	FieldLength    Field = "slen"
	FieldSubtype   Field = "subtype"
	FieldSubname   Field = "subname"
)

// Client talks to the E-utilities esearch and esummary endpoints.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string

	// APIKey, Email, and Tool are sent with every request per NCBI
	// usage policy. APIKey raises the rate limit from 3 to 10
	// requests per second.
	APIKey string
	Email  string
	Tool   string

	UserAgent string

	// BatchDelay is slept between consecutive summary batches.
	BatchDelay time.Duration
}

// NewClient builds a Client from the fetch configuration.
func NewClient(httpClient *http.Client, cfg types.FetchConfig) *Client {
	return &Client{
		HTTPClient: httpClient,
		BaseURL:    eutilsBase,
		APIKey:     cfg.APIKey,
		Email:      cfg.Email,
		Tool:       cfg.Tool,
		UserAgent:  cfg.UserAgent,
		BatchDelay: cfg.BatchDelay,
	}
}

// FetchOutput holds the fetched rows and per-batch failure reports.
// BatchErrors is non-empty when one or more batches were substituted
// with a sentinel row; the fetch as a whole still succeeded.
type FetchOutput struct {
	Records     []types.SequenceRecord
	BatchErrors []string
}

// FetchRecords returns all records matching term, with only the
// requested fields populated. Zero matches is not an error: the output
// is a single sentinel row (empty taxon ID) so downstream joins see a
// row rather than an absent table. Identifier lists longer than one
// batch are fetched in batches of 200; a failed batch is downgraded to
// a warning on w plus a sentinel row, without aborting sibling batches.
func (c *Client) FetchRecords(ctx context.Context, term string, fields []Field, w io.Writer) (FetchOutput, error) {
	count, err := c.searchCount(ctx, term)
	if err != nil {
		return FetchOutput{}, fmt.Errorf("counting matches for %q: %w", term, err)
	}
	if count == 0 {
		return FetchOutput{Records: []types.SequenceRecord{{}}}, nil
	}

	ids, err := c.searchIDs(ctx, term, count+1)
	if err != nil {
		return FetchOutput{}, fmt.Errorf("listing identifiers for %q: %w", term, err)
	}

	var out FetchOutput
	for start := 0; start < len(ids); start += batchSize {
		if start > 0 && c.BatchDelay > 0 {
			time.Sleep(c.BatchDelay)
		}

		end := min(start+batchSize, len(ids))
		records, err := c.fetchBatch(ctx, ids[start:end], fields)
		if err != nil {
			msg := fmt.Sprintf("batch %d-%d of %d: %v", start+1, end, len(ids), err)
			out.BatchErrors = append(out.BatchErrors, msg)
			fmt.Fprintf(w, "warning: %s\n", msg)
			out.Records = append(out.Records, types.SequenceRecord{})
			continue
		}
		out.Records = append(out.Records, records...)
	}
	return out, nil
}

// searchCount issues a count-only esearch and returns the match count.
func (c *Client) searchCount(ctx context.Context, term string) (int, error) {
	params := url.Values{
		"db":      {database},
		"term":    {term},
		"rettype": {"count"},
	}

	var er esearchResponse
	if err := c.getJSON(ctx, "esearch.fcgi", params, &er); err != nil {
		return 0, err
	}

	count, err := strconv.Atoi(er.Result.Count)
	if err != nil {
		return 0, fmt.Errorf("parsing match count %q: %w", er.Result.Count, err)
	}
	return count, nil
}

// searchIDs issues an esearch requesting up to retMax identifiers.
func (c *Client) searchIDs(ctx context.Context, term string, retMax int) ([]string, error) {
	params := url.Values{
		"db":     {database},
		"term":   {term},
		"retmax": {strconv.Itoa(retMax)},
	}

	var er esearchResponse
	if err := c.getJSON(ctx, "esearch.fcgi", params, &er); err != nil {
		return nil, err
	}
	return er.Result.IDList, nil
}

// fetchBatch retrieves summaries for one identifier batch and projects
// the requested fields. Server response order is preserved. A row with
// an empty taxon ID after projection is a data-integrity fault that
// fails the whole batch.
func (c *Client) fetchBatch(ctx context.Context, ids []string, fields []Field) ([]types.SequenceRecord, error) {
	params := url.Values{
		"db":      {database},
		"id":      {strings.Join(ids, ",")},
		"version": {"2.0"},
	}

	var sr esummaryResponse
	if err := c.getJSON(ctx, "esummary.fcgi", params, &sr); err != nil {
		return nil, err
	}

	var uids []string
	if raw, ok := sr.Result["uids"]; ok {
		if err := json.Unmarshal(raw, &uids); err != nil {
			return nil, fmt.Errorf("parsing uid list: %w", err)
		}
	}

	wantTaxID := false
	for _, f := range fields {
		if f == FieldTaxID {
			wantTaxID = true
		}
	}

	records := make([]types.SequenceRecord, 0, len(uids))
	for _, uid := range uids {
		raw, ok := sr.Result[uid]
		if !ok {
			return nil, fmt.Errorf("summary result missing uid %s", uid)
		}
		var doc docSum
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parsing summary for uid %s: %w", uid, err)
		}

		rec := project(doc, fields)
		if wantTaxID && rec.TaxID == "" {
			return nil, fmt.Errorf("record %s has no taxon ID", uid)
		}
		records = append(records, rec)
	}
	return records, nil
}

// project copies only the requested fields out of a document summary.
// The taxon ID arrives as a JSON number and is coerced to string.
func project(doc docSum, fields []Field) types.SequenceRecord {
	var rec types.SequenceRecord
	for _, f := range fields {
		switch f {
		case FieldAccession:
			rec.Accession = doc.AccessionVersion
			if rec.Accession == "" {
				rec.Accession = doc.Caption
			}
		case FieldTaxID:
			rec.TaxID = doc.TaxID.String()
			if rec.TaxID == "0" {
				rec.TaxID = ""
			}
		case FieldTitle:
			rec.Title = doc.Title
		case FieldLength:
			n, _ := doc.SLen.Int64()
			rec.Length = int(n)
		case FieldSubtype:
			rec.Subtype = doc.Subtype
		case FieldSubname:
			rec.Subname = doc.Subname
		}
	}
	return rec
}

// getJSON issues a GET against endpoint with the shared identification
// parameters attached and decodes the JSON response into v.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, v any) error {
	params.Set("retmode", "json")
	if c.APIKey != "" {
		params.Set("api_key", c.APIKey)
	}
	if c.Email != "" {
		params.Set("email", c.Email)
	}
	if c.Tool != "" {
		params.Set("tool", c.Tool)
	}

	reqURL := c.BaseURL + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTPClient, req, 0)
	if err != nil {
		return fmt.Errorf("E-utilities request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("E-utilities returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing E-utilities response: %w", err)
	}
	return nil
}

// E-utilities JSON structures.
type esearchResponse struct {
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count  string   `json:"count"`
	IDList []string `json:"idlist"`
}

type esummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

// docSum is one esummary document. TaxID and SLen arrive as JSON
// numbers; json.Number keeps the string coercion lossless.
type docSum struct {
	AccessionVersion string      `json:"accessionversion"`
	Caption          string      `json:"caption"`
	TaxID            json.Number `json:"taxid"`
	Title            string      `json:"title"`
	SLen             json.Number `json:"slen"`
	Subtype          string      `json:"subtype"`
	Subname          string      `json:"subname"`
}
