// Package registry fetches drug-label data from an openFDA-compatible
// drug label endpoint.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/giygas/symptom-advisor/entities"
	"github.com/giygas/symptom-advisor/interfaces"
	"github.com/giygas/symptom-advisor/lexicon"
	"github.com/giygas/symptom-advisor/logging"
	"github.com/giygas/symptom-advisor/metrics"
	"github.com/go-resty/resty/v2"
)

const labelPath = "/drug/label.json"

var (
	// ErrLabelNotFound means the registry answered but had no usable label.
	ErrLabelNotFound = errors.New("label not found")
	// ErrRegistryUnavailable means the registry could not be reached or failed.
	ErrRegistryUnavailable = errors.New("registry unavailable")
)

// Compile-time checks to ensure Client implements the registry interfaces
var (
	_ interfaces.LabelFetcher   = (*Client)(nil)
	_ interfaces.RegistryProber = (*Client)(nil)
)

// labelEnvelope is the subset of the drug/label.json response we read.
type labelEnvelope struct {
	Results []labelDocument `json:"results"`
}

type labelDocument struct {
	IndicationsAndUsage     []string `json:"indications_and_usage"`
	DosageAndAdministration []string `json:"dosage_and_administration"`
	Warnings                []string `json:"warnings"`
	AdverseReactions        []string `json:"adverse_reactions"`
}

// firstOrNotAvailable returns the first non-blank section text.
func firstOrNotAvailable(section []string) string {
	if len(section) == 0 || strings.TrimSpace(section[0]) == "" {
		return entities.NotAvailable
	}
	return strings.TrimSpace(section[0])
}

// toRecord applies the "Not available" defaults at the decode boundary.
func (d labelDocument) toRecord(name string) entities.LabelRecord {
	return entities.LabelRecord{
		Name:     name,
		Usage:    firstOrNotAvailable(d.IndicationsAndUsage),
		Dosage:   firstOrNotAvailable(d.DosageAndAdministration),
		Warnings: firstOrNotAvailable(d.Warnings),
		Effects:  firstOrNotAvailable(d.AdverseReactions),
	}
}

// Client queries the registry once per medicine. It never retries and keeps
// no cache; the API key is passed per call.
type Client struct {
	http *resty.Client
	lex  *lexicon.Lexicon
}

// New creates a registry client for baseURL with a per-request timeout.
func New(baseURL string, timeout time.Duration, lex *lexicon.Lexicon) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", "symptom-advisor"),
		lex: lex,
	}
}

// FetchLabel normalizes medicine to its generic name and returns the first
// matching label.
func (c *Client) FetchLabel(ctx context.Context, medicine string, apiKey string) (entities.LabelRecord, error) {
	generic := c.lex.Normalize(medicine)

	params := map[string]string{
		"search": fmt.Sprintf("openfda.generic_name:%q", generic),
		"limit":  "1",
	}
	if apiKey != "" {
		params["api_key"] = apiKey
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(labelPath)
	metrics.RegistryDuration.Observe(time.Since(start).Seconds())

	record, err := decodeLabel(resp, err, generic)
	switch {
	case err == nil:
		metrics.RegistryRequests.WithLabelValues("found").Inc()
		logging.Debug("Registry label found", "medicine", medicine, "generic", generic)
	case errors.Is(err, ErrLabelNotFound):
		metrics.RegistryRequests.WithLabelValues("not_found").Inc()
		logging.Debug("Registry has no label", "medicine", medicine, "generic", generic, "error", err)
	default:
		metrics.RegistryRequests.WithLabelValues("unavailable").Inc()
		logging.Warn("Registry request failed", "medicine", medicine, "generic", generic, "error", err)
	}
	return record, err
}

// decodeLabel classifies the response. 404, an empty result set and an
// undecodable body are not-found; transport errors and any other non-2xx
// status are unavailable.
func decodeLabel(resp *resty.Response, err error, name string) (entities.LabelRecord, error) {
	if err != nil {
		return entities.LabelRecord{}, fmt.Errorf("%w: %w", ErrRegistryUnavailable, err)
	}

	switch status := resp.StatusCode(); {
	case status == http.StatusNotFound:
		return entities.LabelRecord{}, fmt.Errorf("%w: %s", ErrLabelNotFound, name)
	case status < 200 || status > 299:
		return entities.LabelRecord{}, fmt.Errorf("%w: status %d", ErrRegistryUnavailable, status)
	}

	var envelope labelEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return entities.LabelRecord{}, fmt.Errorf("%w: malformed response: %w", ErrLabelNotFound, err)
	}
	if len(envelope.Results) == 0 {
		return entities.LabelRecord{}, fmt.Errorf("%w: %s", ErrLabelNotFound, name)
	}

	return envelope.Results[0].toRecord(name), nil
}

// Probe issues an unfiltered one-result query to check reachability.
func (c *Client) Probe(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("limit", "1").
		Get(labelPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRegistryUnavailable, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("%w: status %d", ErrRegistryUnavailable, resp.StatusCode())
	}
	return nil
}
