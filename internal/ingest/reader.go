// Package ingest reads bilateral-flow snapshots and normalizes them into
// contracts.BilateralFlow records. This is the only place raw input is
// touched; everything downstream sees canonical ISO3 codes, zero-padded
// HS6 strings and USD values.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/exportlens/backend/internal/contracts"
	"github.com/exportlens/backend/internal/country"
	"github.com/exportlens/backend/pkg/httputil"
	"github.com/exportlens/backend/pkg/logger"
)

// Stats are the data-quality counters of one ingestion pass.
type Stats struct {
	RecordsRead     int
	RecordsExcluded int
	// ExcludedValue is the summed (scaled) trade value of excluded records,
	// for the operator-facing sanity check.
	ExcludedValue float64
}

// ExcludedShare returns the fraction of records excluded.
func (s Stats) ExcludedShare() float64 {
	if s.RecordsRead == 0 {
		return 0
	}
	return float64(s.RecordsExcluded) / float64(s.RecordsRead)
}

// Snapshot is a normalized, immutable input set for a year window.
type Snapshot struct {
	Flows []contracts.BilateralFlow
	Stats Stats
}

// Reader loads and normalizes flow snapshots from a local path or an
// http(s) URL.
type Reader struct {
	httpClient *httputil.Client
	// Raw values are reported in thousands of USD in the source data;
	// scale converts them to USD.
	scale  float64
	logger *logger.Logger
}

// NewReader creates a snapshot reader.
func NewReader(httpClient *httputil.Client, scale float64, log *logger.Logger) *Reader {
	return &Reader{
		httpClient: httpClient,
		scale:      scale,
		logger:     log,
	}
}

// Read loads every record with yearMin <= year <= yearMax from the snapshot
// at location. Records with unresolvable country codes are excluded and
// counted, not fatal here; the pipeline enforces the exclusion-rate
// threshold.
func (r *Reader) Read(ctx context.Context, location string, yearMin, yearMax int) (*Snapshot, error) {
	rc, err := r.open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	snapshot, err := r.parse(rc, yearMin, yearMax)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", location, err)
	}

	r.logger.WithFields(map[string]interface{}{
		"location": location,
		"years":    fmt.Sprintf("%d-%d", yearMin, yearMax),
		"read":     snapshot.Stats.RecordsRead,
		"excluded": snapshot.Stats.RecordsExcluded,
		"flows":    len(snapshot.Flows),
	}).Info("Snapshot ingested")

	return snapshot, nil
}

func (r *Reader) open(ctx context.Context, location string) (io.ReadCloser, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		resp, err := r.httpClient.Get(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("fetch snapshot: %w", err)
		}
		if resp.StatusCode != 200 {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch snapshot: unexpected status %d", resp.StatusCode)
		}
		return resp.Body, nil
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	return f, nil
}

// Column layout of the input snapshot.
const (
	colYear = iota
	colProduct
	colReporter
	colPartner
	colDirection
	colValue
	colCount
)

func (r *Reader) parse(src io.Reader, yearMin, yearMax int) (*Snapshot, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = colCount
	cr.ReuseRecord = true

	snapshot := &Snapshot{}

	header := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		// Tolerate an optional header line.
		if header {
			header = false
			if strings.EqualFold(strings.TrimSpace(rec[colYear]), "year") {
				continue
			}
		}

		year, err := strconv.Atoi(strings.TrimSpace(rec[colYear]))
		if err != nil {
			return nil, fmt.Errorf("bad year %q: %w", rec[colYear], err)
		}
		if year < yearMin || year > yearMax {
			continue
		}

		snapshot.Stats.RecordsRead++

		value, err := strconv.ParseFloat(strings.TrimSpace(rec[colValue]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q: %w", rec[colValue], err)
		}
		value *= r.scale

		direction, err := parseDirection(rec[colDirection])
		if err != nil {
			return nil, err
		}

		reporter, err := country.Normalize(rec[colReporter])
		if err != nil {
			snapshot.Stats.RecordsExcluded++
			snapshot.Stats.ExcludedValue += value
			continue
		}
		partner, err := country.Normalize(rec[colPartner])
		if err != nil {
			snapshot.Stats.RecordsExcluded++
			snapshot.Stats.ExcludedValue += value
			continue
		}

		snapshot.Flows = append(snapshot.Flows, contracts.BilateralFlow{
			Year:        year,
			ProductCode: PadHS6(rec[colProduct]),
			Reporter:    reporter,
			Partner:     partner,
			Direction:   direction,
			Value:       value,
		})
	}

	return snapshot, nil
}

func parseDirection(raw string) (contracts.FlowDirection, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "export", "exports", "x":
		return contracts.FlowExport, nil
	case "import", "imports", "m":
		return contracts.FlowImport, nil
	}
	return "", fmt.Errorf("unknown flow direction %q", raw)
}

// PadHS6 zero-pads a product code to the fixed 6-digit width. Codes arrive
// unpadded when upstream tooling parsed them as integers.
func PadHS6(code string) string {
	c := strings.TrimSpace(code)
	for len(c) < 6 {
		c = "0" + c
	}
	return c
}
