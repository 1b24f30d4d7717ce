package reliability

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aristath/qvlens/internal/modules/comparison"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

// reportsPrefix is the bucket folder holding published reports
const reportsPrefix = "reports/"

// ObjectStore is the subset of R2Client the publisher needs
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64) error
	List(ctx context.Context, prefix string) ([]types.Object, error)
	Delete(ctx context.Context, key string) error
}

// ReportSource provides the reports to publish
type ReportSource interface {
	LatestReports() ([]*comparison.Report, error)
}

// ReportPublisher copies the latest comparison reports to object storage
// as reports/<election>/<report>.json for static dashboards
type ReportPublisher struct {
	store   ObjectStore
	reports ReportSource
	log     zerolog.Logger
}

// NewReportPublisher creates a new report publisher
func NewReportPublisher(store ObjectStore, reports ReportSource, log zerolog.Logger) *ReportPublisher {
	return &ReportPublisher{
		store:   store,
		reports: reports,
		log:     log.With().Str("service", "report_publisher").Logger(),
	}
}

// ReportKey returns the object key of a report
func ReportKey(report *comparison.Report) string {
	return path.Join("reports", report.ElectionID, report.ID+".json")
}

// PublishLatest uploads each election's latest report. Reports already in the
// bucket are skipped, so repeated runs upload nothing new.
func (p *ReportPublisher) PublishLatest(ctx context.Context) (int, error) {
	reports, err := p.reports.LatestReports()
	if err != nil {
		return 0, fmt.Errorf("failed to load reports: %w", err)
	}

	existing, err := p.store.List(ctx, reportsPrefix)
	if err != nil {
		return 0, err
	}
	published := make(map[string]bool, len(existing))
	for _, obj := range existing {
		if obj.Key != nil {
			published[*obj.Key] = true
		}
	}

	uploaded := 0
	for _, report := range reports {
		key := ReportKey(report)
		if published[key] {
			continue
		}

		data, err := json.Marshal(report)
		if err != nil {
			return uploaded, fmt.Errorf("failed to encode report %s: %w", report.ID, err)
		}
		if err := p.store.Upload(ctx, key, bytes.NewReader(data), int64(len(data))); err != nil {
			return uploaded, err
		}
		uploaded++
	}

	p.log.Info().Int("uploaded", uploaded).Int("reports", len(reports)).Msg("Published reports")
	return uploaded, nil
}

// Rotate keeps the newest keep published reports of each election and deletes older ones
func (p *ReportPublisher) Rotate(ctx context.Context, keep int) (int, error) {
	if keep < 1 {
		return 0, fmt.Errorf("keep must be at least 1, got %d", keep)
	}

	objects, err := p.store.List(ctx, reportsPrefix)
	if err != nil {
		return 0, err
	}

	byElection := make(map[string][]types.Object)
	for _, obj := range objects {
		if obj.Key == nil {
			continue
		}
		parts := strings.Split(strings.TrimPrefix(*obj.Key, reportsPrefix), "/")
		if len(parts) != 2 || !strings.HasSuffix(parts[1], ".json") {
			continue
		}
		byElection[parts[0]] = append(byElection[parts[0]], obj)
	}

	deleted := 0
	for electionID, objs := range byElection {
		if len(objs) <= keep {
			continue
		}

		sort.Slice(objs, func(i, j int) bool {
			return newerThan(objs[i], objs[j])
		})

		for _, obj := range objs[keep:] {
			if err := p.store.Delete(ctx, *obj.Key); err != nil {
				return deleted, err
			}
			deleted++
		}
		p.log.Debug().Str("election_id", electionID).Int("kept", keep).Msg("Rotated published reports")
	}

	if deleted > 0 {
		p.log.Info().Int("deleted", deleted).Msg("Deleted old published reports")
	}
	return deleted, nil
}

// newerThan orders by LastModified, newest first, falling back to key order
func newerThan(a, b types.Object) bool {
	if a.LastModified != nil && b.LastModified != nil && !a.LastModified.Equal(*b.LastModified) {
		return a.LastModified.After(*b.LastModified)
	}
	return *a.Key > *b.Key
}
