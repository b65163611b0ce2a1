package minio

import (
	"context"
	"path"

	"github.com/nexus-advisory/nexus-intelligence/internal/application/intelligence"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nexus-advisory/nexus-intelligence/pkg/errors"
)

const (
	archivePrefix      = "reports"
	archiveContentType = "application/xml"
)

// objectStore is the storage surface the archive uses. *Client
// implements it.
type objectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	PresignedURL(ctx context.Context, key string) (string, error)
}

// ReportArchive persists rendered NSIL documents in object storage.
// It satisfies the intelligence service's archive interface.
type ReportArchive struct {
	store  objectStore
	logger logging.Logger
}

// NewReportArchive builds the object-storage-backed report archive.
func NewReportArchive(client *Client, log logging.Logger) *ReportArchive {
	return newReportArchive(client, log)
}

func newReportArchive(store objectStore, log logging.Logger) *ReportArchive {
	return &ReportArchive{store: store, logger: log.Named("report-archive")}
}

var _ intelligence.ReportArchive = (*ReportArchive)(nil)

// ObjectKey returns the archive key for a case.
func ObjectKey(caseID string) string {
	return path.Join(archivePrefix, caseID+".nsil")
}

// Store writes the document and returns its object key as the archive
// reference.
func (a *ReportArchive) Store(ctx context.Context, caseID string, doc string) (string, error) {
	if caseID == "" {
		return "", errors.New(errors.ErrCodeValidation, "case id is required")
	}
	key := ObjectKey(caseID)
	if err := a.store.Put(ctx, key, []byte(doc), archiveContentType); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeReportArchiveFailed, "failed to archive report")
	}
	a.logger.Debug("Report archived", logging.String("key", key))
	return key, nil
}

// Fetch retrieves an archived document by case id.
func (a *ReportArchive) Fetch(ctx context.Context, caseID string) (string, error) {
	data, err := a.store.Get(ctx, ObjectKey(caseID))
	if err != nil {
		if errors.IsNotFound(err) {
			return "", errors.New(errors.ErrCodeReportNotFound, "archived report not found")
		}
		return "", err
	}
	return string(data), nil
}

// Exists reports whether a case has an archived document.
func (a *ReportArchive) Exists(ctx context.Context, caseID string) (bool, error) {
	return a.store.Exists(ctx, ObjectKey(caseID))
}

// DownloadURL returns a presigned URL for an archived document.
func (a *ReportArchive) DownloadURL(ctx context.Context, caseID string) (string, error) {
	exists, err := a.store.Exists(ctx, ObjectKey(caseID))
	if err != nil {
		return "", err
	}
	if !exists {
		return "", errors.New(errors.ErrCodeReportNotFound, "archived report not found")
	}
	return a.store.PresignedURL(ctx, ObjectKey(caseID))
}
