package minio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/nexus-advisory/nexus-intelligence/pkg/errors"
)

type mockStore struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
	getErr  error
}

func newMockStore() *mockStore {
	return &mockStore{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (m *mockStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	data, ok := m.objects[key]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.ErrCodeNotFound, "object not found")
	}
	return data, nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.objects[key]
	return ok, nil
}

func (m *mockStore) PresignedURL(ctx context.Context, key string) (string, error) {
	return "https://minio.local/nexus-reports/" + key + "?sig=abc", nil
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "reports/case-0001.nsil", ObjectKey("case-0001"))
}

func TestStoreAndFetchRoundTrip(t *testing.T) {
	store := newMockStore()
	archive := newReportArchive(store, logging.NewNop())
	ctx := context.Background()

	ref, err := archive.Store(ctx, "case-0001", "<nsil:success/>")
	require.NoError(t, err)
	assert.Equal(t, "reports/case-0001.nsil", ref)
	assert.Equal(t, archiveContentType, store.types[ref])

	doc, err := archive.Fetch(ctx, "case-0001")
	require.NoError(t, err)
	assert.Equal(t, "<nsil:success/>", doc)

	exists, err := archive.Exists(ctx, "case-0001")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStoreRequiresCaseID(t *testing.T) {
	archive := newReportArchive(newMockStore(), logging.NewNop())

	_, err := archive.Store(context.Background(), "", "<nsil:success/>")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeValidation))
}

func TestStoreWrapsUploadFailure(t *testing.T) {
	store := newMockStore()
	store.putErr = assert.AnError
	archive := newReportArchive(store, logging.NewNop())

	_, err := archive.Store(context.Background(), "case-0001", "doc")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeReportArchiveFailed))
}

func TestFetchMissingReport(t *testing.T) {
	archive := newReportArchive(newMockStore(), logging.NewNop())

	_, err := archive.Fetch(context.Background(), "case-missing")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeReportNotFound))
}

func TestDownloadURL(t *testing.T) {
	store := newMockStore()
	archive := newReportArchive(store, logging.NewNop())
	ctx := context.Background()

	_, err := archive.Store(ctx, "case-0001", "doc")
	require.NoError(t, err)

	url, err := archive.DownloadURL(ctx, "case-0001")
	require.NoError(t, err)
	assert.Contains(t, url, "reports/case-0001.nsil")

	_, err = archive.DownloadURL(ctx, "case-missing")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeReportNotFound))
}
