package httpadapter

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/dkoval/findoc-scanner/internal/core/domain"
	"github.com/dkoval/findoc-scanner/internal/observability/metrics"
)

// Shared fakes for the router tests.

type fakeUploader struct {
	lastFileName string
	lastSize     int64
	doc          *domain.Document
	err          error
}

func (f *fakeUploader) Upload(_ context.Context, _ domain.Actor, fileName string, sizeBytes int64, body io.Reader) (*domain.Document, error) {
	f.lastFileName = fileName
	f.lastSize = sizeBytes
	if body != nil {
		_, _ = io.Copy(io.Discard, body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

type fakeAnalyzer struct {
	lastDocumentID string
	lastQuery      string
	result         *domain.AnalysisResult
	err            error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ domain.Actor, documentID, query string) (*domain.AnalysisResult, error) {
	f.lastDocumentID = documentID
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeDeleter struct {
	lastIDs []string
	report  *domain.BulkDeleteReport
	err     error
}

func (f *fakeDeleter) Delete(_ context.Context, _ domain.Actor, documentIDs []string) (*domain.BulkDeleteReport, error) {
	f.lastIDs = documentIDs
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

type fakeViews struct {
	docs    []domain.Document
	doc     *domain.Document
	results []domain.AnalysisResult
	view    *domain.AggregatedView
	stats   *domain.OwnerStats
	err     error
}

func (f *fakeViews) ListForOwner(context.Context, domain.Actor, string) ([]domain.Document, error) {
	return f.docs, f.err
}

func (f *fakeViews) GetDocument(context.Context, domain.Actor, string) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

func (f *fakeViews) ResultsForDocument(context.Context, domain.Actor, string) ([]domain.AnalysisResult, error) {
	return f.results, f.err
}

func (f *fakeViews) AggregateForDocument(context.Context, domain.Actor, string) (*domain.AggregatedView, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.view, nil
}

func (f *fakeViews) AggregateForOwner(context.Context, domain.Actor, string) (*domain.AggregatedView, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.view, nil
}

func (f *fakeViews) StatsForOwner(context.Context, domain.Actor, string) (*domain.OwnerStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

type fakeSelection struct {
	mu       sync.Mutex
	selected map[string]map[string]struct{}
}

func newFakeSelection() *fakeSelection {
	return &fakeSelection{selected: make(map[string]map[string]struct{})}
}

func (f *fakeSelection) Toggle(ownerID, documentID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.selected[ownerID]
	if !ok {
		set = make(map[string]struct{})
		f.selected[ownerID] = set
	}
	if _, ok := set[documentID]; ok {
		delete(set, documentID)
		return false
	}
	set[documentID] = struct{}{}
	return true
}

func (f *fakeSelection) SelectAll(ownerID string, documentIDs []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set := make(map[string]struct{}, len(documentIDs))
	for _, id := range documentIDs {
		set[id] = struct{}{}
	}
	f.selected[ownerID] = set
}

func (f *fakeSelection) Clear(ownerID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.selected, ownerID)
}

func (f *fakeSelection) Selected(ownerID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.selected[ownerID]))
	for id := range f.selected[ownerID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (f *fakeSelection) Reset(ownerID string) { f.Clear(ownerID) }

type routerFixture struct {
	uploader  *fakeUploader
	analyzer  *fakeAnalyzer
	deleter   *fakeDeleter
	views     *fakeViews
	selection *fakeSelection
}

func newTestHandler(cfg RouterConfig) (http.Handler, *routerFixture) {
	fixture := &routerFixture{
		uploader:  &fakeUploader{},
		analyzer:  &fakeAnalyzer{},
		deleter:   &fakeDeleter{},
		views:     &fakeViews{},
		selection: newFakeSelection(),
	}
	router := NewRouter(
		fixture.uploader,
		fixture.analyzer,
		fixture.deleter,
		fixture.views,
		fixture.selection,
		metrics.NewHTTPServerMetrics("api"),
		cfg,
	)
	return router.Handler(), fixture
}

func notFoundErr() error {
	return domain.WrapError(domain.ErrNotFound, "get document", errors.New("no rows"))
}

var errNotAllowed = errors.New("file format not allowed")

var testTime = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
