package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"babsa/app/annotation"
	"babsa/app/fileloader"
	"babsa/app/settings"
	"babsa/app/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, settingsYAML string) (*App, *settings.SettingsService) {
	t.Helper()
	svc := settings.NewSettingsServiceAt(filepath.Join(t.TempDir(), settings.FileName))
	if settingsYAML != "" {
		require.NoError(t, os.WriteFile(svc.Path(), []byte(settingsYAML), 0o644))
	}
	return NewApp(svc), svc
}

func writeData(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAppLoadAnnotateSave(t *testing.T) {
	a, svc := newTestApp(t, "watch_file_changes: false\ndefault_annotation_column: review\n")
	path := writeData(t, "reviews.csv", "id,review\n1,Fast delivery and cheap\n")

	require.NoError(t, a.loadFile(path))
	doc := a.GetDocument()
	require.NotNil(t, doc)
	assert.Equal(t, "Fast delivery and cheap", doc.Rows[0].TextToAnnotate)

	status := a.GetStatus()
	assert.Equal(t, "loaded", status.State)
	assert.Equal(t, "review", status.Column)
	assert.True(t, status.CanSave)

	res, err := a.AddAnnotation(AddAnnotationRequest{RowIndex: 0, Aspect: "delivery", Sentiment: "Positive"})
	require.NoError(t, err)
	assert.Len(t, res.Row.Annotations, 1)
	assert.Equal(t, "Annotation added. Total annotations for this row: 1", res.Status)

	res, err = a.AddAnnotation(AddAnnotationRequest{RowIndex: 0, Aspect: "price", Sentiment: "Positive"})
	require.NoError(t, err)
	priceID := res.Annotation.ID

	require.NoError(t, a.saveFile())
	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,review,AnnotatedAspect,AnnotatedSentiment\n1,Fast delivery and cheap,delivery; price,Positive; Positive\n", string(out))

	res, err = a.RemoveAnnotation(priceID)
	require.NoError(t, err)
	require.Len(t, res.Row.Annotations, 1)
	assert.Equal(t, "delivery", res.Row.Annotations[0].Aspect)

	recent, err := svc.GetRecentFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{path}, recent)
}

func TestAppLoadFailure(t *testing.T) {
	a, _ := newTestApp(t, "watch_file_changes: false\n")
	path := writeData(t, "notes.txt", "hello")

	err := a.loadFile(path)
	assert.ErrorIs(t, err, fileloader.ErrUnsupportedFormat)
	assert.Nil(t, a.GetDocument())
	assert.Equal(t, "load-failed", a.GetStatus().State)

	_, err = a.AddAnnotation(AddAnnotationRequest{RowIndex: 0, Aspect: "a", Sentiment: "b"})
	assert.ErrorIs(t, err, annotation.ErrNoDocument)
	assert.ErrorIs(t, a.SaveFile(), fileloader.ErrSaveTargetInvalid)
}

func TestAppSelectColumnAndClear(t *testing.T) {
	a, _ := newTestApp(t, "watch_file_changes: false\n")
	path := writeData(t, "reviews.csv", "id,review\n1,ok\n")
	require.NoError(t, a.loadFile(path))

	doc, err := a.SelectAnnotationColumn("review")
	require.NoError(t, err)
	assert.Equal(t, "ok", doc.Rows[0].TextToAnnotate)

	assert.False(t, a.CanAddAnnotation(AddAnnotationRequest{RowIndex: 0, Aspect: "", Sentiment: "Positive"}))
	assert.True(t, a.CanAddAnnotation(AddAnnotationRequest{RowIndex: 0, Aspect: "quality", Sentiment: "Positive"}))

	_, err = a.AddAnnotation(AddAnnotationRequest{RowIndex: 0, Aspect: "quality", Sentiment: "Positive"})
	require.NoError(t, err)
	res, err := a.ClearRowAnnotations(0)
	require.NoError(t, err)
	assert.Empty(t, res.Row.Annotations)

	_, err = a.RemoveAnnotation("ann_unknown")
	assert.ErrorIs(t, err, annotation.ErrAnnotationNotFound)
}

func TestAppSettingsIntegration(t *testing.T) {
	a, svc := newTestApp(t, "watch_file_changes: false\nsentiments: [Up, Down]\n")
	assert.Equal(t, []string{"Up", "Down"}, a.GetSentiments())

	require.Error(t, a.SaveWindowSize(100, 100))
	require.NoError(t, a.SaveWindowSize(1280, 900))
	w, h, err := a.GetSavedWindowSize()
	require.NoError(t, err)
	assert.Equal(t, 1280, w)
	assert.Equal(t, 900, h)

	svc.SetObserver(a)
	current, err := svc.GetSettings()
	require.NoError(t, err)
	current.DefaultAnnotationColumn = "review"
	require.NoError(t, svc.SaveSettings(current))

	path := writeData(t, "reviews.csv", "id,review\n1,ok\n")
	require.NoError(t, a.loadFile(path))
	assert.Equal(t, "review", a.GetStatus().Column)
}

type recordedEvent struct {
	name string
	data []any
}

// blockSaves swaps in a session whose saves wait for release, and records
// emitted events. It returns a func that starts a save and blocks until the
// session is busy.
func blockSaves(t *testing.T, a *App) (events *[]recordedEvent, startSave func(), release func()) {
	t.Helper()
	started := make(chan struct{}, 1)
	gate := make(chan struct{})
	save := func(ctx context.Context, doc *table.Document) error {
		started <- struct{}{}
		<-gate
		return fileloader.Save(ctx, doc)
	}
	a.session = annotation.NewSessionWithCodec(fileloader.Load, save)
	a.session.SetStatusListener(a.onStatus)

	var mu sync.Mutex
	recorded := []recordedEvent{}
	a.events = func(name string, data ...any) {
		mu.Lock()
		recorded = append(recorded, recordedEvent{name: name, data: data})
		mu.Unlock()
	}

	var wg sync.WaitGroup
	startSave = func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = a.session.Save(context.Background())
		}()
		<-started
	}
	var once sync.Once
	release = func() {
		once.Do(func() { close(gate) })
		wg.Wait()
	}
	t.Cleanup(release)
	return &recorded, startSave, release
}

func findEvent(events []recordedEvent, name string) (DocumentEvent, bool) {
	for _, e := range events {
		if e.name == name && len(e.data) == 1 {
			if ev, ok := e.data[0].(DocumentEvent); ok {
				return ev, true
			}
		}
	}
	return DocumentEvent{}, false
}

func TestAppRefusedLoadKeepsWatcher(t *testing.T) {
	a, _ := newTestApp(t, "")
	t.Cleanup(func() { a.Shutdown(context.Background()) })
	path := writeData(t, "reviews.csv", "id,review\n1,Great screen\n")
	other := writeData(t, "other.csv", "id\n1\n")

	_, startSave, release := blockSaves(t, a)
	require.NoError(t, a.loadFile(path))
	require.NotNil(t, a.watcher)
	abs, err := filepath.Abs(path)
	require.NoError(t, err)

	startSave()
	assert.ErrorIs(t, a.loadFile(other), annotation.ErrBusy)
	require.NotNil(t, a.watcher)
	assert.Equal(t, abs, a.watcher.Path())
	release()

	assert.Equal(t, path, a.session.Path())
}

func TestAppSaveWhileBusyReportsEvent(t *testing.T) {
	a, _ := newTestApp(t, "watch_file_changes: false\n")
	path := writeData(t, "reviews.csv", "id,review\n1,Great screen\n")

	events, startSave, release := blockSaves(t, a)
	require.NoError(t, a.loadFile(path))

	startSave()
	assert.ErrorIs(t, a.saveFile(), annotation.ErrBusy)
	release()

	ev, ok := findEvent(*events, EventDocumentSaved)
	require.True(t, ok)
	assert.Equal(t, path, ev.Path)
	assert.Equal(t, annotation.ErrBusy.Error(), ev.Error)
}
