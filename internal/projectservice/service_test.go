package projectservice

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/ganttview/internal/apperr"
	"github.com/starford/ganttview/internal/catalog"
	"github.com/starford/ganttview/internal/gantt"
	"github.com/starford/ganttview/internal/msproject"
	"github.com/starford/ganttview/internal/testutil"
)

func testService(t *testing.T) (*Service, string) {
	t.Helper()
	dir, store := testutil.TestLibrary(t)
	db := testutil.TestDB(t)
	testutil.WriteSample(t, dir, "plans/warehouse.xml")
	require.NoError(t, catalog.Sync(db, store, slog.Default()))

	settings := DefaultSettings()
	settings.MaxBytes = 64 << 10
	settings.Now = func() time.Time { return time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC) }
	return NewService(store, db, settings), dir
}

func TestListProjects(t *testing.T) {
	svc, _ := testService(t)
	items, total, err := svc.ListProjects(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "plans/warehouse.xml", items[0].Path)
	assert.Equal(t, 11, items[0].TaskCount)
}

func TestGetProject(t *testing.T) {
	svc, _ := testService(t)
	d, err := svc.GetProject(context.Background(), "plans/warehouse.xml", gantt.NewUIDSet("2", "6"))
	require.NoError(t, err)

	assert.Equal(t, "Warehouse Rollout", d.Name)
	assert.Equal(t, 11, d.TaskCount)
	assert.Equal(t, []string{"2", "6"}, d.Collapsed)
	assert.Empty(t, d.OutlineWarning)
	require.Len(t, d.Tasks, 6)

	planning := d.Tasks[1]
	assert.Equal(t, "2", planning.UID)
	assert.True(t, planning.HasChildren)
	assert.True(t, planning.Collapsed)
	assert.Equal(t, "27/10/2025", planning.StartLabel)
	assert.Equal(t, "07/11/2025", planning.FinishLabel)

	training := d.Tasks[4]
	assert.Equal(t, "Staff training", training.Name)
	assert.False(t, training.HasChildren)
}

func TestGetProject_Errors(t *testing.T) {
	svc, dir := testService(t)
	ctx := context.Background()

	_, err := svc.GetProject(ctx, "missing.xml", nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.GetProject(ctx, "../outside.xml", nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.GetProject(ctx, "notes.txt", nil)
	assert.ErrorIs(t, err, apperr.ErrUnsupportedFile)

	testutil.WriteFile(t, dir, "broken.xml", "<Project><Tasks>")
	_, err = svc.GetProject(ctx, "broken.xml", nil)
	var perr *msproject.ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestRenderChart(t *testing.T) {
	svc, _ := testService(t)
	var buf bytes.Buffer
	err := svc.RenderChart(context.Background(), "plans/warehouse.xml", ChartRequest{
		Collapsed: gantt.NewUIDSet("6"),
		Mode:      gantt.ModeDay,
	}, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<svg")
	assert.NotContains(t, buf.String(), "Racking<")
}

func TestChart_RequestOverridesScale(t *testing.T) {
	svc, _ := testService(t)
	v, err := svc.Chart(context.Background(), "plans/warehouse.xml", ChartRequest{PixelsPerDay: 10})
	require.NoError(t, err)
	assert.Equal(t, 10.0, v.Chart.Options.PixelsPerDay)
	assert.Equal(t, gantt.DefaultOptions().Mode, v.Chart.Options.Mode)
}

func TestSearchTasks(t *testing.T) {
	svc, _ := testService(t)
	hits, err := svc.SearchTasks(context.Background(), "Scanner", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "8", hits[0].UID)

	_, err = svc.SearchTasks(context.Background(), "  ", 10)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestAccepts(t *testing.T) {
	assert.True(t, Accepts("plan.XML", ""))
	assert.True(t, Accepts("export", "text/xml; charset=utf-8"))
	assert.True(t, Accepts("export.bin", "application/xml"))
	assert.False(t, Accepts("plan.mpp", "application/octet-stream"))
	assert.False(t, Accepts("plan", "not a media type"))
}

func TestUploadAndSession(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	res, err := svc.Upload(ctx, "dir/upload.xml", "", []byte(msproject.Sample))
	require.NoError(t, err)
	assert.Equal(t, "upload.xml", res.FileName)
	assert.Equal(t, 11, res.TaskCount)
	assert.Equal(t, 1, svc.SessionCount())

	d, err := svc.SessionDetail(ctx, res.ID, gantt.NewUIDSet("1"))
	require.NoError(t, err)
	assert.Equal(t, res.ID, d.SessionID)
	assert.Len(t, d.Tasks, 1)

	var buf bytes.Buffer
	require.NoError(t, svc.RenderSession(ctx, res.ID, ChartRequest{}, &buf))
	assert.Contains(t, buf.String(), "Warehouse Rollout")
}

func TestUpload_CallsHook(t *testing.T) {
	var got []UploadResult
	settings := DefaultSettings()
	settings.OnUpload = func(r UploadResult) { got = append(got, r) }
	svc := NewService(nil, nil, settings)

	res, err := svc.Upload(context.Background(), "plan.xml", "", []byte(msproject.Sample))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, res.ID, got[0].ID)
}

func TestUpload_Rejects(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "plan.mpp", "application/octet-stream", []byte("x"))
	assert.ErrorIs(t, err, apperr.ErrUnsupportedFile)

	_, err = svc.Upload(ctx, "plan.xml", "", nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Upload(ctx, "plan.xml", "", bytes.Repeat([]byte("a"), 64<<10+1))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Upload(ctx, "plan.xml", "", []byte("<Other/>"))
	assert.ErrorIs(t, err, msproject.ErrNotProject)
	assert.Zero(t, svc.SessionCount())
}

func TestSession_UnknownID(t *testing.T) {
	svc, _ := testService(t)
	_, err := svc.Session(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.Session(context.Background(), "6f1c7d1e-8f0a-4a43-9d59-5a5f9f8a1c11")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
