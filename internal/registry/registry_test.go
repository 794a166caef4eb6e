package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/verte-zerg/fundus/internal/model"
	"github.com/verte-zerg/fundus/internal/store"
)

type fixture struct {
	svc     *Service
	uploads string
	dir     string
	logs    *observer.ObservedLogs
}

func newFixture(t *testing.T, password string) fixture {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "fundus.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	core, logs := observer.New(zapcore.InfoLevel)
	uploads := filepath.Join(dir, "uploads")
	svc := NewService(st, []string{"Jacke", "Trinkflasche", "Mütze"}, model.RegistryConfig{
		UploadsDir:    uploads,
		AdminPassword: password,
	}, zap.New(core))
	svc.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }
	return fixture{svc: svc, uploads: uploads, dir: dir, logs: logs}
}

func writePhoto(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("\xff\xd8fake-jpeg"), 0o644))
	return path
}

func TestReportCopiesImageAndMatchesCategory(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	photo := writePhoto(t, f.dir, "IMG_0001.JPG")

	item, err := f.svc.Report(ctx, Report{Category: "jacke", Location: " Turnhalle ", ImagePath: photo})
	require.NoError(t, err)
	require.Equal(t, "Jacke", item.Category)
	require.Equal(t, "Turnhalle", item.Location)
	require.Equal(t, filepath.Join(f.uploads, "item_20240506_070809.jpg"), item.ImagePath)

	data, err := os.ReadFile(item.ImagePath)
	require.NoError(t, err)
	require.Equal(t, "\xff\xd8fake-jpeg", string(data))

	// Same second: the copy gets a suffix instead of overwriting.
	second, err := f.svc.Report(ctx, Report{Category: "Jacke", ImagePath: photo})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(f.uploads, "item_20240506_070809_1.jpg"), second.ImagePath)

	items, err := f.svc.Search(ctx, "JACKE")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, second.ID, items[0].ID)
	require.Equal(t, 2, f.logs.FilterMessage("item reported").Len())
}

func TestReportRejectsUnknownCategoryAndImageType(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()

	_, err := f.svc.Report(ctx, Report{Category: "Fahrrad"})
	require.ErrorIs(t, err, ErrUnknownCategory)

	doc := writePhoto(t, f.dir, "notes.pdf")
	_, err = f.svc.Report(ctx, Report{Category: "Mütze", ImagePath: doc})
	require.Error(t, err)

	_, err = f.svc.Search(ctx, "Fahrrad")
	require.ErrorIs(t, err, ErrUnknownCategory)

	items, err := f.svc.Search(ctx, "")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestRemoveDeletesRowAndImage(t *testing.T) {
	f := newFixture(t, "schule123")
	ctx := context.Background()
	photo := writePhoto(t, f.dir, "bottle.png")

	item, err := f.svc.Report(ctx, Report{Category: "Trinkflasche", ImagePath: photo})
	require.NoError(t, err)

	_, err = f.svc.Remove(ctx, item.ID, "wrong")
	require.ErrorIs(t, err, ErrForbidden)
	require.Equal(t, 1, f.logs.FilterMessage("remove rejected").Len())

	removed, err := f.svc.Remove(ctx, item.ID, "schule123")
	require.NoError(t, err)
	require.Equal(t, item.ID, removed.ID)
	_, err = os.Stat(item.ImagePath)
	require.True(t, os.IsNotExist(err))

	_, err = f.svc.Remove(ctx, item.ID, "schule123")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveRefusedWithoutAdminPassword(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	item, err := f.svc.Report(ctx, Report{Category: "Jacke"})
	require.NoError(t, err)

	_, err = f.svc.Remove(ctx, item.ID, "")
	require.ErrorIs(t, err, ErrNoAdminPassword)

	items, err := f.svc.Search(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestCountsIncludesEmptyCategories(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	_, err := f.svc.Report(ctx, Report{Category: "Mütze"})
	require.NoError(t, err)
	_, err = f.svc.Report(ctx, Report{Category: "Mütze"})
	require.NoError(t, err)

	counts, err := f.svc.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, []model.CategoryCount{
		{Category: "Jacke", Count: 0},
		{Category: "Trinkflasche", Count: 0},
		{Category: "Mütze", Count: 2},
	}, counts)
}
