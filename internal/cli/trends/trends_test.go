package trends

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/moodlit/internal/analytics"
	"github.com/julianstephens/moodlit/internal/cli"
	"github.com/julianstephens/moodlit/internal/constants"
	"github.com/julianstephens/moodlit/internal/models"
	"github.com/julianstephens/moodlit/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) *cli.Context {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := cli.NewContext(store, time.UTC, nil)
	if err := ctx.Load(); err != nil {
		t.Fatalf("failed to load context: %v", err)
	}
	return ctx
}

func seed(t *testing.T, ctx *cli.Context, days int) {
	t.Helper()
	today := ctx.Today()
	moods := []models.MoodType{models.MoodGreat, models.MoodGood, models.MoodOkay, models.MoodBad}
	for i := 1; i <= days; i++ {
		date := today.AddDate(0, 0, -i).Format(constants.DateFormat)
		if _, err := ctx.Entries.SaveForDate(moods[i%len(moods)], date, ""); err != nil {
			t.Fatal(err)
		}
	}
}

func TestAllowedRange(t *testing.T) {
	ctx := setupTestDB(t)

	for _, s := range []string{"week", "month"} {
		if _, err := allowedRange(ctx, s); err != nil {
			t.Errorf("%s should be allowed without Pro: %v", s, err)
		}
	}
	if _, err := allowedRange(ctx, "year"); err == nil {
		t.Error("year should require Pro")
	}
	if _, err := allowedRange(ctx, "decade"); err == nil {
		t.Error("expected error for unknown range")
	}

	if err := ctx.Gate.Set(true); err != nil {
		t.Fatal(err)
	}
	r, err := allowedRange(ctx, "year")
	if err != nil {
		t.Fatalf("year should be allowed with Pro: %v", err)
	}
	if r != constants.RangeYear {
		t.Errorf("range = %q, want year", r)
	}
}

func TestStatsCmd(t *testing.T) {
	ctx := setupTestDB(t)

	if err := (&StatsCmd{Range: "week"}).Run(ctx); err != nil {
		t.Errorf("stats on empty store failed: %v", err)
	}

	seed(t, ctx, 10)
	if err := (&StatsCmd{Range: "month"}).Run(ctx); err != nil {
		t.Errorf("stats failed: %v", err)
	}
	if err := (&StatsCmd{Range: "year"}).Run(ctx); err == nil {
		t.Error("yearly stats should require Pro")
	}

	if err := ctx.Gate.Set(true); err != nil {
		t.Fatal(err)
	}
	if err := (&StatsCmd{Range: "year"}).Run(ctx); err != nil {
		t.Errorf("stats with Pro failed: %v", err)
	}
}

func TestChartCmd(t *testing.T) {
	ctx := setupTestDB(t)
	seed(t, ctx, 5)

	if err := (&ChartCmd{Range: "week"}).Run(ctx); err != nil {
		t.Errorf("chart failed: %v", err)
	}
	if err := (&ChartCmd{Range: "month", Offset: -2}).Run(ctx); err != nil {
		t.Errorf("chart with offset failed: %v", err)
	}
	if err := (&ChartCmd{Range: "week", Offset: 1}).Run(ctx); !errors.Is(err, analytics.ErrFutureOffset) {
		t.Errorf("future offset err = %v, want ErrFutureOffset", err)
	}
}

func TestInsightsCmd(t *testing.T) {
	ctx := setupTestDB(t)

	if err := (&InsightsCmd{}).Run(ctx); err == nil {
		t.Error("insights should require Pro")
	}

	if err := ctx.Gate.Set(true); err != nil {
		t.Fatal(err)
	}
	if err := (&InsightsCmd{}).Run(ctx); err != nil {
		t.Errorf("insights with too few entries failed: %v", err)
	}
	seed(t, ctx, 7)
	if err := (&InsightsCmd{}).Run(ctx); err != nil {
		t.Errorf("insights failed: %v", err)
	}
}

func TestRenderPoint(t *testing.T) {
	empty := RenderPoint(analytics.ChartPoint{Label: "Mon"})
	if !strings.HasPrefix(empty, "Mon ") || strings.Contains(empty, "█") {
		t.Errorf("empty point rendered as %q", empty)
	}

	v := 4.2
	got := RenderPoint(analytics.ChartPoint{Label: "Tue", Value: &v, Count: 2})
	if !strings.Contains(got, "🙂") {
		t.Errorf("expected the Good emoji in %q", got)
	}
	if !strings.HasSuffix(got, "4.2") {
		t.Errorf("expected the value at the end of %q", got)
	}
	if n := strings.Count(got, "█"); n != 17 {
		t.Errorf("bar has %d cells, want 17", n)
	}
}
