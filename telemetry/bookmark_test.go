package telemetry

import (
	"testing"

	"github.com/pthm-cable/gridsoup/config"
)

func init() {
	config.MustInit("")
}

func newDetector() *BookmarkDetector {
	cfg := config.Cfg()
	return NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks)
}

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_KillSurge(t *testing.T) {
	bd := newDetector()

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 100), PreyCount: 10, PredCount: 10, Kills: 1})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 500, PreyCount: 10, PredCount: 10, Kills: 5})
	if !hasBookmark(bookmarks, BookmarkKillSurge) {
		t.Errorf("expected kill_surge bookmark, got %v", bookmarks)
	}
}

func TestBookmarkDetector_PreyCrash(t *testing.T) {
	bd := newDetector()

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 100), PreyCount: 10, PredCount: 10})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 500, PreyCount: 5, PredCount: 10})
	if !hasBookmark(bookmarks, BookmarkPreyCrash) {
		t.Errorf("expected prey_crash bookmark, got %v", bookmarks)
	}

	// Peak resets after a crash, so a flat window does not trigger again.
	bookmarks = bd.Check(WindowStats{WindowEndTick: 600, PreyCount: 5, PredCount: 10})
	if hasBookmark(bookmarks, BookmarkPreyCrash) {
		t.Error("prey_crash fired twice for the same drop")
	}
}

func TestBookmarkDetector_PredatorRecovery(t *testing.T) {
	bd := newDetector()

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 100), PreyCount: 10, PredCount: 2})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 300, PreyCount: 10, PredCount: 6})
	if !hasBookmark(bookmarks, BookmarkPredatorRecovery) {
		t.Errorf("expected predator_recovery bookmark, got %v", bookmarks)
	}
}

func TestBookmarkDetector_StableEcosystem(t *testing.T) {
	bd := newDetector()
	windows := config.Cfg().Bookmarks.StableEcosystem.StableWindows

	fired := 0
	for i := 0; i < 3*windows; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndTick: int32(i * 100), PreyCount: 8, PredCount: 5})
		if hasBookmark(bookmarks, BookmarkStableEcosystem) {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("stable_ecosystem fired %d times, want exactly 1", fired)
	}
}

func TestBookmarkDetector_Extinction(t *testing.T) {
	bd := newDetector()

	bd.Check(WindowStats{WindowEndTick: 100, PreyCount: 6, PredCount: 3})
	bookmarks := bd.Check(WindowStats{WindowEndTick: 200, PreyCount: 4, PredCount: 0})
	if !hasBookmark(bookmarks, BookmarkExtinction) {
		t.Fatalf("expected extinction bookmark, got %v", bookmarks)
	}

	bookmarks = bd.Check(WindowStats{WindowEndTick: 300, PreyCount: 4, PredCount: 0})
	if hasBookmark(bookmarks, BookmarkExtinction) {
		t.Error("extinction fired again while population stayed at zero")
	}
}
