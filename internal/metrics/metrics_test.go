package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Init fires at most once per process, so the before/after behavior of the
// observer helpers has to be exercised as one ordered test.
func TestCollectorLifecycle(t *testing.T) {
	// Observer helpers are called from packages whose tests never run
	// Init; with nil collectors they must be no-ops.
	recordOneOfEach()

	// Init registers against the default registry; calling it twice must be
	// a no-op rather than a duplicate-registration panic.
	Init()
	Init()

	if archivePostsTotal == nil {
		t.Fatal("collectors not initialized")
	}

	recordOneOfEach()

	if got := testutil.ToFloat64(archivePostsTotal.WithLabelValues("scraped")); got != 1 {
		t.Fatalf("archive_posts_total{result=scraped} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(archiveFetchBytesTotal); got != 1024 {
		t.Fatalf("archive_fetch_bytes_total = %v, want 1024", got)
	}
	if got := testutil.ToFloat64(archiveCheckpointFlushes); got != 1 {
		t.Fatalf("archive_checkpoint_flushes_total = %v, want 1", got)
	}
}

func recordOneOfEach() {
	ObservePost("scraped")
	ObserveSitemap("ok")
	ObserveFetch(1024, 200*time.Millisecond)
	ObserveCheckpointFlush()
	ObserveRateLimitDelay(10 * time.Millisecond)
}
