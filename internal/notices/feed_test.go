package notices

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jravahfoods/storefront/internal/cart"
	"github.com/jravahfoods/storefront/pkg/enums"
	"github.com/jravahfoods/storefront/pkg/logger"
	"github.com/rs/zerolog"
)

func TestFeedTracksCountAndLatestNotice(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	feed := NewFeed()
	n := feed.For("s1")

	n.CountChanged(ctx, 3)
	n.Notify(ctx, cart.Notice{Kind: enums.NoticeKindAdd, Message: "Added Gavvalu 1kg to cart!", ExpiresAt: now.Add(time.Second)})
	n.Notify(ctx, cart.Notice{Kind: enums.NoticeKindRemove, Message: "Item removed from cart", ExpiresAt: now.Add(time.Second)})

	if got := feed.Count("s1"); got != 3 {
		t.Fatalf("count = %d", got)
	}
	if got := feed.Count("other"); got != 0 {
		t.Fatalf("unknown session count = %d", got)
	}

	pending := feed.Pending("s1", now.Add(500*time.Millisecond))
	if len(pending) != 1 || pending[0].Kind != enums.NoticeKindRemove {
		t.Fatalf("pending = %+v", pending)
	}

	if expired := feed.Pending("s1", now.Add(time.Second)); len(expired) != 0 {
		t.Fatalf("expected expiry, got %+v", expired)
	}
	if again := feed.Pending("s1", now); len(again) != 0 {
		t.Fatalf("expired notice came back: %+v", again)
	}
}

func TestForget(t *testing.T) {
	feed := NewFeed()
	feed.For("s1").CountChanged(context.Background(), 2)
	feed.Forget("s1")
	if got := feed.Count("s1"); got != 0 {
		t.Fatalf("count after forget = %d", got)
	}
}

func TestMultiAndLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &buf})
	feed := NewFeed()

	m := Multi{feed.For("s1"), LogNotifier{Logger: logg}}
	m.CountChanged(context.Background(), 4)
	m.Notify(context.Background(), cart.Notice{Kind: enums.NoticeKindAdd, Message: "hello", ExpiresAt: time.Now().Add(time.Hour)})

	if feed.Count("s1") != 4 {
		t.Fatalf("count not forwarded")
	}
	out := buf.String()
	if !strings.Contains(out, `"notice_kind":"add"`) || !strings.Contains(out, `"notice_message":"hello"`) {
		t.Fatalf("log output = %s", out)
	}
}
