// AngelaMos | 2026
// repository_test.go

package activity

import (
	"context"
	"testing"
	"time"

	"github.com/carterperez-dev/yassaka/internal/session"
	"github.com/carterperez-dev/yassaka/internal/storetest"
)

func TestRepository_KindsAreSeparate(t *testing.T) {
	db := storetest.Open(t, Meetings.Table(), Contacts.Table())
	ctx := context.Background()
	meetings := NewRepository(db, Meetings)
	contacts := NewRepository(db, Contacts)

	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	for _, owner := range []string{"a", "b"} {
		rec := &Record{Owner: owner, Date: day, Client: "c", Responsible: "r"}
		if err := meetings.Insert(ctx, rec); err != nil {
			t.Fatalf("insert meeting: %v", err)
		}
	}
	if err := contacts.Insert(ctx, &Record{Owner: "a", Date: day, Client: "c", Responsible: "r"}); err != nil {
		t.Fatalf("insert contact: %v", err)
	}

	if n, _ := meetings.Count(ctx); n != 2 {
		t.Errorf("meetings = %d", n)
	}
	if n, _ := contacts.Count(ctx); n != 1 {
		t.Errorf("contacts = %d", n)
	}

	mine, err := meetings.ListVisible(ctx, session.OwnerScope("a"), 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 1 || mine[0].Owner != "a" || !mine[0].Date.Equal(day) {
		t.Errorf("owner scope = %+v", mine)
	}
}
