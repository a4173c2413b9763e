package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/minhduc152001/tik-live-cms/internal/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "comments.db"))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func rec(target, text string, received time.Time) Record {
	return Record{
		SessionID: "s-" + target,
		Target:    target,
		Event: feed.Event{
			RoomID:            "room-1",
			MessageID:         "msg-" + text,
			SourceDisplayName: "Lan",
			SourceHandle:      "lan.vn",
			Text:              text,
			ReceivedAt:        received,
		},
	}
}

func TestInsertAndQuery(t *testing.T) {
	a := setupTestArchive(t)
	base := time.Date(2024, 11, 2, 20, 0, 0, 0, time.UTC)

	require.NoError(t, a.Insert([]Record{
		rec("shopxyz", "first", base),
		rec("shopxyz", "second", base.Add(time.Second)),
		rec("other", "elsewhere", base.Add(2*time.Second)),
	}))

	got, err := a.Query(context.Background(), "shopxyz", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Event.Text, "newest first")
	assert.Equal(t, "first", got[1].Event.Text)
	assert.Equal(t, "s-shopxyz", got[0].SessionID)
	assert.Equal(t, "lan.vn", got[0].Event.SourceHandle)
	assert.True(t, got[0].Event.ReceivedAt.Equal(base.Add(time.Second)))
	assert.True(t, got[0].Event.CreatedAt.IsZero())

	all, err := a.Query(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	n, err := a.Count(context.Background(), "other")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestQueryLimit(t *testing.T) {
	a := setupTestArchive(t)
	base := time.Now()
	var batch []Record
	for i := 0; i < 20; i++ {
		batch = append(batch, rec("shopxyz", fmt.Sprint(i), base.Add(time.Duration(i)*time.Millisecond)))
	}
	require.NoError(t, a.Insert(batch))

	got, err := a.Query(context.Background(), "shopxyz", 5)
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, "19", got[0].Event.Text)
}

func TestInsertEmpty(t *testing.T) {
	a := setupTestArchive(t)
	assert.NoError(t, a.Insert(nil))
}

func TestRecorderFlushesOnClose(t *testing.T) {
	a := setupTestArchive(t)
	r := NewRecorder(a, 100, time.Hour)

	s := feed.Session{ID: "abc", Target: "shopxyz"}
	for i := 0; i < 3; i++ {
		r.Record(s, feed.Event{Text: fmt.Sprint(i), ReceivedAt: time.Now()})
	}
	r.Close()
	r.Close()

	n, err := a.Count(context.Background(), "shopxyz")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Records after Close are ignored.
	r.Record(s, feed.Event{Text: "late"})
	n, err = a.Count(context.Background(), "shopxyz")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRecorderFlushesOnBatchSize(t *testing.T) {
	a := setupTestArchive(t)
	r := NewRecorder(a, 2, time.Hour)
	defer r.Close()

	s := feed.Session{ID: "abc", Target: "shopxyz"}
	r.Record(s, feed.Event{Text: "a", ReceivedAt: time.Now()})
	r.Record(s, feed.Event{Text: "b", ReceivedAt: time.Now()})

	assert.Eventually(t, func() bool {
		n, err := a.Count(context.Background(), "shopxyz")
		return err == nil && n == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRecorderFlushesOnInterval(t *testing.T) {
	a := setupTestArchive(t)
	r := NewRecorder(a, 100, 20*time.Millisecond)
	defer r.Close()

	r.Record(feed.Session{ID: "abc", Target: "shopxyz"}, feed.Event{Text: "a", ReceivedAt: time.Now()})

	assert.Eventually(t, func() bool {
		n, err := a.Count(context.Background(), "shopxyz")
		return err == nil && n == 1
	}, 2*time.Second, 10*time.Millisecond)
}
