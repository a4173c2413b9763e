// Package mockfeed generates fake live-selling comments for every target that
// has subscribers.
package mockfeed

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/minhduc152001/tik-live-cms/internal/feed"
)

// Publisher is the part of hub.Hub the generator drives.
type Publisher interface {
	Targets() []string
	Publish(target string, ev feed.Event) int
	PublishRaw(target string, data []byte) int
	CloseRoom(target string) int
}

type Options struct {
	Interval time.Duration
	// CloseEvery drops every room each N ticks so clients exercise reconnect.
	CloseEvery int
	// MalformedEvery sends an undecodable frame each N ticks.
	MalformedEvery int
	Seed           int64
}

type viewer struct {
	userID string
	handle string
	name   string
}

var cast = []viewer{
	{userID: "7301001", handle: "lan.nguyen98", name: "Lan Nguyễn"},
	{userID: "7301002", handle: "minhthu_shop", name: "Minh Thư"},
	{userID: "7301003", handle: "hoangnam.hn", name: "Hoàng Nam"},
	{userID: "7301004", handle: "be.bong.92", name: "Bé Bông"},
	{userID: "7301005", handle: "tuananh_dn", name: "Tuấn Anh"},
	{userID: "7301006", handle: "maimai.sg", name: "Mai Mai"},
	{userID: "7301007", handle: "quanghuy.official", name: "Quang Huy"},
	{userID: "7301008", handle: "ngoc.tram", name: "Ngọc Trâm"},
}

var lines = []string{
	"chốt đơn 1 cái nha shop",
	"size M còn không ạ",
	"giá bao nhiêu vậy shop",
	"ship Đà Nẵng mấy ngày?",
	"lấy 2 màu đen",
	"shop ơi inbox em với",
	"còn màu trắng không",
	"đẹp quá",
	"có freeship không shop",
	"chốt 3",
	"mã giảm giá nhập ở đâu vậy",
	"hi",
}

// malformedFrame is a truncated comment payload.
var malformedFrame = []byte(`{"customer_name":"Lan","comment":`)

// Generator emits comments on a ticker.
type Generator struct {
	pub  Publisher
	opts Options
	rng  *rand.Rand
	tick int
	now  func() time.Time
}

func NewGenerator(pub Publisher, opts Options) *Generator {
	if opts.Interval <= 0 {
		opts.Interval = 750 * time.Millisecond
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		pub:  pub,
		opts: opts,
		rng:  rand.New(rand.NewSource(seed)),
		now:  time.Now,
	}
}

// Start runs the generator until ctx is cancelled.
func (g *Generator) Start(ctx context.Context) {
	go g.run(ctx)
}

func (g *Generator) run(ctx context.Context) {
	ticker := time.NewTicker(g.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.Tick()
		}
	}
}

// Tick advances the generator one step and returns how many frames were sent.
func (g *Generator) Tick() int {
	g.tick++
	sent := 0
	for _, target := range g.pub.Targets() {
		switch {
		case g.opts.CloseEvery > 0 && g.tick%g.opts.CloseEvery == 0:
			g.pub.CloseRoom(target)
		case g.opts.MalformedEvery > 0 && g.tick%g.opts.MalformedEvery == 0:
			sent += g.pub.PublishRaw(target, malformedFrame)
		default:
			sent += g.pub.Publish(target, g.Comment(target))
		}
	}
	return sent
}

// Comment builds one fake comment for target.
func (g *Generator) Comment(target string) feed.Event {
	v := cast[g.rng.Intn(len(cast))]
	return feed.Event{
		RoomID:            "room-" + target,
		MessageID:         uuid.NewString(),
		LiveOwnerID:       target,
		SourceUserID:      v.userID,
		SourceHandle:      v.handle,
		SourceDisplayName: v.name,
		AvatarURL:         "https://i.pravatar.cc/80?u=" + v.handle,
		Text:              lines[g.rng.Intn(len(lines))],
		CreatedAt:         g.now().UTC(),
	}
}
