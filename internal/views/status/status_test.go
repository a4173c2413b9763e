package status

import (
	"strings"
	"testing"

	"github.com/minhduc152001/tik-live-cms/internal/feed"
)

func TestView(t *testing.T) {
	tests := []struct {
		name  string
		model Model
		want  []string
	}{
		{
			name:  "idle",
			model: Model{},
			want:  []string{"Not connected", "0 comments"},
		},
		{
			name: "live with drops",
			model: Model{
				Session: feed.Session{Target: "shopxyz", State: feed.Open},
				Events:  12,
				Dropped: 2,
			},
			want: []string{"Live: shopxyz", "12 comments", "2 dropped"},
		},
		{
			name: "retrying",
			model: Model{
				Session:  feed.Session{Target: "shopxyz", State: feed.Connecting, Attempts: 4},
				Archived: true,
				User:     "admin@shop.vn",
			},
			want: []string{"Connecting / retrying", "archiving", "admin@shop.vn"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.model.Width = 120
			v := tt.model.View()
			for _, w := range tt.want {
				if !strings.Contains(v, w) {
					t.Errorf("view missing %q:\n%s", w, v)
				}
			}
		})
	}
}
