package feed

import (
	"testing"
	"time"
)

func TestReconnectDelay(t *testing.T) {
	p := ReconnectPolicy{Mode: ReconnectAlways, BaseDelay: time.Second, MaxDelay: 30 * time.Second}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 0},
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{5, 16 * time.Second},
		{6, 30 * time.Second},
		{50, 30 * time.Second},
	}
	for _, tt := range tests {
		if got := p.Delay(tt.attempt); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestReconnectDelayFlat(t *testing.T) {
	p := ReconnectPolicy{Mode: ReconnectAlways, BaseDelay: 5 * time.Second, MaxDelay: 5 * time.Second}
	for attempt := 1; attempt < 6; attempt++ {
		if got := p.Delay(attempt); got != 5*time.Second {
			t.Errorf("Delay(%d) = %v, want 5s", attempt, got)
		}
	}
}

func TestReconnectPolicyValidate(t *testing.T) {
	tests := []struct {
		name    string
		policy  ReconnectPolicy
		wantErr bool
	}{
		{"default", DefaultReconnectPolicy(), false},
		{"never", ReconnectPolicy{Mode: ReconnectNever}, false},
		{"unknown mode", ReconnectPolicy{Mode: "sometimes"}, true},
		{"negative", ReconnectPolicy{Mode: ReconnectAlways, BaseDelay: -time.Second}, true},
		{"max below base", ReconnectPolicy{Mode: ReconnectAlways, BaseDelay: 10 * time.Second, MaxDelay: time.Second}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEndpointFor(t *testing.T) {
	tests := []struct {
		base, target, want string
	}{
		{"", "shopxyz", "ws://localhost:8000/api/v1/ws/shopxyz"},
		{"wss://cms.example.com/api/v1/ws/", "alice", "wss://cms.example.com/api/v1/ws/alice"},
		{"ws://h/api/v1/ws", "a/b", "ws://h/api/v1/ws/a%2Fb"},
		{"ws://h/api/v1/ws", "@shop.vn", "ws://h/api/v1/ws/@shop.vn"},
	}
	for _, tt := range tests {
		if got := EndpointFor(tt.base, tt.target); got != tt.want {
			t.Errorf("EndpointFor(%q, %q) = %q, want %q", tt.base, tt.target, got, tt.want)
		}
	}
}

func TestStateString(t *testing.T) {
	want := map[State]string{
		Idle:       "idle",
		Connecting: "connecting",
		Open:       "open",
		Closed:     "closed",
		Errored:    "errored",
		State(99):  "unknown",
	}
	for s, w := range want {
		if s.String() != w {
			t.Errorf("State(%d).String() = %q, want %q", int(s), s.String(), w)
		}
	}
}
