package playback

import "testing"

func TestNormalizeTimecode(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"1:2:3", "01:02:03:00", true},
		{"01:02:03:05", "01:02:03:05", true},
		{" 10:00:00:24 ", "10:00:00:24", true},
		{"bad", "", false},
		{"", "", false},
		{"1:2", "", false},
		{"1:2:3:4:5", "", false},
		{"100:00:00", "", false},
		{"aa:00:00", "", false},
		{"-1:00:00", "", false},
		{"01::00:00", "", false},
		{"*:00:00:00", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizeTimecode(tt.raw)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("NormalizeTimecode(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMatchTimecode(t *testing.T) {
	tests := []struct {
		trigger string
		code    string
		want    bool
	}{
		{"01:00:00:00", "01:00:00:00", true},
		{"1:0:0", "01:00:00:00", true},
		{"01:00:00:00", "01:00:00:01", false},
		{"*:00:00:*", "03:00:00:07", true},
		{"*:00:00:*", "09:00:00:00", true},
		{"*:00:00:*", "03:01:00:00", false},
		{"*:*:*:*", "23:59:59:29", true},
		{"*:30:00", "02:30:00:00", true},
		{"*:30:00", "02:30:00:01", false},
		{"garbage", "01:00:00:00", false},
		{"01:00:00:00", "garbage", false},
	}
	for _, tt := range tests {
		t.Run(tt.trigger+"/"+tt.code, func(t *testing.T) {
			if got := MatchTimecode(tt.trigger, tt.code); got != tt.want {
				t.Errorf("MatchTimecode(%q, %q) = %v, want %v", tt.trigger, tt.code, got, tt.want)
			}
		})
	}
}
