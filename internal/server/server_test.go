package server

import "testing"

func TestSkipRateLimit(t *testing.T) {
	cases := []struct {
		path string
		skip bool
	}{
		{"/healthz", true},
		{"/healthz/ready", true},
		{"/api/articles/1b4e28ba-2fa1-11d2-883f-0016d3cca427/progress", true},
		{"/api/analytics/track/view", true},
		{"/api/analytics/track/engagement", true},
		{"/api/admin/analytics/realtime", true},
		{"/api/articles", false},
		{"/api/search", false},
		{"/api/admin/analytics/dashboard", false},
	}

	for _, tc := range cases {
		if got := skipRateLimit(tc.path); got != tc.skip {
			t.Errorf("skipRateLimit(%q) = %v, want %v", tc.path, got, tc.skip)
		}
	}
}
