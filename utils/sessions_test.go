package utils_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"internmatch/utils"
)

func TestGetIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{
			name:       "RemoteAddr without forwarding header",
			remoteAddr: "192.168.1.1:12345",
			want:       "192.168.1.1",
		},
		{
			name:       "First X-Forwarded-For hop wins",
			remoteAddr: "10.0.0.1:80",
			forwarded:  " 203.0.113.7 , 10.0.0.2, 10.0.0.3",
			want:       "203.0.113.7",
		},
		{
			name:       "IPv6 RemoteAddr",
			remoteAddr: "[::1]:8080",
			want:       "::1",
		},
		{
			name:       "RemoteAddr without port is returned as is",
			remoteAddr: "unix-socket",
			want:       "unix-socket",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := utils.GetIP(r); got != tt.want {
				t.Errorf("GetIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCookieExists(t *testing.T) {
	tests := []struct {
		name   string
		cookie *http.Cookie
		want   bool
	}{
		{"No cookie", nil, false},
		{"Empty cookie value", &http.Cookie{Name: "session_token", Value: ""}, false},
		{"Other cookie only", &http.Cookie{Name: "theme", Value: "dark"}, false},
		{"Session cookie set", &http.Cookie{Name: "session_token", Value: "abc"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != nil {
				r.AddCookie(tt.cookie)
			}
			if got := utils.CookieExists(r, "session_token"); got != tt.want {
				t.Errorf("CookieExists() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetUserAgent(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("User-Agent", "curl/8.0")
	if got := utils.GetUserAgent(r); got != "curl/8.0" {
		t.Errorf("GetUserAgent() = %q", got)
	}
}
