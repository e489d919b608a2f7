package util

import (
	"strings"
	"testing"
)

func TestIsLocalHost(t *testing.T) {
	tests := map[string]bool{
		"localhost":       true,
		"LOCALHOST:3001":  true,
		"127.0.0.1":       true,
		"127.0.0.1:51234": true,
		"[::1]:3001":      true,
		"::1":             true,
		"192.168.1.20":    false,
		"www.figma.com":   false,
		"":                false,
		"10.0.0.1:3001":   false,
	}
	for in, want := range tests {
		if got := IsLocalHost(in); got != want {
			t.Fatalf("IsLocalHost(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDiscoverURLsSpecificBind(t *testing.T) {
	urls := DiscoverURLs("192.168.1.20", 3001)
	want := []string{"http://localhost:3001/", "http://127.0.0.1:3001/", "http://192.168.1.20:3001/"}
	if strings.Join(urls, " ") != strings.Join(want, " ") {
		t.Fatalf("DiscoverURLs = %v, want %v", urls, want)
	}
	if got := DiscoverURLs("127.0.0.1", 80); len(got) != 2 {
		t.Fatalf("loopback bind should not duplicate, got %v", got)
	}
}
