package util

import (
	"fmt"
	"net"
	"net/url"
	"sort"
	"strings"
)

// DiscoverURLs lists the http URLs the server answers on: loopback first,
// then every LAN address when bound to all interfaces.
func DiscoverURLs(bind string, port int) []string {
	seen := map[string]struct{}{}
	var lan []string
	add := func(list *[]string, host string) {
		u := (&url.URL{Scheme: "http", Host: net.JoinHostPort(host, fmt.Sprint(port)), Path: "/"}).String()
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		*list = append(*list, u)
	}

	urls := make([]string, 0, 4)
	add(&urls, "localhost")
	add(&urls, "127.0.0.1")

	if bind != "" && bind != "0.0.0.0" && bind != "::" {
		if !IsLocalHost(bind) {
			add(&urls, bind)
		}
		return urls
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return urls
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ip, _, err := net.ParseCIDR(a.String())
			if err != nil || ip.IsLoopback() {
				continue
			}
			if v4 := ip.To4(); v4 != nil {
				add(&lan, v4.String())
			}
		}
	}
	sort.Strings(lan)
	return append(urls, lan...)
}

// IsLocalHost reports whether host (optionally with a port) names the
// local machine.
func IsLocalHost(host string) bool {
	host = strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
