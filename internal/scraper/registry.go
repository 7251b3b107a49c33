package scraper

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

var registry = map[string]Site{}

// Register adds s under its lower-cased name. Sites call it from init.
func Register(s Site) {
	registry[strings.ToLower(s.Name())] = s
}

func Get(name string) (Site, bool) {
	s, ok := registry[strings.ToLower(name)]
	return s, ok
}

// Lookup is Get returning ErrUnknownSite for missing names.
func Lookup(name string) (Site, error) {
	s, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSite, name)
	}
	return s, nil
}

// ForURL returns the site serving the host of rawURL.
func ForURL(rawURL string) (Site, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return nil, false
	}
	host := strings.ToLower(u.Hostname())
	for _, name := range Names() {
		s := registry[name]
		for _, h := range s.Hosts() {
			h = strings.ToLower(h)
			if host == h || strings.HasSuffix(host, "."+h) {
				return s, true
			}
		}
	}
	return nil, false
}

// Names returns the registered site names in order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
