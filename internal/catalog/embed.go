package catalog

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// EmbedURL returns the player URL for the server. Some upstream servers
// deliver a raw <iframe> snippet instead of a URL; the iframe's src is used
// then. An empty string means the server is unusable.
func (s StreamingServer) EmbedURL() string {
	raw := strings.TrimSpace(s.URL)
	if !strings.HasPrefix(raw, "<") {
		return raw
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("iframe").First().Attr("src")
	return strings.TrimSpace(src)
}

// noSandboxServers cannot play inside a sandboxed iframe
var noSandboxServers = []string{"vidhide", "uranus hd", "hd hemat"}

// Sandboxed reports whether the player iframe should carry the sandbox
// attribute, which stops most embedded ad popups.
func (s StreamingServer) Sandboxed() bool {
	name := strings.ToLower(s.Name)
	for _, n := range noSandboxServers {
		if strings.Contains(name, n) {
			return false
		}
	}
	return true
}

// PlayableServers drops servers without a usable embed URL
func (w *Watch) PlayableServers() []StreamingServer {
	var out []StreamingServer
	for _, s := range w.Servers {
		if u := s.EmbedURL(); u != "" {
			out = append(out, StreamingServer{Name: s.Name, URL: u})
		}
	}
	return out
}
