// Package youtube resolves user-entered text to YouTube video identifiers
// and looks up display titles for them.
package youtube

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrNotRecognized is returned when the input cannot be resolved to a
// video id.
var ErrNotRecognized = errors.New("not a recognized YouTube URL or video id")

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

var knownHosts = map[string]bool{
	"youtube.com":       true,
	"www.youtube.com":   true,
	"m.youtube.com":     true,
	"music.youtube.com": true,
	"youtu.be":          true,
	"www.youtu.be":      true,
}

// ResolveVideoID extracts an 11-character video id from free-form user
// text. Accepted forms: bare ids, youtu.be short links, and youtube.com
// watch/shorts/embed/live URLs (scheme optional).
func ResolveVideoID(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNotRecognized
	}

	if videoIDPattern.MatchString(text) {
		return text, nil
	}

	raw := text
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || !knownHosts[strings.ToLower(u.Host)] {
		return "", ErrNotRecognized
	}

	var id string
	switch {
	case strings.HasSuffix(strings.ToLower(u.Host), "youtu.be"):
		id = strings.Trim(u.Path, "/")
	case u.Path == "/watch":
		id = u.Query().Get("v")
	default:
		// /shorts/<id>, /embed/<id>, /live/<id>
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) == 2 {
			switch parts[0] {
			case "shorts", "embed", "live":
				id = parts[1]
			}
		}
	}

	if !videoIDPattern.MatchString(id) {
		return "", ErrNotRecognized
	}
	return id, nil
}
