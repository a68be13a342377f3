package render

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	youtubeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{6,}$`)
	vimeoIDPattern   = regexp.MustCompile(`^[0-9]+$`)
)

// videoEmbedURL recognizes YouTube and Vimeo URLs and returns the
// corresponding player embed URL. Any other URL returns ok=false and is
// rendered as a native <video> element instead.
func videoEmbedURL(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")

	switch host {
	case "youtube.com", "youtube-nocookie.com", "m.youtube.com":
		if id := youtubeID(u); id != "" {
			return "https://www.youtube.com/embed/" + id, true
		}
	case "youtu.be":
		id := strings.Trim(u.Path, "/")
		if youtubeIDPattern.MatchString(id) {
			return "https://www.youtube.com/embed/" + id, true
		}
	case "vimeo.com", "player.vimeo.com":
		id := vimeoID(u.Path)
		if id != "" {
			return "https://player.vimeo.com/video/" + id, true
		}
	}

	return "", false
}

// youtubeID extracts a video id from watch, embed, and shorts URLs.
func youtubeID(u *url.URL) string {
	if id := u.Query().Get("v"); youtubeIDPattern.MatchString(id) {
		return id
	}
	for _, prefix := range []string{"/embed/", "/shorts/", "/live/"} {
		if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
			id := strings.Trim(rest, "/")
			if youtubeIDPattern.MatchString(id) {
				return id
			}
		}
	}
	return ""
}

// vimeoID extracts the numeric id from the last path segment.
func vimeoID(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 0 {
		return ""
	}
	last := segments[len(segments)-1]
	if vimeoIDPattern.MatchString(last) {
		return last
	}
	return ""
}
