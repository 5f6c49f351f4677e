package api

import "regexp"

var youtubeLink = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)

// VideoID extracts the 11-character video id from a YouTube link.
func VideoID(link string) (string, bool) {
	m := youtubeLink.FindStringSubmatch(link)
	if m == nil || len(m[2]) != 11 {
		return "", false
	}
	return m[2], true
}

func EmbedURL(videoID string) string {
	return "https://www.youtube.com/embed/" + videoID
}

func ThumbnailURL(videoID string) string {
	return "https://img.youtube.com/vi/" + videoID + "/hqdefault.jpg"
}
