package videos

import (
	"fmt"
	"regexp"
	"time"
)

// Video is a bookmarked YouTube video.
type Video struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	YoutubeURL  string    `json:"youtubeUrl"`
	YoutubeID   string    `json:"youtubeId"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail"`
	CreatedAt   time.Time `json:"createdAt"`
}

var youtubeIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/v/([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/watch\?.*v=([^&\n?#]+)`),
}

// ExtractYouTubeID returns the video id from a watch, short, embed or /v/
// URL.
func ExtractYouTubeID(url string) (string, bool) {
	for _, re := range youtubeIDPatterns {
		if m := re.FindStringSubmatch(url); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// Metadata is the display data derived for a video id.
type Metadata struct {
	Title       string
	Description string
	Thumbnail   string
}

// MetadataFor derives placeholder metadata from the video id.
func MetadataFor(youtubeID string) Metadata {
	return Metadata{
		Title:       fmt.Sprintf("Video %s", youtubeID),
		Description: fmt.Sprintf("Description for video %s", youtubeID),
		Thumbnail:   fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", youtubeID),
	}
}
