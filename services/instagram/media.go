package instagram

import "fmt"

type Media struct {
	Label     string  `json:"label"`
	Thumbnail *string `json:"thumbnail"`
	Download  string  `json:"download"`
}

// labeler numbers media per kind, "video1", "image1", "video2".
type labeler struct {
	videos int
	images int
}

func (l *labeler) video(prefix string) string {
	l.videos++
	return fmt.Sprintf("%s%d", prefix, l.videos)
}

func (l *labeler) image() string {
	l.images++
	return fmt.Sprintf("image%d", l.images)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// appendUnique adds values to list in order, skipping ones already present.
func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, existing := range list {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			list = append(list, v)
		}
	}
	return list
}
