package youtube

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var videoIdPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(?:https?://)?(?:www\.|m\.)?youtube\.com/watch\?v=([^&?\s]+)`),
	regexp.MustCompile(`^(?:https?://)?youtu\.be/([^&?\s]+)`),
	regexp.MustCompile(`^(?:https?://)?(?:www\.|m\.)?youtube\.com/embed/([^&?\s]+)`),
	regexp.MustCompile(`^(?:https?://)?(?:www\.|m\.)?youtube\.com/v/([^&?\s]+)`),
	regexp.MustCompile(`^(?:https?://)?(?:www\.|m\.)?youtube\.com/shorts/([^&?\s]+)`),
}

var queryVideoId = regexp.MustCompile(`v=([^&?\s]+)`)

// VideoId extracts the video id of any common YouTube link shape.
func VideoId(url string) (string, bool) {
	url = strings.TrimSpace(url)
	for _, pattern := range videoIdPatterns {
		if match := pattern.FindStringSubmatch(url); match != nil {
			return match[1], true
		}
	}
	if match := queryVideoId.FindStringSubmatch(url); match != nil {
		return match[1], true
	}
	return "", false
}

// FormatDuration renders seconds as "1h 2m 3s", dropping zero units.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0s"
	}
	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60
	parts := []string{}
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	if s > 0 {
		parts = append(parts, fmt.Sprintf("%ds", s))
	}
	return strings.Join(parts, " ")
}

// ParseClock reads "1:02:03", "2:03" or "3" as seconds.
func ParseClock(clock string) (int, bool) {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return 0, false
	}
	parts := strings.Split(clock, ":")
	if len(parts) > 3 {
		return 0, false
	}
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, false
		}
		total = total*60 + n
	}
	return total, true
}
