package crawl

import "fmt"

// TruncateURL shortens a URL for display. The tail of a service URL
// carries the folder and service names, so the head is what gets cut.
func TruncateURL(url string, maxLen int) string {
	switch {
	case maxLen <= 0:
		return ""
	case len(url) <= maxLen:
		return url
	case maxLen < 4:
		// No room for a "..." prefix
		return url[:maxLen]
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats a byte count in human-readable form.
func FormatBytes(bytes int) string {
	const kb = 1024
	switch {
	case bytes >= kb*kb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(kb*kb))
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/kb)
	}
	return fmt.Sprintf("%d B", bytes)
}
