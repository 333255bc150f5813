package chat

import "strings"

// ImageMarker prefixes stored user messages that had an image attached.
const ImageMarker = "[صورة مرفقة]"

const imagePrefix = ImageMarker + " "

// imageTitlePrefix tells the title model the question was about an image.
const imageTitlePrefix = "سؤال عن صورة: "

func withImageMarker(text string) string {
	return imagePrefix + text
}

// StripImageMarker removes every occurrence of ImageMarker, including ones
// that only appear after an earlier removal.
func StripImageMarker(content string) string {
	for strings.Contains(content, ImageMarker) {
		content = strings.ReplaceAll(content, imagePrefix, "")
		content = strings.ReplaceAll(content, ImageMarker, "")
	}
	return content
}
