package llm

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var ErrInvalidImage = errors.New("invalid image data")

// NormalizeImage turns a raw base64 payload into a data URL, sniffing the
// MIME type from the decoded bytes. Data URLs and http(s) URLs pass through.
func NormalizeImage(image string) (string, error) {
	image = strings.TrimSpace(image)
	switch {
	case image == "":
		return "", ErrInvalidImage
	case strings.HasPrefix(image, "data:"):
		if _, _, err := DecodeDataURL(image); err != nil {
			return "", err
		}
		return image, nil
	case strings.HasPrefix(image, "http://"), strings.HasPrefix(image, "https://"):
		return image, nil
	}

	data, err := base64.StdEncoding.DecodeString(image)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return "data:" + http.DetectContentType(data) + ";base64," + image, nil
}

// DecodeDataURL splits a base64 data URL into its MIME type and bytes.
func DecodeDataURL(url string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: not a data url", ErrInvalidImage)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload", ErrInvalidImage)
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: data url is not base64", ErrInvalidImage)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	return mime, data, nil
}
