package client

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
)

// MaxImageFileBytes is the largest image file the client will attach.
const MaxImageFileBytes = 5 * 1024 * 1024

var ErrImageTooLarge = errors.New("حجم الصورة كبير جداً. الحد الأقصى 5 ميجابايت")

// EncodeImageFile reads an image file and returns it as a data URL.
func EncodeImageFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > MaxImageFileBytes {
		return "", ErrImageTooLarge
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	return "data:" + http.DetectContentType(data) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
