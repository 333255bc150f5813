package llm

import (
	"errors"
	"testing"
)

func TestNormalizeImage(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "raw png", in: pngBase64, want: "data:image/png;base64," + pngBase64},
		{name: "data url", in: "data:image/png;base64," + pngBase64, want: "data:image/png;base64," + pngBase64},
		{name: "https", in: "https://example.com/a.jpg", want: "https://example.com/a.jpg"},
		{name: "empty", in: "  ", wantErr: true},
		{name: "garbage", in: "not base64!", wantErr: true},
		{name: "bad data url", in: "data:image/png,raw", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeImage(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidImage) {
					t.Fatalf("err = %v, want ErrInvalidImage", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeImage: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeDataURLSniffsMissingMIME(t *testing.T) {
	mime, data, err := DecodeDataURL("data:;base64," + pngBase64)
	if err != nil {
		t.Fatalf("DecodeDataURL: %v", err)
	}
	if mime != "image/png" {
		t.Errorf("mime = %q", mime)
	}
	if len(data) == 0 {
		t.Error("expected bytes")
	}
}
