package storage

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrEmptyPayload   = errors.New("empty image payload")
	ErrInvalidPayload = errors.New("invalid base64 image payload")
	ErrNotAnImage     = errors.New("payload is not an image")
)

var AllowImage = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// DecodedImage is an image payload after base64 decoding and sniffing.
type DecodedImage struct {
	Data        []byte
	ContentType string
	Extension   string
}

// DecodeBase64Image accepts either a data URI ("data:image/png;base64,...")
// or a bare base64 string.
func DecodeBase64Image(payload string) (*DecodedImage, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ",")
		if idx < 0 || !strings.Contains(payload[:idx], ";base64") {
			return nil, ErrInvalidPayload
		}
		payload = payload[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalidPayload
	}
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}

	contentType := http.DetectContentType(data)
	ext, ok := extensions[contentType]
	if !ok {
		return nil, ErrNotAnImage
	}
	return &DecodedImage{Data: data, ContentType: contentType, Extension: ext}, nil
}
