package util

import (
	"net/http"
	"strings"
)

const octetStream = "application/octet-stream"

// SniffMimeHTTP recognizes the image formats Gemini accepts inline.
func SniffMimeHTTP(b []byte) string {
	switch {
	case len(b) >= 3 && b[0] == 0xFF && b[1] == 0xD8 && b[2] == 0xFF:
		return "image/jpeg"
	case len(b) >= 8 &&
		b[0] == 0x89 && b[1] == 0x50 && b[2] == 0x4E && b[3] == 0x47 &&
		b[4] == 0x0D && b[5] == 0x0A && b[6] == 0x1A && b[7] == 0x0A:
		return "image/png"
	case len(b) >= 12 && string(b[0:4]) == "RIFF" && string(b[8:12]) == "WEBP":
		return "image/webp"
	case len(b) >= 12 && string(b[4:8]) == "ftyp" && (string(b[8:12]) == "heic" || string(b[8:12]) == "heix"):
		return "image/heic"
	}
	return octetStream
}

// PickMIME prefers the explicit MIME, then the hint, then sniffs the bytes.
// "application/octet-stream" is what browsers send when they don't know, so it
// counts as absent.
func PickMIME(explicit, hint string, data []byte) string {
	if exp := normalize(explicit); exp != "" && exp != octetStream {
		return exp
	}
	if h := normalize(hint); h != "" && h != octetStream {
		return h
	}
	if len(data) > 0 {
		if m := SniffMimeHTTP(data); m != octetStream {
			return m
		}
		return normalize(http.DetectContentType(data))
	}

	return "image/jpeg"
}

func normalize(mime string) string {
	mime = strings.TrimSpace(mime)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	return strings.ToLower(mime)
}
