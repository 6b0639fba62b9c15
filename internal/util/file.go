package util

import (
	"errors"
	"io"
	"net/http"
	"strings"
)

// ErrInvalidFileType is returned when an upload's sniffed content type is not allowed.
var ErrInvalidFileType = errors.New("tipo de arquivo não permitido")

// SniffMimeType reads up to 512 bytes from reader and checks the detected
// MIME type against allowedTypes (prefixes such as "image/" or full types).
// The consumed bytes are returned so the caller can replay them.
func SniffMimeType(reader io.Reader, allowedTypes []string) (string, []byte, error) {
	buffer := make([]byte, 512)
	n, err := io.ReadFull(reader, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, err
	}
	head := buffer[:n]

	mimeType := http.DetectContentType(head)
	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) {
			return mimeType, head, nil
		}
	}

	return mimeType, head, ErrInvalidFileType
}
