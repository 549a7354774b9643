package catalog

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const dataURIPrefix = "data:application/octet-stream;base64,"

// EncodeDataURI wraps a base64 payload into an octet-stream data URI
func EncodeDataURI(b64 string) string {
	return dataURIPrefix + b64
}

// DecodeDataURI returns the bytes of a base64 data URI of any media type
func DecodeDataURI(uri string) ([]byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("data URI is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data URI payload: %w", err)
	}
	return data, nil
}
