package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataURIRoundTrip(t *testing.T) {
	uri := EncodeDataURI("aGVsbG8=")
	assert.Equal(t, "data:application/octet-stream;base64,aGVsbG8=", uri)

	data, err := DecodeDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestDecodeDataURIOtherMediaType(t *testing.T) {
	data, err := DecodeDataURI("data:application/java-archive;base64,aGk=")
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))
}

func TestDecodeDataURIErrors(t *testing.T) {
	for _, uri := range []string{
		"",
		"https://example.com/mod.jar",
		"data:text/plain,hello",
		"data:application/octet-stream;base64,!!!",
	} {
		_, err := DecodeDataURI(uri)
		assert.Error(t, err, "uri %q", uri)
	}
}
