package jobapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected RemoteResponse
	}{
		{
			name:     "completed",
			raw:      `{"status":"COMPLETED","output":{"fbx_base64":"QUJD","filename":"a.fbx"}}`,
			expected: Completed{Data: []byte("ABC")},
		},
		{
			name:     "completed unpadded",
			raw:      `{"status":"COMPLETED","output":{"fbx_base64":"QUI"}}`,
			expected: Completed{Data: []byte("AB")},
		},
		{
			name:     "failed with error",
			raw:      `{"status":"FAILED","error":"bad input"}`,
			expected: Failed{Status: "FAILED", Error: "bad input"},
		},
		{
			name:     "completed without payload",
			raw:      `{"status":"COMPLETED","output":{}}`,
			expected: Failed{Status: "COMPLETED"},
		},
		{
			name:     "in queue",
			raw:      `{"id":"job-1","status":"IN_QUEUE"}`,
			expected: Failed{Status: "IN_QUEUE"},
		},
		{
			name:     "message only",
			raw:      `{"message":"unauthorized"}`,
			expected: Failed{Message: "unauthorized"},
		},
		{
			name:     "non string error ignored",
			raw:      `{"error":{"code":1}}`,
			expected: Failed{},
		},
		{
			name:     "empty body",
			raw:      "",
			expected: Failed{},
		},
		{
			name:     "not json",
			raw:      "<html>502 Bad Gateway</html>",
			expected: Malformed{Raw: "<html>502 Bad Gateway</html>"},
		},
		{
			name:     "json array",
			raw:      `[1,2]`,
			expected: Malformed{Raw: "[1,2]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseResponse([]byte(tt.raw)))
		})
	}
}

func TestParseResponse_InvalidBase64(t *testing.T) {
	r := ParseResponse([]byte(`{"status":"COMPLETED","output":{"fbx_base64":"!!!not base64"}}`))

	failed, ok := r.(Failed)
	assert.True(t, ok)
	assert.Equal(t, "invalid fbx_base64 payload", failed.Error)
}
