package jobapi

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// StatusCompleted is the job status marking a successful conversion.
const StatusCompleted = "COMPLETED"

// RemoteResponse is a job API response body, classified once at parse time.
// It is one of Completed, Failed or Malformed.
type RemoteResponse interface {
	remoteResponse()
}

// Completed carries the decoded converted file.
type Completed struct {
	Data []byte
}

// Failed is a well-formed JSON body that is not a usable completion.
type Failed struct {
	// Status is the job status, if any.
	Status string

	// Error and Message are the body's error and message fields, if strings.
	Error   string
	Message string
}

// Malformed is a body that could not be parsed as a JSON object.
type Malformed struct {
	Raw string
}

func (Completed) remoteResponse() {}
func (Failed) remoteResponse()    {}
func (Malformed) remoteResponse() {}

// ParseResponse classifies a raw response body. An empty body is treated
// as an empty JSON object.
func ParseResponse(raw []byte) RemoteResponse {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Failed{}
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Malformed{Raw: string(raw)}
	}

	failed := Failed{
		Status:  stringField(fields, "status"),
		Error:   stringField(fields, "error"),
		Message: stringField(fields, "message"),
	}
	if failed.Status != StatusCompleted {
		return failed
	}

	output, _ := fields["output"].(map[string]any)
	encoded := stringField(output, "fbx_base64")
	if encoded == "" {
		return failed
	}

	data, err := decodeBase64(encoded)
	if err != nil {
		if failed.Error == "" {
			failed.Error = "invalid fbx_base64 payload"
		}
		return failed
	}
	return Completed{Data: data}
}

func stringField(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

// decodeBase64 accepts padded and unpadded standard base64.
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}
