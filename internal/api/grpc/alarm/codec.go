package alarm

import (
	"github.com/goccy/go-json"
	"google.golang.org/grpc/encoding"
)

// CodecName is the content subtype the alarm clock service is spoken in.
const CodecName = "json"

// codec marshals messages as JSON.
type codec struct{}

func init() { //nolint:gochecknoinits // Codecs must be registered before any server or client starts.
	encoding.RegisterCodec(codec{})
}

// Marshal implements encoding.Codec.
func (codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal implements encoding.Codec.
func (codec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Name implements encoding.Codec.
func (codec) Name() string {
	return CodecName
}
