package codec

import (
	"encoding/json"
)

// JSONCodec writes indented JSON, one document per call.
type JSONCodec struct{}

func (c *JSONCodec) Encode(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (c *JSONCodec) Type() CodecType {
	return CodecTypeJSON
}
