package codec

import (
	"gopkg.in/yaml.v3"
)

type YAMLCodec struct{}

func (c *YAMLCodec) Encode(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (c *YAMLCodec) Type() CodecType {
	return CodecTypeYAML
}
