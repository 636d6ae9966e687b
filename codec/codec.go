// Package codec renders operation results and selections for the command line.
package codec

import (
	"strings"

	"github.com/juju/errors"
)

type CodecType byte

const (
	CodecTypeText CodecType = 0
	CodecTypeJSON CodecType = 1
	CodecTypeYAML CodecType = 2
)

type Codec interface {
	Encode(v any) ([]byte, error)
	Type() CodecType // 0=Text, 1=JSON, 2=YAML
}

func GetCodec(codecType CodecType) Codec {
	switch codecType {
	case CodecTypeJSON:
		return &JSONCodec{}
	case CodecTypeYAML:
		return &YAMLCodec{}
	}
	return &TextCodec{}
}

// ParseCodecType maps a -format flag value to its CodecType.
func ParseCodecType(name string) (CodecType, error) {
	switch strings.ToLower(name) {
	case "", "text":
		return CodecTypeText, nil
	case "json":
		return CodecTypeJSON, nil
	case "yaml", "yml":
		return CodecTypeYAML, nil
	}
	return 0, errors.NotValidf("output format %q", name)
}
