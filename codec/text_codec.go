package codec

import (
	"bytes"
	"fmt"

	"dubbo-switch/message"
)

// TextCodec renders the message types for a terminal. Provider keys are shown
// decoded; anything else falls back to %v.
type TextCodec struct{}

func (c *TextCodec) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	switch msg := v.(type) {
	case message.Result:
		writeResult(&buf, msg)
	case *message.Result:
		writeResult(&buf, *msg)
	case message.Selection:
		writeSelection(&buf, msg)
	default:
		fmt.Fprintf(&buf, "%v\n", v)
	}
	return buf.Bytes(), nil
}

func (c *TextCodec) Type() CodecType {
	return CodecTypeText
}

func writeResult(buf *bytes.Buffer, r message.Result) {
	status := "FAILED"
	if r.Success {
		status = "OK"
	}
	fmt.Fprintf(buf, "%s: %s\n", status, r.Message)
}

func writeSelection(buf *bytes.Buffer, sel message.Selection) {
	fmt.Fprintf(buf, "%d services, %d providers\n", len(sel), sel.ProviderCount())
	for _, sp := range sel {
		fmt.Fprintf(buf, "%s\n", sp.ServiceName)
		for _, p := range sp.Providers {
			decoded, err := message.DecodeProvider(p)
			if err != nil {
				decoded = p
			}
			fmt.Fprintf(buf, "  %s\n", decoded)
		}
	}
}
