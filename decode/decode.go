// Package decode turns mail container files into flat DecodedMessage
// property bags. One decoder exists per input format; all of them degrade
// missing properties to empty fields rather than errors, so consumers only
// ever deal with present-or-empty values.
package decode

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ManassasDevAct/msg2txt/model"
)

// Decoder extracts the messages contained in a single input file. Most
// formats hold exactly one message; mbox archives expand to many.
type Decoder interface {
	Decode(path string) ([]model.DecodedMessage, error)
}

// ForName selects a decoder based on the input's file extension.
func ForName(name string) (Decoder, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".msg":
		return msgDecoder{}, nil
	case ".eml":
		return emlDecoder{}, nil
	case ".mbox":
		return mboxDecoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported input type %q", filepath.Ext(name))
	}
}
