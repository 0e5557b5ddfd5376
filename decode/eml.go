package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/emersion/go-message/mail"

	_ "github.com/emersion/go-message/charset"

	"github.com/ManassasDevAct/msg2txt/model"
)

// emlDecoder reads RFC 5322 messages via go-message.
type emlDecoder struct{}

func (emlDecoder) Decode(path string) ([]model.DecodedMessage, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read eml: %w", err)
	}
	msg, err := decodeEML(raw)
	if err != nil {
		return nil, err
	}
	return []model.DecodedMessage{msg}, nil
}

func decodeEML(raw []byte) (model.DecodedMessage, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return model.DecodedMessage{}, fmt.Errorf("parse message: %w", err)
	}

	header := mr.Header

	var msg model.DecodedMessage
	msg.Subject, _ = header.Subject()
	msg.HeadersRaw = string(rawHeaderBlock(raw))

	if froms, err := header.AddressList("From"); err == nil && len(froms) > 0 {
		msg.SenderName = froms[0].Name
		msg.SenderEmail = froms[0].Address
	}
	msg.To = addressStrings(header, "To")
	msg.Cc = addressStrings(header, "Cc")
	msg.Bcc = addressStrings(header, "Bcc")

	if date, err := header.Date(); err == nil {
		msg.DisplayDate = date
	}

	var body strings.Builder
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Keep whatever was extracted before the broken part.
			break
		}
		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			ct, _, _ := h.ContentType()
			if body.Len() == 0 && (ct == "" || strings.HasPrefix(ct, "text/plain")) {
				if b, err := io.ReadAll(part.Body); err == nil {
					body.Write(b)
				}
			}
		case *mail.AttachmentHeader:
			if name, err := h.Filename(); err == nil && name != "" {
				msg.Attachments = append(msg.Attachments, model.Attachment{LongFilename: name})
			}
		}
	}
	msg.Body = body.String()

	return msg, nil
}

func addressStrings(header mail.Header, key string) any {
	addrs, err := header.AddressList(key)
	if err != nil || len(addrs) == 0 {
		// Fall back to the raw field so a malformed list still shows up.
		return header.Get(key)
	}
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a.Name != "" {
			out = append(out, fmt.Sprintf("%s <%s>", a.Name, a.Address))
			continue
		}
		out = append(out, a.Address)
	}
	return out
}

// rawHeaderBlock returns the header section of a raw message, everything up
// to the first blank line.
func rawHeaderBlock(raw []byte) []byte {
	if idx := bytes.Index(raw, []byte("\r\n\r\n")); idx >= 0 {
		return raw[:idx]
	}
	if idx := bytes.Index(raw, []byte("\n\n")); idx >= 0 {
		return raw[:idx]
	}
	return raw
}
