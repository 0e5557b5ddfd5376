package decode

import (
	"errors"
	"fmt"
	"io"
	"os"

	mboxlib "github.com/emersion/go-mbox"

	"github.com/ManassasDevAct/msg2txt/model"
)

// mboxDecoder expands an mbox archive into its contained messages. Messages
// that fail to parse are skipped so one broken entry does not sink the whole
// archive; the archive itself only fails when nothing could be read at all.
type mboxDecoder struct{}

func (mboxDecoder) Decode(path string) ([]model.DecodedMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mbox: %w", err)
	}
	defer f.Close()

	reader := mboxlib.NewReader(f)

	var (
		msgs    []model.DecodedMessage
		lastErr error
	)
	for idx := 0; ; idx++ {
		msgReader, err := reader.NextMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			lastErr = fmt.Errorf("message %d: %w", idx, err)
			break
		}

		raw, err := io.ReadAll(msgReader)
		if err != nil {
			lastErr = fmt.Errorf("message %d read: %w", idx, err)
			continue
		}

		msg, err := decodeEML(raw)
		if err != nil {
			lastErr = fmt.Errorf("message %d: %w", idx, err)
			continue
		}
		msgs = append(msgs, msg)
	}

	if len(msgs) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, errors.New("mbox contains no messages")
	}
	return msgs, nil
}
