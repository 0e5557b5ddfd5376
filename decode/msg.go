package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/unicode"

	"github.com/ManassasDevAct/msg2txt/model"
	"github.com/ManassasDevAct/msg2txt/normalize"
)

// MAPI property ids carried in __substg1.0_ stream names.
const (
	propSubject          = 0x0037
	propTransportHeaders = 0x007D
	propSenderName       = 0x0C1A
	propSenderEmail      = 0x0C1F
	propDisplayBcc       = 0x0E02
	propDisplayCc        = 0x0E03
	propDisplayTo        = 0x0E04
	propBody             = 0x1000
	propAttachLongName   = 0x3707
	propAttachShortName  = 0x3704
	propSenderSMTP       = 0x5D01
)

// Fixed-width PT_SYSTIME tags found in the root __properties_version1.0
// stream. The low word is the property type (0x0040 = FILETIME).
const (
	tagClientSubmitTime = 0x00390040
	tagDeliveryTime     = 0x0E060040
	tagCreationTime     = 0x30070040
	tagLastModified     = 0x30080040
)

const (
	substgPrefix       = "__substg1.0_"
	propertiesStream   = "__properties_version1.0"
	attachStoragePref  = "__attach_version1.0_"
	propertiesHdrBytes = 32
	propertyEntryBytes = 16
)

// Windows FILETIME epoch (1601-01-01) to Unix epoch, in 100ns ticks.
const filetimeEpochDiff = 116444736000000000

var errNotCompoundFile = errors.New("not a compound file container")

// msgDecoder reads Outlook .msg containers. The OLE2/CFB heavy lifting is
// delegated to mscfb; this decoder only walks the directory entries and maps
// the handful of MAPI properties the exporter needs.
type msgDecoder struct{}

func (msgDecoder) Decode(path string) ([]model.DecodedMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open msg: %w", err)
	}
	defer f.Close()

	doc, err := mscfb.New(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNotCompoundFile, err)
	}

	var (
		rootProps   = map[uint16]string{}
		fixedTimes  = map[uint32]time.Time{}
		attachNames = map[string]*model.Attachment{}
	)

	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		switch {
		case len(entry.Path) == 0 && entry.Name == propertiesStream:
			data, rerr := readStream(entry)
			if rerr != nil {
				continue
			}
			parseFixedProperties(data, fixedTimes)

		case len(entry.Path) == 0 && strings.HasPrefix(entry.Name, substgPrefix):
			id, text, ok := readTextProperty(entry)
			if ok {
				if _, seen := rootProps[id]; !seen || text != "" {
					rootProps[id] = text
				}
			}

		case len(entry.Path) == 1 && strings.HasPrefix(entry.Path[0], attachStoragePref) &&
			strings.HasPrefix(entry.Name, substgPrefix):
			id, text, ok := readTextProperty(entry)
			if !ok {
				continue
			}
			att := attachNames[entry.Path[0]]
			if att == nil {
				att = &model.Attachment{}
				attachNames[entry.Path[0]] = att
			}
			switch id {
			case propAttachLongName:
				att.LongFilename = text
			case propAttachShortName:
				att.ShortFilename = text
			}
		}
	}

	senderEmail := rootProps[propSenderSMTP]
	if strings.TrimSpace(senderEmail) == "" {
		senderEmail = rootProps[propSenderEmail]
	}

	msg := model.DecodedMessage{
		SenderName:  rootProps[propSenderName],
		SenderEmail: senderEmail,
		Subject:     rootProps[propSubject],
		Body:        rootProps[propBody],
		HeadersRaw:  rootProps[propTransportHeaders],
		To:          rootProps[propDisplayTo],
		Cc:          rootProps[propDisplayCc],
		Bcc:         rootProps[propDisplayBcc],
		Attachments: sortedAttachments(attachNames),

		ClientSubmitTime: fixedTimes[tagClientSubmitTime],
		DeliveryTime:     fixedTimes[tagDeliveryTime],
		CreationTime:     fixedTimes[tagCreationTime],
		LastModified:     fixedTimes[tagLastModified],
	}

	return []model.DecodedMessage{msg}, nil
}

// readTextProperty parses a __substg1.0_XXXXTTTT stream name and returns the
// property id together with its decoded text. Only string-typed properties
// (0x001F UTF-16LE, 0x001E 8-bit) are considered.
func readTextProperty(entry *mscfb.File) (uint16, string, bool) {
	suffix := strings.TrimPrefix(entry.Name, substgPrefix)
	if len(suffix) != 8 {
		return 0, "", false
	}
	id64, err := strconv.ParseUint(suffix[:4], 16, 16)
	if err != nil {
		return 0, "", false
	}
	typ64, err := strconv.ParseUint(suffix[4:], 16, 16)
	if err != nil {
		return 0, "", false
	}

	data, err := readStream(entry)
	if err != nil {
		return 0, "", false
	}

	switch typ64 {
	case 0x001F:
		return uint16(id64), decodeUTF16LE(data), true
	case 0x001E:
		return uint16(id64), normalize.Text(data), true
	default:
		return 0, "", false
	}
}

func readStream(entry *mscfb.File) ([]byte, error) {
	if entry.Size <= 0 {
		return nil, nil
	}
	data, err := io.ReadAll(entry)
	if err != nil && len(data) == 0 {
		return nil, err
	}
	return data, nil
}

func decodeUTF16LE(data []byte) string {
	decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(data)
	if err != nil {
		return normalize.Text(data)
	}
	return strings.TrimRight(string(decoded), "\x00")
}

// parseFixedProperties scans the root fixed-property stream for the FILETIME
// tags of interest. Entries are 16 bytes after a 32 byte header: tag, flags,
// 8 byte value.
func parseFixedProperties(data []byte, out map[uint32]time.Time) {
	for off := propertiesHdrBytes; off+propertyEntryBytes <= len(data); off += propertyEntryBytes {
		tag := binary.LittleEndian.Uint32(data[off:])
		switch tag {
		case tagClientSubmitTime, tagDeliveryTime, tagCreationTime, tagLastModified:
			ft := binary.LittleEndian.Uint64(data[off+8:])
			out[tag] = filetimeToTime(ft)
		}
	}
}

// filetimeToTime converts a Windows FILETIME (100ns ticks since 1601-01-01)
// to a time.Time. Zero stays the zero time.
func filetimeToTime(ft uint64) time.Time {
	if ft == 0 || ft < filetimeEpochDiff {
		return time.Time{}
	}
	return time.Unix(0, int64(ft-filetimeEpochDiff)*100).UTC()
}

func sortedAttachments(byStorage map[string]*model.Attachment) []model.Attachment {
	if len(byStorage) == 0 {
		return nil
	}
	keys := make([]string, 0, len(byStorage))
	for k := range byStorage {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	atts := make([]model.Attachment, 0, len(keys))
	for _, k := range keys {
		atts = append(atts, *byStorage[k])
	}
	return atts
}
