package model

// Record is the normalized representation of a single mail message, one per
// input item. Every field is a plain string; an empty string means the value
// was absent or could not be derived. Once assembled a Record is not mutated
// again (the headers/body redaction toggles are applied during assembly).
type Record struct {
	OriginalFilename string
	From             string
	FromEmail        string
	To               string
	Cc               string
	Bcc              string
	Subject          string
	// Date is the reconciled timestamp in RFC 3339 form, empty when no
	// candidate parsed. DateRaw holds the literal text the date was derived
	// from, kept for auditability even when parsing failed.
	Date    string
	DateRaw string

	HeadersRaw      string
	Body            string
	AttachmentNames string
}

// DecodedMessage is the flat property bag produced by the input decoders.
// Scalar text fields are already coerced to UTF-8 strings; recipient and
// timestamp fields stay loosely typed because the underlying containers hand
// back lists, scalars or nothing at all, and the normalizer sorts that out.
type DecodedMessage struct {
	SenderName  string
	SenderEmail string
	Subject     string
	Body        string
	HeadersRaw  string

	// To, Cc and Bcc are either a display string, a []string, or nil.
	To  any
	Cc  any
	Bcc any

	Attachments []Attachment

	// Timestamp-like properties in no particular order; each is a
	// time.Time, a string, or nil.
	DisplayDate      any
	ClientSubmitTime any
	DeliveryTime     any
	LastModified     any
	CreationTime     any
}

// Attachment carries the two filename variants a container may store.
type Attachment struct {
	LongFilename  string
	ShortFilename string
}

// DateDebug exposes every raw date source considered for one message plus
// the reconciliation outcome. Diagnostic only, never part of an artifact.
type DateDebug struct {
	DisplayDate      string
	ClientSubmitTime string
	DeliveryTime     string
	LastModified     string
	CreationTime     string
	HeaderDate       string
	BodyDate         string
	RawUsed          string
	ISO              string
}

// LogAttrs returns the debug fields as slog key/value pairs.
func (d DateDebug) LogAttrs() []any {
	return []any{
		"displayDate", d.DisplayDate,
		"clientSubmitTime", d.ClientSubmitTime,
		"deliveryTime", d.DeliveryTime,
		"lastModified", d.LastModified,
		"creationTime", d.CreationTime,
		"headerDate", d.HeaderDate,
		"bodyDate", d.BodyDate,
		"rawUsed", d.RawUsed,
		"iso", d.ISO,
	}
}
