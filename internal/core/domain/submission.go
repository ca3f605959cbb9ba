package domain

// AudioSubmission is a validated audio payload ready for transport. It is
// immutable once constructed and held only until the request completes.
type AudioSubmission struct {
	Data     []byte
	MimeType string
	FileName string
}
