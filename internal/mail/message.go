package mail

// Message is a single email's metadata as supplied by the mail source.
// All fields are optional; absent headers are empty strings. Records are
// read-only once built — the signal pipeline never mutates them.
type Message struct {
	ID              string   `json:"id"`
	ThreadID        string   `json:"thread_id"`
	From            string   `json:"from"`
	To              string   `json:"to"`
	Subject         string   `json:"subject"`
	Date            string   `json:"date"`
	Snippet         string   `json:"snippet"`
	ListUnsubscribe string   `json:"list_unsubscribe"`
	ReplyTo         string   `json:"reply_to"`
	Labels          []string `json:"labels"`
}

// HasLabel reports whether the message carries the given Gmail label ID.
func (m Message) HasLabel(label string) bool {
	for _, l := range m.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Mailbox is the pair of message collections an analysis run operates on.
type Mailbox struct {
	Received []Message `json:"received"`
	Sent     []Message `json:"sent"`
}
