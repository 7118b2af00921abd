package mail

import (
	"os"
	"path/filepath"
	"testing"

	"google.golang.org/api/gmail/v1"
)

func TestFromGmail(t *testing.T) {
	msg := &gmail.Message{
		Id:       "m1",
		ThreadId: "t1",
		Snippet:  "quick note",
		LabelIds: []string{"INBOX", "UNREAD"},
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "From", Value: "Jane <jane@corp.com>"},
				{Name: "To", Value: "me@x.com"},
				{Name: "Subject", Value: "status"},
				{Name: "Date", Value: "Mon, 15 Jan 2024 14:30:00 +0000"},
				{Name: "List-Unsubscribe", Value: "<http://u>"},
				{Name: "Reply-To", Value: "replies@corp.com"},
			},
		},
	}

	got := fromGmail(msg)

	if got.ID != "m1" || got.ThreadID != "t1" || got.Snippet != "quick note" {
		t.Errorf("identity fields wrong: %+v", got)
	}
	if got.From != "Jane <jane@corp.com>" || got.To != "me@x.com" {
		t.Errorf("address fields wrong: %+v", got)
	}
	if got.Subject != "status" || got.Date != "Mon, 15 Jan 2024 14:30:00 +0000" {
		t.Errorf("subject/date wrong: %+v", got)
	}
	if got.ListUnsubscribe != "<http://u>" || got.ReplyTo != "replies@corp.com" {
		t.Errorf("optional headers wrong: %+v", got)
	}
	if !got.HasLabel("INBOX") || got.HasLabel("SENT") {
		t.Errorf("labels wrong: %v", got.Labels)
	}
}

func TestFromGmailNoPayload(t *testing.T) {
	got := fromGmail(&gmail.Message{Id: "m2", Snippet: "s"})
	if got.ID != "m2" || got.From != "" {
		t.Errorf("unexpected record: %+v", got)
	}
}

func TestLoadExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.json")
	content := `{
		"received": [{"id": "r1", "from": "a@x.com", "subject": "hello"}],
		"sent": [{"id": "s1", "to": "b@y.com"}]
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	box, err := LoadExport(path)
	if err != nil {
		t.Fatalf("LoadExport: %v", err)
	}
	if len(box.Received) != 1 || box.Received[0].From != "a@x.com" {
		t.Errorf("received wrong: %+v", box.Received)
	}
	if len(box.Sent) != 1 || box.Sent[0].To != "b@y.com" {
		t.Errorf("sent wrong: %+v", box.Sent)
	}

	if _, err := LoadExport(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
