package mail

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadExport reads a mailbox from a JSON export file, so analysis can
// run offline without Gmail access.
func LoadExport(path string) (*Mailbox, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	var box Mailbox
	if err := json.Unmarshal(data, &box); err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}
	return &box, nil
}
