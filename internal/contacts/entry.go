// Package contacts keeps the append-only log of supplier contact
// interactions and persists it to shared storage.
package contacts

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/JaimeStill/certtrack/pkg/sheet"
)

// Action is the kind of contact. The listed values are suggestions;
// other text is kept as written.
type Action string

const (
	Email   Action = "Email"
	Call    Action = "Call"
	Meeting Action = "Meeting"
	Other   Action = "Other"
)

// Actions lists the recognized actions in display order.
var Actions = []Action{Email, Call, Meeting, Other}

// ParseAction canonicalizes the case of a recognized action and returns any
// other text trimmed but otherwise verbatim.
func ParseAction(s string) Action {
	s = strings.TrimSpace(s)
	for _, k := range Actions {
		if strings.EqualFold(s, string(k)) {
			return k
		}
	}
	return Action(s)
}

// Entry is one contact interaction. A nil Date is the explicit "no date"
// marker for entries loaded without a readable date.
type Entry struct {
	Date     *time.Time
	Supplier string
	Action   Action
	Notes    string
}

type entryJSON struct {
	Date     *string `json:"date"`
	Supplier string  `json:"supplier"`
	Action   Action  `json:"action"`
	Notes    string  `json:"notes"`
}

// MarshalJSON writes Date as YYYY-MM-DD, or null when absent.
func (e Entry) MarshalJSON() ([]byte, error) {
	out := entryJSON{
		Supplier: e.Supplier,
		Action:   e.Action,
		Notes:    e.Notes,
	}
	if e.Date != nil {
		d := sheet.FormatDate(e.Date)
		out.Date = &d
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts any date form sheet.ParseDate understands. An
// unreadable date decodes as nil.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var in entryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*e = Entry{
		Supplier: in.Supplier,
		Action:   in.Action,
		Notes:    in.Notes,
	}
	if in.Date != nil {
		if d, ok := sheet.ParseDate(*in.Date); ok {
			e.Date = &d
		}
	}
	return nil
}

// AppendCommand is a contact submission. An empty Date means today.
type AppendCommand struct {
	Date     string `json:"date"`
	Supplier string `json:"supplier"`
	Action   string `json:"action"`
	Notes    string `json:"notes"`
}

// PersistResult reports where the log was written.
type PersistResult struct {
	Key     string `json:"key"`
	Entries int    `json:"entries"`
}
