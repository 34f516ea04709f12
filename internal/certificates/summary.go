package certificates

import "github.com/JaimeStill/certtrack/internal/expiry"

// Summary holds status counts over a set of records.
type Summary struct {
	Total        int     `json:"total"`
	Valid        int     `json:"valid"`
	ExpiringSoon int     `json:"expiring_soon"`
	Expired      int     `json:"expired"`
	Unknown      int     `json:"unknown"`
	ValidPercent float64 `json:"valid_percent"`
}

// Summarize counts records by status. Callers pass the filtered view, so the
// counts always describe what is displayed.
func Summarize(records []Certificate) Summary {
	s := Summary{Total: len(records)}
	for _, c := range records {
		switch c.Status {
		case expiry.Valid:
			s.Valid++
		case expiry.ExpiringSoon:
			s.ExpiringSoon++
		case expiry.Expired:
			s.Expired++
		default:
			s.Unknown++
		}
	}
	if s.Total > 0 {
		s.ValidPercent = float64(s.Valid) / float64(s.Total) * 100
	}
	return s
}
