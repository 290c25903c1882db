package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

type safetyRule struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

type safetySection struct {
	Title string       `json:"title"`
	Rules []safetyRule `json:"rules"`
}

// safetyRules is the condensed field safety handbook served read-only to
// crews. The numbering follows the printed rulebook.
var safetyRules = []safetySection{
	{
		Title: "Section 1: General Requirements",
		Rules: []safetyRule{
			{"1.1", "All staff shall be conversant with these safety rules and shall observe them at all times while on duty."},
			{"1.2", "No person shall work on or near live apparatus unless authorized and accompanied by a competent person."},
			{"1.3", "Approved personal protective equipment shall be worn at all times when working on the network."},
			{"1.4", "Any unsafe condition, defective tool, or near miss shall be reported to the supervisor immediately."},
			{"1.5", "No work shall commence during lightning storms or when visibility is inadequate."},
		},
	},
	{
		Title: "Section 2: Initiation of Work",
		Rules: []safetyRule{
			{"2.1", "Work on the network shall only commence after a permit to work has been issued by the control officer."},
			{"2.2", "The circuit shall be proved dead at the point of work before any contact is made."},
			{"2.3", "Earthing shall be applied between the point of work and all possible sources of supply."},
			{"2.4", "Danger notices shall be fixed at all points from which the apparatus can be made live."},
			{"2.5", "On completion of work the permit shall be cancelled and all earths and notices removed before restoration."},
		},
	},
	{
		Title: "Section 3: Equipment",
		Rules: []safetyRule{
			{"3.1", "Ladders shall be inspected before use and footed or lashed when in use."},
			{"3.2", "Insulated tools shall be tested periodically and withdrawn from service if damaged."},
			{"3.3", "Safety belts and harnesses shall be examined before each climb."},
			{"3.4", "Voltage detectors shall be proved on a known live source before and after use."},
		},
	},
	{
		Title: "Appendices",
		Rules: []safetyRule{
			{"A.1", "Emergency contacts: regional control room, county emergency services, nearest health facility."},
			{"A.2", "First aid for electric shock: isolate, call for help, commence resuscitation without delay."},
			{"A.3", "Minimum approach distances by voltage level are posted in every depot and vehicle."},
		},
	},
}

// SafetyRules serves the handbook, optionally filtered by a keyword that is
// matched case-insensitively against rule text and section titles.
func SafetyRules(w http.ResponseWriter, r *http.Request) {
	term := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	sections := safetyRules
	if term != "" {
		sections = searchSafetyRules(term)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"sections": sections,
	})
}

func searchSafetyRules(term string) []safetySection {
	out := []safetySection{}
	for _, sec := range safetyRules {
		if strings.Contains(strings.ToLower(sec.Title), term) {
			out = append(out, sec)
			continue
		}
		var hits []safetyRule
		for _, rule := range sec.Rules {
			if strings.Contains(strings.ToLower(rule.Text), term) {
				hits = append(hits, rule)
			}
		}
		if len(hits) > 0 {
			out = append(out, safetySection{Title: sec.Title, Rules: hits})
		}
	}
	return out
}
