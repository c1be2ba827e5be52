package summary

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
)

// parsedAgendaItem is one agenda entry decoded from a per-language payload
type parsedAgendaItem struct {
	Title             string
	Description       string
	LinkedIssues      []string
	IssueDescriptions map[string]string
}

// flexText tolerates the summarizer sending either a plain string or an
// object of language-keyed strings for title/description fields
type flexText string

func (t *flexText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = flexText(s)
		return nil
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("expected string or object, got %s", string(data))
	}
	for _, key := range []string{"en", "english", "text"} {
		if v, ok := m[key]; ok {
			*t = flexText(v)
			return nil
		}
	}
	// Deterministic fallback: smallest key wins.
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		*t = flexText(m[keys[0]])
	}
	return nil
}

type rawAgendaItem struct {
	Title        flexText        `json:"title"`
	Description  flexText        `json:"description"`
	IssueIDs     json.RawMessage `json:"issue_ids"`
	LinkedIssues []string        `json:"linked_issues"`
}

// parseAgendaPayload decodes one language's agenda list. The payload is a
// JSON array, usually arriving string-encoded inside the result document.
// Issue references come either as an "issue_ids" object mapping issue id to
// a per-issue description, or as a plain "linked_issues" id array.
func parseAgendaPayload(payload string) ([]parsedAgendaItem, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, nil
	}

	var raw []rawAgendaItem
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		// Double-encoded payloads: the array itself wrapped in a JSON string.
		var inner string
		if err2 := json.Unmarshal([]byte(payload), &inner); err2 != nil {
			return nil, fmt.Errorf("failed to parse agenda payload: %w", err)
		}
		if err2 := json.Unmarshal([]byte(inner), &raw); err2 != nil {
			return nil, fmt.Errorf("failed to parse agenda payload: %w", err2)
		}
	}

	items := make([]parsedAgendaItem, 0, len(raw))
	for _, entry := range raw {
		item := parsedAgendaItem{
			Title:             strings.TrimSpace(string(entry.Title)),
			Description:       strings.TrimSpace(string(entry.Description)),
			IssueDescriptions: make(map[string]string),
		}

		ids, descs, err := parseIssueRefs(entry.IssueIDs)
		if err != nil {
			return nil, err
		}
		item.LinkedIssues = append(item.LinkedIssues, ids...)
		for id, desc := range descs {
			item.IssueDescriptions[id] = desc
		}
		for _, id := range entry.LinkedIssues {
			if id = strings.TrimSpace(id); id != "" {
				item.LinkedIssues = append(item.LinkedIssues, id)
			}
		}
		item.LinkedIssues = uniqueStrings(item.LinkedIssues)

		items = append(items, item)
	}
	return items, nil
}

// parseIssueRefs accepts issue_ids as an id-to-description object or as a
// bare id array
func parseIssueRefs(raw json.RawMessage) ([]string, map[string]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil, nil
	}

	var byID map[string]string
	if err := json.Unmarshal(raw, &byID); err == nil {
		ids := make([]string, 0, len(byID))
		descs := make(map[string]string, len(byID))
		for id, desc := range byID {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			ids = append(ids, id)
			if desc = strings.TrimSpace(desc); desc != "" {
				descs[id] = desc
			}
		}
		sort.Strings(ids)
		return ids, descs, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		ids := make([]string, 0, len(list))
		for _, id := range list {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		return ids, nil, nil
	}

	return nil, nil, fmt.Errorf("unrecognized issue_ids shape: %s", string(raw))
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// languageCode maps the result document's language key names to the
// language codes used in agenda item title/description maps
func languageCode(key string) string {
	return entities.LanguageCode(key)
}
