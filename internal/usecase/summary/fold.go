package summary

import (
	"fmt"
	"sort"

	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
	"github.com/anujdevsingh/gram-panchayat/internal/infrastructure/external/summarizer"
)

// foldOutcome is what a completed summarization result contributes to the
// aggregate: freshly built SYSTEM agenda items and the per-issue,
// per-language short descriptions to merge into transcription state.
type foldOutcome struct {
	SystemItems       entities.AgendaItemList
	IssueDescriptions map[string]entities.LanguageMap
}

// foldResult turns the multi-language result document into SYSTEM agenda
// items. The per-language agenda lists are aligned by position: entry i of
// every language payload describes the same agenda item. The base language
// (English when present, otherwise the primary language) supplies the item
// count and the linked-issue sets.
func foldResult(result *summarizer.Result) (*foldOutcome, error) {
	parsed := make(map[string][]parsedAgendaItem, len(result.Agendas))
	langs := make([]string, 0, len(result.Agendas))
	for key, payload := range result.Agendas {
		items, err := parseAgendaPayload(payload)
		if err != nil {
			return nil, fmt.Errorf("agenda payload %q: %w", key, err)
		}
		code := languageCode(key)
		parsed[code] = items
		langs = append(langs, code)
	}
	sort.Strings(langs)

	base := "en"
	if _, ok := parsed[base]; !ok {
		base = languageCode(result.PrimaryLanguage)
	}
	baseItems, ok := parsed[base]
	if !ok {
		return nil, fmt.Errorf("result has no agenda payload for base language %q", base)
	}

	outcome := &foldOutcome{
		SystemItems:       make(entities.AgendaItemList, 0, len(baseItems)),
		IssueDescriptions: make(map[string]entities.LanguageMap),
	}

	for i, baseItem := range baseItems {
		title := entities.LanguageMap{}
		description := entities.LanguageMap{}
		linked := append([]string(nil), baseItem.LinkedIssues...)

		for _, lang := range langs {
			items := parsed[lang]
			if i >= len(items) {
				continue
			}
			if items[i].Title != "" {
				title[lang] = items[i].Title
			}
			if items[i].Description != "" {
				description[lang] = items[i].Description
			}
			linked = append(linked, items[i].LinkedIssues...)

			for issueID, desc := range items[i].IssueDescriptions {
				if _, ok := outcome.IssueDescriptions[issueID]; !ok {
					outcome.IssueDescriptions[issueID] = entities.LanguageMap{}
				}
				outcome.IssueDescriptions[issueID][lang] = desc
			}
		}

		outcome.SystemItems = append(outcome.SystemItems,
			entities.NewSystemAgendaItem(title, description, uniqueStrings(linked)))
	}
	return outcome, nil
}
