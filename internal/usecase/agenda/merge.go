package agenda

import (
	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
)

// SelectionDiff is the outcome of comparing a meeting's new agenda selection
// against its previous snapshot.
type SelectionDiff struct {
	// Returned are items from the previous snapshot that were deselected
	// and go back into the panchayat-wide pool.
	Returned entities.AgendaItemList
	// Claimed are items newly selected this edit; they leave the pool.
	Claimed entities.AgendaItemList
}

// DiffSelection compares by item id: previous items missing from selected are
// returned to the pool; selected items missing from previous are claimed.
func DiffSelection(selected, previous entities.AgendaItemList) SelectionDiff {
	selectedIDs := make(map[string]struct{}, len(selected))
	for _, item := range selected {
		if item.ID != "" {
			selectedIDs[item.ID] = struct{}{}
		}
	}
	previousIDs := make(map[string]struct{}, len(previous))
	for _, item := range previous {
		if item.ID != "" {
			previousIDs[item.ID] = struct{}{}
		}
	}

	var diff SelectionDiff
	for _, item := range previous {
		if _, ok := selectedIDs[item.ID]; !ok {
			diff.Returned = append(diff.Returned, item)
		}
	}
	for _, item := range selected {
		if item.ID == "" {
			continue
		}
		if _, ok := previousIDs[item.ID]; !ok {
			diff.Claimed = append(diff.Claimed, item)
		}
	}
	return diff
}

// applySelectionToPool rebuilds the pool agenda after a meeting edit: claimed
// items leave, returned items come back. Items returning without an author
// type default to SYSTEM.
func applySelectionToPool(pool entities.AgendaItemList, diff SelectionDiff) entities.AgendaItemList {
	claimedIDs := make(map[string]struct{}, len(diff.Claimed))
	for _, item := range diff.Claimed {
		claimedIDs[item.ID] = struct{}{}
	}

	updated := make(entities.AgendaItemList, 0, len(pool)+len(diff.Returned))
	for _, item := range pool {
		if _, ok := claimedIDs[item.ID]; ok {
			continue
		}
		updated = append(updated, item)
	}
	for _, item := range diff.Returned {
		if item.CreatedByType == "" {
			item.CreatedByType = entities.AgendaAuthorSystem
		}
		updated = append(updated, item)
	}
	return updated
}

// dedupeLinkedIssues enforces linkage uniqueness across the given items:
// scanning from the end, the most-recently-submitted item keeps each issue
// id and earlier items lose it. Items are modified in place.
func dedupeLinkedIssues(items entities.AgendaItemList) {
	owned := make(map[string]struct{})
	for i := len(items) - 1; i >= 0; i-- {
		kept := items[i].LinkedIssues[:0:0]
		for _, id := range items[i].LinkedIssues {
			if _, ok := owned[id]; ok {
				continue
			}
			owned[id] = struct{}{}
			kept = append(kept, id)
		}
		items[i].LinkedIssues = kept
	}
}

// MergeSystemItems appends incoming SYSTEM items to the USER items, dropping
// any SYSTEM item whose trimmed English title matches an existing USER
// item's. USER items always sort first.
func MergeSystemItems(userItems, systemItems entities.AgendaItemList) entities.AgendaItemList {
	userTitles := make(map[string]struct{}, len(userItems))
	for _, item := range userItems {
		userTitles[item.EnglishTitleKey()] = struct{}{}
	}

	merged := make(entities.AgendaItemList, 0, len(userItems)+len(systemItems))
	merged = append(merged, userItems...)
	for _, item := range systemItems {
		if _, ok := userTitles[item.EnglishTitleKey()]; ok {
			continue
		}
		merged = append(merged, item)
	}
	return merged
}

// diffIssueSets splits old vs new linked-issue sets into the ids to unlink
// (present before, absent now) and the full new link set.
func diffIssueSets(oldIDs entities.IssueIDList, newIDs []string) (unlinked []string) {
	current := make(map[string]struct{}, len(newIDs))
	for _, id := range newIDs {
		current[id] = struct{}{}
	}
	for _, id := range oldIDs {
		if _, ok := current[id]; !ok {
			unlinked = append(unlinked, id)
		}
	}
	return unlinked
}
