package agenda

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
)

func systemItem(id string, issues ...string) entities.AgendaItem {
	return entities.AgendaItem{
		ID:            id,
		Title:         entities.LanguageMap{"en": "item " + id},
		LinkedIssues:  issues,
		CreatedByType: entities.AgendaAuthorSystem,
	}
}

func userItem(id, title string, issues ...string) entities.AgendaItem {
	author := uuid.New()
	return entities.AgendaItem{
		ID:              id,
		Title:           entities.LanguageMap{"en": title},
		LinkedIssues:    issues,
		CreatedByType:   entities.AgendaAuthorUser,
		CreatedByUserID: &author,
	}
}

func TestDiffSelection(t *testing.T) {
	previous := entities.AgendaItemList{systemItem("a"), systemItem("b"), systemItem("c")}
	selected := entities.AgendaItemList{systemItem("b"), systemItem("d")}

	diff := DiffSelection(selected, previous)

	require.Len(t, diff.Returned, 2)
	assert.Equal(t, "a", diff.Returned[0].ID)
	assert.Equal(t, "c", diff.Returned[1].ID)
	require.Len(t, diff.Claimed, 1)
	assert.Equal(t, "d", diff.Claimed[0].ID)
}

func TestDiffSelectionIgnoresItemsWithoutID(t *testing.T) {
	selected := entities.AgendaItemList{{Title: entities.LanguageMap{"en": "draft"}}}
	previous := entities.AgendaItemList{}

	diff := DiffSelection(selected, previous)
	assert.Empty(t, diff.Claimed)
	assert.Empty(t, diff.Returned)
}

func TestApplySelectionToPool(t *testing.T) {
	pool := entities.AgendaItemList{systemItem("a"), systemItem("b")}
	returned := systemItem("c")
	returned.CreatedByType = ""

	updated := applySelectionToPool(pool, SelectionDiff{
		Claimed:  entities.AgendaItemList{systemItem("b")},
		Returned: entities.AgendaItemList{returned},
	})

	require.Len(t, updated, 2)
	assert.Equal(t, "a", updated[0].ID)
	assert.Equal(t, "c", updated[1].ID)
	// Returned items without an author type come back as SYSTEM.
	assert.Equal(t, entities.AgendaAuthorSystem, updated[1].CreatedByType)
}

func TestDedupeLinkedIssuesLastSubmittedWins(t *testing.T) {
	items := entities.AgendaItemList{
		userItem("a", "roads", "i1", "i2"),
		userItem("b", "water", "i2", "i3"),
		userItem("c", "power", "i3"),
	}

	dedupeLinkedIssues(items)

	assert.Equal(t, []string{"i1"}, items[0].LinkedIssues)
	assert.Equal(t, []string{"i2"}, items[1].LinkedIssues)
	assert.Equal(t, []string{"i3"}, items[2].LinkedIssues)
}

func TestDedupeLinkedIssuesEmptyList(t *testing.T) {
	items := entities.AgendaItemList{}
	dedupeLinkedIssues(items)
	assert.Empty(t, items)
}

func TestMergeSystemItemsDedupesByEnglishTitle(t *testing.T) {
	user := entities.AgendaItemList{
		userItem("u1", "Road repair", "i1"),
	}
	incoming := entities.AgendaItemList{
		systemItem("s1", "i2"),
		systemItem("s2", "i3"),
	}
	incoming[0].Title = entities.LanguageMap{"en": "  Road repair "}
	incoming[1].Title = entities.LanguageMap{"en": "Water supply"}

	merged := MergeSystemItems(user, incoming)

	require.Len(t, merged, 2)
	assert.Equal(t, "u1", merged[0].ID)
	assert.Equal(t, "s2", merged[1].ID)
}

func TestMergeSystemItemsUserItemsSortFirst(t *testing.T) {
	user := entities.AgendaItemList{userItem("u1", "one"), userItem("u2", "two")}
	incoming := entities.AgendaItemList{systemItem("s1")}
	incoming[0].Title = entities.LanguageMap{"en": "three"}

	merged := MergeSystemItems(user, incoming)

	require.Len(t, merged, 3)
	assert.True(t, merged[0].IsUser())
	assert.True(t, merged[1].IsUser())
	assert.False(t, merged[2].IsUser())
}

func TestDiffIssueSets(t *testing.T) {
	old := entities.IssueIDList{"i1", "i2", "i3"}
	unlinked := diffIssueSets(old, []string{"i2", "i4"})
	assert.Equal(t, []string{"i1", "i3"}, unlinked)

	assert.Nil(t, diffIssueSets(entities.IssueIDList{}, []string{"i1"}))
}
