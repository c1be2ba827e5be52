package entities

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgendaItemValidate(t *testing.T) {
	author := uuid.New()

	userItem := NewUserAgendaItem(LanguageMap{"en": "Road repair"}, nil, []string{"issue-1"}, author)
	require.NoError(t, userItem.Validate())

	userItem.CreatedByUserID = nil
	assert.ErrorIs(t, userItem.Validate(), ErrMissingAuthor)

	systemItem := NewSystemAgendaItem(LanguageMap{"en": "Water supply"}, nil, nil)
	require.NoError(t, systemItem.Validate())

	unknown := AgendaItem{CreatedByType: "ROBOT"}
	assert.Error(t, unknown.Validate())
}

func TestLinkedIssueUnionPreservesFirstSeenOrder(t *testing.T) {
	list := AgendaItemList{
		{ID: "a", LinkedIssues: []string{"i1", "i2"}},
		{ID: "b", LinkedIssues: []string{"i2", "i3"}},
		{ID: "c", LinkedIssues: []string{"i1"}},
	}

	assert.Equal(t, []string{"i1", "i2", "i3"}, list.LinkedIssueUnion())
}

func TestUserAndSystemItemSplit(t *testing.T) {
	author := uuid.New()
	list := AgendaItemList{
		NewSystemAgendaItem(LanguageMap{"en": "S1"}, nil, nil),
		NewUserAgendaItem(LanguageMap{"en": "U1"}, nil, nil, author),
		NewSystemAgendaItem(LanguageMap{"en": "S2"}, nil, nil),
	}

	users := list.UserItems()
	require.Len(t, users, 1)
	assert.Equal(t, "U1", users[0].Title["en"])

	systems := list.SystemItems()
	require.Len(t, systems, 2)
	assert.Equal(t, "S1", systems[0].Title["en"])
	assert.Equal(t, "S2", systems[1].Title["en"])
}

func TestLanguageCode(t *testing.T) {
	assert.Equal(t, "en", LanguageCode("english"))
	assert.Equal(t, "en", LanguageCode("English"))
	assert.Equal(t, "en", LanguageCode("en"))
	assert.Equal(t, "hi", LanguageCode("hindi"))
	assert.Equal(t, "hi", LanguageCode("hi"))
	assert.Equal(t, "marathi", LanguageCode("Marathi"))
}

func TestEnglishTitleKeyTrims(t *testing.T) {
	item := AgendaItem{Title: LanguageMap{"en": "  Street lights  "}}
	assert.Equal(t, "Street lights", item.EnglishTitleKey())
}
