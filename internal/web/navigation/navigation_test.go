package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFiltersByPermission(t *testing.T) {
	items := Build(map[string]bool{}, "/home")

	for _, item := range items {
		assert.Empty(t, item.Permission, "gated entry %q leaked through", item.Title)
	}
}

func TestBuildIncludesGrantedEntries(t *testing.T) {
	items := Build(map[string]bool{"sale.search": true, "admin.users": true}, "/sales")

	var titles []string
	for _, item := range items {
		titles = append(titles, item.Title)
	}

	assert.Contains(t, titles, "Sales")
	assert.Contains(t, titles, "Users")
	assert.NotContains(t, titles, "Buyers")
}

func TestBuildMarksActiveEntry(t *testing.T) {
	items := Build(map[string]bool{"sale.search": true}, "/sales/new")

	for _, item := range items {
		if item.Title == "Sales" {
			assert.True(t, item.Active)
		} else {
			assert.False(t, item.Active, "%q should not be active", item.Title)
		}
	}
}
