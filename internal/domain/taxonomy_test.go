package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTaxonomy(t *testing.T) {
	tax := DefaultTaxonomy()

	assert.Equal(t, []string{"Ib", "Ia", "Ic", "II", "NotSN"}, tax.Categories())
	assert.Equal(t, 5, tax.CategoryCount())

	ia, err := tax.SubtypesOf("Ia")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ia", "Ia-norm", "Ia-91T", "Ia-91bg", "Ia-csm", "Ia-pec", "Ia-99aa", "Ia-02cx"}, ia)
	assert.NotContains(t, ia, "", "empty labels must not survive")

	cat, ok := tax.CategoryOf("IIb")
	assert.True(t, ok)
	assert.Equal(t, "Ib", cat, "IIb is a stripped-envelope subtype")

	_, ok = tax.CategoryOf("Ia-unknown")
	assert.False(t, ok)
}

func TestTaxonomySubtypesOfUnknown(t *testing.T) {
	_, err := DefaultTaxonomy().SubtypesOf("Iax")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestTaxonomyReturnsCopies(t *testing.T) {
	tax := DefaultTaxonomy()

	cats := tax.Categories()
	cats[0] = "mutated"
	assert.Equal(t, "Ib", tax.Categories()[0])

	subs, err := tax.SubtypesOf("II")
	require.NoError(t, err)
	subs[0] = "mutated"
	again, _ := tax.SubtypesOf("II")
	assert.Equal(t, "II", again[0])
}

func TestNewTaxonomyNormalisation(t *testing.T) {
	tax, err := NewTaxonomy([]Category{
		{Name: "Ia", Subtypes: []string{"Ia", "Ia-csm", "", "Ia-pec", "Ia-pec"}},
		{Name: "II", Subtypes: []string{"II"}},
	})
	require.NoError(t, err)

	subs, err := tax.SubtypesOf("Ia")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ia", "Ia-csm", "Ia-pec"}, subs)
	assert.Equal(t, 2, tax.CategoryCount())
	assert.Len(t, tax.All(), 2)
}

func TestNewTaxonomyValidation(t *testing.T) {
	tests := []struct {
		name       string
		categories []Category
		wantMsg    string
	}{
		{
			name:    "no categories",
			wantMsg: "at least one category is required",
		},
		{
			name:       "empty name",
			categories: []Category{{Name: "", Subtypes: []string{"Ia"}}},
			wantMsg:    "category 0 has an empty name",
		},
		{
			name: "duplicate category",
			categories: []Category{
				{Name: "Ia", Subtypes: []string{"Ia"}},
				{Name: "Ia", Subtypes: []string{"Ia-norm"}},
			},
			wantMsg: `category "Ia" is declared twice`,
		},
		{
			name: "label in two categories",
			categories: []Category{
				{Name: "Ib", Subtypes: []string{"IIb"}},
				{Name: "II", Subtypes: []string{"II", "IIb"}},
			},
			wantMsg: `subtype "IIb" belongs to both "Ib" and "II"`,
		},
		{
			name:       "only empty labels",
			categories: []Category{{Name: "Ia", Subtypes: []string{"", ""}}},
			wantMsg:    `category "Ia" has no subtypes`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax, err := NewTaxonomy(tt.categories)
			require.Error(t, err)
			assert.Nil(t, tax)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Errors, tt.wantMsg)
		})
	}
}
