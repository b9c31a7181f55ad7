package domain

import (
	"fmt"
	"slices"
)

// Category is a coarse supernova class together with the fine-grained
// subtype labels that belong to it.
type Category struct {
	Name     string
	Subtypes []string
}

// Taxonomy maps coarse categories to their subtype labels. It is built once
// at start-up and shared read-only by every Reader and Aggregator; no method
// mutates it.
type Taxonomy struct {
	order    []string
	subtypes map[string][]string
	owner    map[string]string // subtype label -> category
}

// NewTaxonomy builds a Taxonomy from categories in the given order.
// Empty subtype labels are dropped and repeated labels inside one category
// are collapsed. Empty or repeated category names, categories left without
// labels, and a label claimed by two categories are validation errors.
func NewTaxonomy(categories []Category) (*Taxonomy, error) {
	verr := NewValidationError("taxonomy")
	if len(categories) == 0 {
		verr.AddError("at least one category is required")
		return nil, verr
	}

	t := &Taxonomy{
		order:    make([]string, 0, len(categories)),
		subtypes: make(map[string][]string, len(categories)),
		owner:    make(map[string]string),
	}
	for i, c := range categories {
		if c.Name == "" {
			verr.AddError(fmt.Sprintf("category %d has an empty name", i))
			continue
		}
		if _, dup := t.subtypes[c.Name]; dup {
			verr.AddError(fmt.Sprintf("category %q is declared twice", c.Name))
			continue
		}

		labels := make([]string, 0, len(c.Subtypes))
		for _, label := range c.Subtypes {
			if label == "" || slices.Contains(labels, label) {
				continue
			}
			if prev, taken := t.owner[label]; taken {
				verr.AddError(fmt.Sprintf("subtype %q belongs to both %q and %q", label, prev, c.Name))
				continue
			}
			t.owner[label] = c.Name
			labels = append(labels, label)
		}
		if len(labels) == 0 {
			verr.AddError(fmt.Sprintf("category %q has no subtypes", c.Name))
			continue
		}

		t.order = append(t.order, c.Name)
		t.subtypes[c.Name] = labels
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return t, nil
}

// DefaultCategories returns the SNID type classification used when no
// taxonomy is configured.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Ib", Subtypes: []string{"Ib", "Ib-norm", "Ib-pec", "IIb"}},
		{Name: "Ia", Subtypes: []string{"Ia", "Ia-norm", "Ia-91T", "Ia-91bg", "Ia-csm", "Ia-pec", "Ia-99aa", "Ia-02cx"}},
		{Name: "Ic", Subtypes: []string{"Ic", "Ic-norm", "Ic-pec", "Ic-broad"}},
		{Name: "II", Subtypes: []string{"II", "IIP", "II-pec", "IIn", "IIL"}},
		{Name: "NotSN", Subtypes: []string{"AGN", "Gal", "LBV", "M-star", "QSO", "C-star"}},
	}
}

// DefaultTaxonomy returns a Taxonomy built from DefaultCategories.
func DefaultTaxonomy() *Taxonomy {
	t, err := NewTaxonomy(DefaultCategories())
	if err != nil {
		panic(fmt.Sprintf("default taxonomy is invalid: %v", err))
	}
	return t
}

// Categories returns the category names in declaration order.
func (t *Taxonomy) Categories() []string { return slices.Clone(t.order) }

// CategoryCount returns the number of categories.
func (t *Taxonomy) CategoryCount() int { return len(t.order) }

// Has reports whether category is declared.
func (t *Taxonomy) Has(category string) bool {
	_, ok := t.subtypes[category]
	return ok
}

// SubtypesOf returns the subtype labels of category in declaration order.
// It fails with ErrUnknownCategory if the category is not declared.
func (t *Taxonomy) SubtypesOf(category string) ([]string, error) {
	labels, ok := t.subtypes[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return slices.Clone(labels), nil
}

// CategoryOf returns the category that owns a subtype label.
func (t *Taxonomy) CategoryOf(label string) (string, bool) {
	c, ok := t.owner[label]
	return c, ok
}

// All returns every category with its subtypes, in declaration order.
func (t *Taxonomy) All() []Category {
	out := make([]Category, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, Category{Name: name, Subtypes: slices.Clone(t.subtypes[name])})
	}
	return out
}
