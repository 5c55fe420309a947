// Package catalog is the registry of checks the scanning service can run.
package catalog

import (
	"strings"

	"github.com/scan-io-git/checkview/pkg/shared/errors"
)

// Category selects how the extra fields of a finding are interpreted.
type Category int

const (
	CategoryGeneric Category = iota
	CategoryBinary
	CategoryUnicode
	CategoryCommitMeta
	CategoryBigFile
)

func (c Category) String() string {
	switch c {
	case CategoryBinary:
		return "binary"
	case CategoryUnicode:
		return "unicode"
	case CategoryCommitMeta:
		return "commitmeta"
	case CategoryBigFile:
		return "bigfile"
	default:
		return "generic"
	}
}

const (
	SearchBinaries                 = "SearchBinaries"
	SearchIllegalUnicodeCharacters = "SearchIllegalUnicodeCharacters"
	CheckCommitMetaInformation     = "CheckCommitMetaInformation"
	SearchBigFiles                 = "SearchBigFiles"
)

// CheckDefinition describes one check and the extra fields its findings carry.
type CheckDefinition struct {
	Identifier   string
	DisplayLabel string
	Category     Category
	Fields       []string
}

var builtin = []CheckDefinition{
	{
		Identifier:   SearchBinaries,
		DisplayLabel: "Binary files",
		Category:     CategoryBinary,
		Fields:       []string{"filemode", "filesize"},
	},
	{
		Identifier:   SearchIllegalUnicodeCharacters,
		DisplayLabel: "Illegal unicode characters",
		Category:     CategoryUnicode,
		Fields:       []string{"filemode", "filesize", "character"},
	},
	{
		Identifier:   CheckCommitMetaInformation,
		DisplayLabel: "Commit metadata policy violations",
		Category:     CategoryCommitMeta,
		Fields: []string{
			"authorName", "authorEmail", "commiterName", "commiterEmail",
			"commitMessage", "commitSize", "numberOfParents",
		},
	},
	{
		Identifier:   SearchBigFiles,
		DisplayLabel: "Big files",
		Category:     CategoryBigFile,
		Fields:       []string{"filemode", "filesize"},
	},
}

// Catalog is an ordered, immutable set of check definitions.
type Catalog struct {
	defs  []CheckDefinition
	index map[string]int
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return newCatalog(builtin)
}

// FromNames builds a catalog from the check names announced by the service.
// Known names keep their built-in definition; unknown ones are generic.
func FromNames(names []string) *Catalog {
	known := Default()
	defs := make([]CheckDefinition, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if def, ok := known.Lookup(name); ok {
			defs = append(defs, def)
			continue
		}
		defs = append(defs, CheckDefinition{Identifier: name, DisplayLabel: name, Category: CategoryGeneric})
	}
	return newCatalog(defs)
}

func newCatalog(defs []CheckDefinition) *Catalog {
	c := &Catalog{
		defs:  make([]CheckDefinition, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for i, def := range defs {
		def.Fields = append([]string(nil), def.Fields...)
		c.defs[i] = def
		c.index[def.Identifier] = i
	}
	return c
}

// List returns the definitions in catalog order. The slice is a copy.
func (c *Catalog) List() []CheckDefinition {
	out := make([]CheckDefinition, len(c.defs))
	for i, def := range c.defs {
		def.Fields = append([]string(nil), def.Fields...)
		out[i] = def
	}
	return out
}

// Identifiers returns the check identifiers in catalog order.
func (c *Catalog) Identifiers() []string {
	ids := make([]string, len(c.defs))
	for i, def := range c.defs {
		ids[i] = def.Identifier
	}
	return ids
}

func (c *Catalog) Lookup(identifier string) (CheckDefinition, bool) {
	i, ok := c.index[identifier]
	if !ok {
		return CheckDefinition{}, false
	}
	def := c.defs[i]
	def.Fields = append([]string(nil), def.Fields...)
	return def, true
}

// LabelFor returns the display label, or the identifier itself when unknown.
func (c *Catalog) LabelFor(identifier string) string {
	if i, ok := c.index[identifier]; ok {
		return c.defs[i].DisplayLabel
	}
	return identifier
}

// CategoryOf returns the category of identifier, CategoryGeneric when unknown.
func (c *Catalog) CategoryOf(identifier string) Category {
	if i, ok := c.index[identifier]; ok {
		return c.defs[i].Category
	}
	return CategoryGeneric
}

// Unknown returns the identifiers that are not part of the catalog, in input order.
func (c *Catalog) Unknown(identifiers []string) []string {
	var unknown []string
	for _, id := range identifiers {
		if _, ok := c.index[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	return unknown
}

// Validate fails with a precondition error naming every identifier outside the catalog.
func (c *Catalog) Validate(identifiers []string) error {
	if unknown := c.Unknown(identifiers); len(unknown) > 0 {
		return errors.NewPreconditionError("checks", "unknown check(s): "+strings.Join(unknown, ", "))
	}
	return nil
}
