package results

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/scan-io-git/checkview/internal/catalog"
)

const (
	KeyFileMode        = "filemode"
	KeyFileSize        = "filesize"
	KeyCharacter       = "character"
	KeyCommitMessage   = "commitMessage"
	KeyAuthorName      = "authorName"
	KeyAuthorEmail     = "authorEmail"
	KeyCommiterName    = "commiterName"
	KeyCommiterEmail   = "commiterEmail"
	KeyCommitSize      = "commitSize"
	KeyNumberOfParents = "numberOfParents"
)

// Details holds the check-specific extra fields of a finding. The concrete type
// is chosen by the category of the finding's check.
type Details interface {
	Category() catalog.Category
	// Fields returns the extra fields as a flat map with the values the service sent.
	// Every key present in the decoded input is present here.
	Fields() map[string]any
	clone() Details
}

// GenericDetails is the fallback bag for checks without a dedicated variant.
type GenericDetails map[string]any

func (GenericDetails) Category() catalog.Category { return catalog.CategoryGeneric }

func (g GenericDetails) Fields() map[string]any {
	out := make(map[string]any, len(g))
	for k, v := range g {
		out[k] = v
	}
	return out
}

func (g GenericDetails) clone() Details {
	if g == nil {
		return GenericDetails(nil)
	}
	return GenericDetails(g.Fields())
}

type BinaryDetails struct {
	FileMode string
	FileSize string
	Other    GenericDetails
}

func (BinaryDetails) Category() catalog.Category { return catalog.CategoryBinary }

func (d BinaryDetails) Fields() map[string]any {
	out := d.Other.Fields()
	putString(out, KeyFileMode, d.FileMode)
	putString(out, KeyFileSize, d.FileSize)
	return out
}

func (d BinaryDetails) clone() Details {
	d.Other = cloneBag(d.Other)
	return d
}

type UnicodeDetails struct {
	FileMode  string
	FileSize  string
	Character string
	Other     GenericDetails
}

func (UnicodeDetails) Category() catalog.Category { return catalog.CategoryUnicode }

func (d UnicodeDetails) Fields() map[string]any {
	out := d.Other.Fields()
	putString(out, KeyFileMode, d.FileMode)
	putString(out, KeyFileSize, d.FileSize)
	putString(out, KeyCharacter, d.Character)
	return out
}

func (d UnicodeDetails) clone() Details {
	d.Other = cloneBag(d.Other)
	return d
}

// CommitMetaDetails keeps the service's numberOfParents value in Other; the
// parsed count is only a typed view of it.
type CommitMetaDetails struct {
	CommitMessage   string
	AuthorName      string
	AuthorEmail     string
	CommiterName    string
	CommiterEmail   string
	CommitSize      string
	NumberOfParents *int
	Other           GenericDetails
}

func (CommitMetaDetails) Category() catalog.Category { return catalog.CategoryCommitMeta }

func (d CommitMetaDetails) Fields() map[string]any {
	out := d.Other.Fields()
	putString(out, KeyCommitMessage, d.CommitMessage)
	putString(out, KeyAuthorName, d.AuthorName)
	putString(out, KeyAuthorEmail, d.AuthorEmail)
	putString(out, KeyCommiterName, d.CommiterName)
	putString(out, KeyCommiterEmail, d.CommiterEmail)
	putString(out, KeyCommitSize, d.CommitSize)
	if _, ok := out[KeyNumberOfParents]; !ok && d.NumberOfParents != nil {
		out[KeyNumberOfParents] = *d.NumberOfParents
	}
	return out
}

func (d CommitMetaDetails) clone() Details {
	d.Other = cloneBag(d.Other)
	if d.NumberOfParents != nil {
		n := *d.NumberOfParents
		d.NumberOfParents = &n
	}
	return d
}

type BigFileDetails struct {
	FileMode string
	FileSize string
	Other    GenericDetails
}

func (BigFileDetails) Category() catalog.Category { return catalog.CategoryBigFile }

func (d BigFileDetails) Fields() map[string]any {
	out := d.Other.Fields()
	putString(out, KeyFileMode, d.FileMode)
	putString(out, KeyFileSize, d.FileSize)
	return out
}

func (d BigFileDetails) clone() Details {
	d.Other = cloneBag(d.Other)
	return d
}

// DecodeDetails builds the variant for category from a decoded additionalInfo
// object. Keys the variant does not know, known keys with an unexpected type
// and known keys holding an empty string are kept in the variant's Other bag.
func DecodeDetails(category catalog.Category, info map[string]any) Details {
	bag := newBag(info)

	switch category {
	case catalog.CategoryBinary:
		return BinaryDetails{
			FileMode: bag.takeString(KeyFileMode),
			FileSize: bag.takeString(KeyFileSize),
			Other:    bag.rest(),
		}
	case catalog.CategoryUnicode:
		return UnicodeDetails{
			FileMode:  bag.takeString(KeyFileMode),
			FileSize:  bag.takeString(KeyFileSize),
			Character: bag.takeString(KeyCharacter),
			Other:     bag.rest(),
		}
	case catalog.CategoryCommitMeta:
		return CommitMetaDetails{
			CommitMessage:   bag.takeString(KeyCommitMessage),
			AuthorName:      bag.takeString(KeyAuthorName),
			AuthorEmail:     bag.takeString(KeyAuthorEmail),
			CommiterName:    bag.takeString(KeyCommiterName),
			CommiterEmail:   bag.takeString(KeyCommiterEmail),
			CommitSize:      bag.takeString(KeyCommitSize),
			NumberOfParents: bag.parseInt(KeyNumberOfParents),
			Other:           bag.rest(),
		}
	case catalog.CategoryBigFile:
		return BigFileDetails{
			FileMode: bag.takeString(KeyFileMode),
			FileSize: bag.takeString(KeyFileSize),
			Other:    bag.rest(),
		}
	default:
		return bag.rest()
	}
}

type bag map[string]any

func newBag(info map[string]any) bag {
	b := make(bag, len(info))
	for k, v := range info {
		b[k] = v
	}
	return b
}

func (b bag) takeString(key string) string {
	s, ok := b[key].(string)
	if !ok || s == "" {
		return ""
	}
	delete(b, key)
	return s
}

// parseInt reads key as an integer and leaves the original value in the bag.
func (b bag) parseInt(key string) *int {
	n, ok := toInt(b[key])
	if !ok {
		return nil
	}
	return &n
}

func (b bag) rest() GenericDetails {
	if len(b) == 0 {
		return nil
	}
	return GenericDetails(b)
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}

func putString(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}

func cloneBag(g GenericDetails) GenericDetails {
	if g == nil {
		return nil
	}
	return GenericDetails(g.Fields())
}

// FormatValue renders a scalar extra value for display.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
