package results

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/checkview/internal/catalog"
)

func intPtr(n int) *int { return &n }

func TestDecodeDetails(t *testing.T) {
	tests := []struct {
		name     string
		category catalog.Category
		info     map[string]any
		want     Details
	}{
		{
			name:     "Binary",
			category: catalog.CategoryBinary,
			info:     map[string]any{"filemode": "0100644", "filesize": "54.3 kB"},
			want:     BinaryDetails{FileMode: "0100644", FileSize: "54.3 kB"},
		},
		{
			name:     "Unicode",
			category: catalog.CategoryUnicode,
			info:     map[string]any{"filemode": "0100644", "filesize": "2 kB", "character": `'‮'`},
			want:     UnicodeDetails{FileMode: "0100644", FileSize: "2 kB", Character: `'‮'`},
		},
		{
			name:     "Commit metadata with string parents",
			category: catalog.CategoryCommitMeta,
			info: map[string]any{
				"authorName": "a", "authorEmail": "a@x", "commiterName": "c", "commiterEmail": "c@x",
				"commitMessage": "msg", "commitSize": "1.2 MB", "numberOfParents": "2",
			},
			want: CommitMetaDetails{
				AuthorName: "a", AuthorEmail: "a@x", CommiterName: "c", CommiterEmail: "c@x",
				CommitMessage: "msg", CommitSize: "1.2 MB", NumberOfParents: intPtr(2),
				Other: GenericDetails{"numberOfParents": "2"},
			},
		},
		{
			name:     "Commit metadata with numeric parents",
			category: catalog.CategoryCommitMeta,
			info:     map[string]any{"numberOfParents": float64(1)},
			want:     CommitMetaDetails{NumberOfParents: intPtr(1), Other: GenericDetails{"numberOfParents": float64(1)}},
		},
		{
			name:     "Commit metadata with empty and null values",
			category: catalog.CategoryCommitMeta,
			info: map[string]any{
				"authorName": "dev", "authorEmail": "", "commitMessage": "", "commiterEmail": nil,
			},
			want: CommitMetaDetails{
				AuthorName: "dev",
				Other:      GenericDetails{"authorEmail": "", "commitMessage": "", "commiterEmail": nil},
			},
		},
		{
			name:     "Commit metadata with unparsable parents",
			category: catalog.CategoryCommitMeta,
			info:     map[string]any{"numberOfParents": "many"},
			want:     CommitMetaDetails{Other: GenericDetails{"numberOfParents": "many"}},
		},
		{
			name:     "Binary with empty file mode",
			category: catalog.CategoryBinary,
			info:     map[string]any{"filemode": "", "filesize": "3 kB"},
			want:     BinaryDetails{FileSize: "3 kB", Other: GenericDetails{"filemode": ""}},
		},
		{
			name:     "Unicode with null character",
			category: catalog.CategoryUnicode,
			info:     map[string]any{"character": nil},
			want:     UnicodeDetails{Other: GenericDetails{"character": nil}},
		},
		{
			name:     "Big file keeps unknown keys",
			category: catalog.CategoryBigFile,
			info:     map[string]any{"filesize": "90 kB", "err": "partial"},
			want:     BigFileDetails{FileSize: "90 kB", Other: GenericDetails{"err": "partial"}},
		},
		{
			name:     "Known key with unexpected type goes to the bag",
			category: catalog.CategoryBinary,
			info:     map[string]any{"filesize": float64(12)},
			want:     BinaryDetails{Other: GenericDetails{"filesize": float64(12)}},
		},
		{
			name:     "Generic",
			category: catalog.CategoryGeneric,
			info:     map[string]any{"rule": "aws-key"},
			want:     GenericDetails{"rule": "aws-key"},
		},
		{
			name:     "Generic empty",
			category: catalog.CategoryGeneric,
			info:     nil,
			want:     GenericDetails(nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeDetails(tt.category, tt.info)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.category, got.Category())
		})
	}
}

func TestDecodeDetailsDoesNotModifyInput(t *testing.T) {
	info := map[string]any{"filemode": "0100755", "filesize": "1 kB"}
	DecodeDetails(catalog.CategoryBinary, info)
	assert.Len(t, info, 2)
}

func TestDetailsFieldsRoundTrip(t *testing.T) {
	info := map[string]any{
		"authorName": "a", "commitMessage": "fix", "numberOfParents": "0", "extra": true,
	}
	d := DecodeDetails(catalog.CategoryCommitMeta, info)
	assert.Equal(t, map[string]any{
		"authorName": "a", "commitMessage": "fix", "numberOfParents": "0", "extra": true,
	}, d.Fields())
}

func TestDetailsFieldsKeepEveryKey(t *testing.T) {
	tests := []struct {
		name     string
		category catalog.Category
		info     map[string]any
	}{
		{
			name:     "Commit metadata",
			category: catalog.CategoryCommitMeta,
			info: map[string]any{
				"authorName": "dev", "authorEmail": "", "commiterName": "dev", "commiterEmail": "",
				"commitMessage": "", "commitSize": nil, "numberOfParents": "1",
			},
		},
		{
			name:     "Commit metadata with numeric parents",
			category: catalog.CategoryCommitMeta,
			info:     map[string]any{"numberOfParents": float64(2)},
		},
		{
			name:     "Binary",
			category: catalog.CategoryBinary,
			info:     map[string]any{"filemode": "", "filesize": nil},
		},
		{
			name:     "Unicode",
			category: catalog.CategoryUnicode,
			info:     map[string]any{"filemode": "0100644", "filesize": "", "character": ""},
		},
		{
			name:     "Big file",
			category: catalog.CategoryBigFile,
			info:     map[string]any{"filemode": "0100644", "filesize": ""},
		},
		{
			name:     "Generic",
			category: catalog.CategoryGeneric,
			info:     map[string]any{"rule": "", "line": nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.info, DecodeDetails(tt.category, tt.info).Fields())
		})
	}
}

func TestCommitMetaFieldsWithoutRawParents(t *testing.T) {
	d := CommitMetaDetails{AuthorName: "dev", NumberOfParents: intPtr(2)}
	assert.Equal(t, map[string]any{"authorName": "dev", "numberOfParents": 2}, d.Fields())
}

func TestToInt(t *testing.T) {
	tests := []struct {
		in     any
		want   int
		wantOK bool
	}{
		{in: float64(3), want: 3, wantOK: true},
		{in: 1.5, wantOK: false},
		{in: " 4 ", want: 4, wantOK: true},
		{in: "four", wantOK: false},
		{in: json.Number("5"), want: 5, wantOK: true},
		{in: true, wantOK: false},
		{in: nil, wantOK: false},
	}
	for _, tt := range tests {
		got, ok := toInt(tt.in)
		require.Equal(t, tt.wantOK, ok, "%v", tt.in)
		if ok {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "12.5 kB", FormatValue("12.5 kB"))
	assert.Equal(t, "2", FormatValue(float64(2)))
	assert.Equal(t, "0.25", FormatValue(0.25))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "3", FormatValue(3))
}
