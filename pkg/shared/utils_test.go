package shared

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{name: "No flags", args: nil, want: false},
		{name: "Help only", args: []string{"--help"}, want: false},
		{name: "Format set", args: []string{"--format", "json"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
			flags.Bool("help", false, "")
			flags.String("format", "", "")
			require.NoError(t, flags.Parse(tt.args))
			assert.Equal(t, tt.want, HasFlags(flags))
		})
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList([]string{" SearchBinaries, ,SearchBigFiles", "CheckCommitMetaInformation"})
	assert.Equal(t, []string{"SearchBinaries", "SearchBigFiles", "CheckCommitMetaInformation"}, got)
	assert.Empty(t, SplitList([]string{" , "}))
}
