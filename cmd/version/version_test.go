package version

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/checkview/pkg/shared"
)

func TestPrintVersionInfo(t *testing.T) {
	info := VersionInfo{
		Versions:   shared.Versions{Version: "1.2.0", GolangVersion: "go1.19.13", BuildTime: "2024-03-05T14:07:09Z"},
		ServiceURL: "https://scanner.example.com",
	}

	var text bytes.Buffer
	require.NoError(t, printVersionInfo(&text, info, false))
	assert.Equal(t, "Core Version: v1.2.0\nGo Version: go1.19.13\nBuild Time: 2024-03-05T14:07:09Z\nScanning Service: https://scanner.example.com\n", text.String())

	var js bytes.Buffer
	require.NoError(t, printVersionInfo(&js, info, true))
	var decoded VersionInfo
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, info, decoded)
}
