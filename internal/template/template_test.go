package template

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdinalDate(t *testing.T) {
	tests := []struct {
		day  int
		want string
	}{
		{1, "1st"}, {2, "2nd"}, {3, "3rd"}, {4, "4th"},
		{11, "11th"}, {21, "21st"}, {22, "22nd"}, {23, "23rd"}, {31, "31st"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ordinalDate(tt.day))
	}
}

func TestFormatDateTime(t *testing.T) {
	assert.Equal(t, "2nd December 2021 4:16:07 pm", formatDateTime(time.Date(2021, 12, 2, 16, 16, 7, 0, time.UTC)))
	assert.Equal(t, "1st January 2022 12:05:00 am", formatDateTime(time.Date(2022, 1, 1, 0, 5, 0, 0, time.UTC)))
	assert.Equal(t, "-", formatDateTime(time.Time{}))
}

func TestNewReportTemplate(t *testing.T) {
	tmpl, err := NewReportTemplate()
	require.NoError(t, err)

	var buf bytes.Buffer
	type errorRecord struct{ RepositoryIdentifier, ErrorMessage string }
	data := struct {
		GeneratedAt   time.Time
		TotalFindings int
		Sections      []struct{}
		Errors        []errorRecord
	}{GeneratedAt: time.Date(2021, 12, 2, 16, 16, 7, 0, time.UTC)}

	err = tmpl.Execute(&buf, data)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No findings.")

	buf.Reset()
	data.Errors = []errorRecord{{RepositoryIdentifier: "r2", ErrorMessage: "<clone failed>"}}
	require.NoError(t, tmpl.Execute(&buf, data))
	assert.NotContains(t, buf.String(), "No findings.")
	assert.Contains(t, buf.String(), "&lt;clone failed&gt;")
}
