package core_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notepad/pkg/core"
)

// legacyRecord is laid out the way the Python plugin wrote records.
const legacyRecord = `{
  "title": "Missions",
  "game": "Test",
  "created_at": %[1]s,
  "updated_at": %[1]s,
  "entries": [
    {
      "id": 1,
      "content": "Kill 10 rats ✓",
      "created_at": %[1]s
    }
  ]
}`

func TestDecodeLegacyTimestamps(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Time
		display string
	}{
		{
			name:    "naive with microseconds",
			raw:     `"2024-01-01T10:00:00.123456"`,
			want:    time.Date(2024, 1, 1, 10, 0, 0, 123456000, time.Local),
			display: "2024-01-01 10:00:00",
		},
		{
			name:    "naive without fraction",
			raw:     `"2024-01-01T10:00:00"`,
			want:    time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local),
			display: "2024-01-01 10:00:00",
		},
		{
			name:    "rfc3339",
			raw:     `"2024-01-01T10:00:00Z"`,
			want:    time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			display: "2024-01-01 10:00:00",
		},
		{name: "null", raw: `null`, display: "Unknown"},
		{name: "empty", raw: `""`, display: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := core.DecodeNotepad([]byte(fmt.Sprintf(legacyRecord, tt.raw)))
			require.NoError(t, err)
			require.Len(t, n.Entries, 1)
			assert.Equal(t, "Kill 10 rats ✓", n.Entries[0].Content)

			for _, ts := range []core.Timestamp{n.CreatedAt, n.UpdatedAt, n.Entries[0].CreatedAt} {
				assert.True(t, ts.Equal(tt.want), "got %v, want %v", ts.Time, tt.want)
				assert.Equal(t, tt.display, ts.Display())
			}

			data, err := core.EncodeNotepad(n)
			require.NoError(t, err)
			stored := `""`
			if !tt.want.IsZero() {
				stored = `"` + tt.want.Format(time.RFC3339Nano) + `"`
			}
			assert.Contains(t, string(data), `"created_at": `+stored)
			assert.Contains(t, string(data), "✓", "non-ASCII is written verbatim")

			again, err := core.DecodeNotepad(data)
			require.NoError(t, err)
			assert.True(t, again.CreatedAt.Equal(n.CreatedAt.Time))
			assert.True(t, again.Entries[0].CreatedAt.Equal(n.Entries[0].CreatedAt.Time))
			assert.Equal(t, tt.display, again.UpdatedAt.Display())
		})
	}
}

func TestDecodeRejectsBadTimestamp(t *testing.T) {
	_, err := core.DecodeNotepad([]byte(fmt.Sprintf(legacyRecord, `"yesterday"`)))
	assert.Error(t, err)

	_, err = core.DecodeNotepad([]byte(fmt.Sprintf(legacyRecord, `12`)))
	assert.Error(t, err)
}

func TestDecodeMissingEntries(t *testing.T) {
	n, err := core.DecodeNotepad([]byte(`{"title":"Empty","game":"Test"}`))
	require.NoError(t, err)
	assert.NotNil(t, n.Entries)
	assert.Empty(t, n.Entries)
	assert.Equal(t, "Unknown", n.CreatedAt.Display())
}
