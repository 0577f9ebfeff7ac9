package refdata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeadlines(t *testing.T) {
	input := strings.Join([]string{
		"title,start,end",
		"Last day to introduce bills,2025-02-21,2025-02-21",
		"Spring recess,2025-04-10,2025-04-21",
	}, "\n")

	deadlines, err := parseDeadlines(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, deadlines, 2)

	assert.Equal(t, "Last day to introduce bills", deadlines[0].Title)
	assert.Equal(t, "2025-02-21", deadlines[0].Start)
	assert.Equal(t, "2025-04-21", deadlines[1].End)
}

func TestParseDeadlinesNoHeader(t *testing.T) {
	input := "Spring recess,2025-04-10,2025-04-21\n"

	deadlines, err := parseDeadlines(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, deadlines, 1)
	assert.Equal(t, "Spring recess", deadlines[0].Title)
}

func TestParseDeadlinesWrongColumnCount(t *testing.T) {
	input := "title,start\nSpring recess,2025-04-10\n"

	_, err := parseDeadlines(strings.NewReader(input))
	assert.Error(t, err)
}

func TestDeadlineStoreReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deadlines.csv")

	write := func(body string) {
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}

	write("title,start,end\nSpring recess,2025-04-10,2025-04-21\n")

	store, err := NewDeadlineStore(path, nil)
	require.NoError(t, err)
	require.Len(t, store.All(), 1)

	write("title,start,end\nSpring recess,2025-04-10,2025-04-21\nFinal recess,2025-09-13,2026-01-04\n")
	require.NoError(t, store.Reload())
	assert.Len(t, store.All(), 2)

	// A broken file keeps the previous snapshot.
	write("title,start\nbad,row\n")
	assert.Error(t, store.Reload())
	assert.Len(t, store.All(), 2)
}

func TestNewDeadlineStoreMissingFile(t *testing.T) {
	_, err := NewDeadlineStore(filepath.Join(t.TempDir(), "absent.csv"), nil)
	assert.Error(t, err)
}
