package topics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTagger(t *testing.T, dictionary string) *Tagger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "topics.csv")
	require.NoError(t, os.WriteFile(path, []byte(dictionary), 0o644))

	tagger, err := NewTagger(path, nil)
	require.NoError(t, err)
	return tagger
}

func TestTaggerMatchesKeywords(t *testing.T) {
	tagger := newTestTagger(t, strings.Join([]string{
		"topic,keywords",
		"Housing,housing;rent;eviction",
		"Labor,wage;worker",
	}, "\n"))

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single topic",
			text: "An act relating to residential rent increases",
			want: []string{"Housing"},
		},
		{
			name: "multiple topics sorted",
			text: "Worker housing standards",
			want: []string{"Housing", "Labor"},
		},
		{
			name: "case insensitive",
			text: "EVICTION protections",
			want: []string{"Housing"},
		},
		{
			name: "whole word only",
			text: "wages and wagers",
			want: []string{},
		},
		{
			name: "no match",
			text: "An act relating to state parks",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tagger.Tag(tt.text))
		})
	}
}

func TestTaggerMultiWordPhrase(t *testing.T) {
	tagger := newTestTagger(t, "topic,keywords\nPrivacy,data privacy;biometric\n")

	assert.Equal(t, []string{"Privacy"}, tagger.Tag("consumer data privacy act"))
	assert.Equal(t, []string{}, tagger.Tag("data retention schedules"))
}

func TestTaggerReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.csv")
	require.NoError(t, os.WriteFile(path, []byte("topic,keywords\nHousing,rent\n"), 0o644))

	tagger, err := NewTagger(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Housing"}, tagger.Tag("rent control"))

	require.NoError(t, os.WriteFile(path, []byte("topic,keywords\nTransit,rail\n"), 0o644))
	require.NoError(t, tagger.Reload())

	assert.Equal(t, []string{}, tagger.Tag("rent control"))
	assert.Equal(t, []string{"Transit"}, tagger.Tag("high speed rail"))
}

func TestTaggerReloadKeepsPatternsOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.csv")
	require.NoError(t, os.WriteFile(path, []byte("topic,keywords\nHousing,rent\n"), 0o644))

	tagger, err := NewTagger(path, nil)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	require.Error(t, tagger.Reload())
	assert.Equal(t, []string{"Housing"}, tagger.Tag("rent control"))
}

func TestNewTaggerMissingFile(t *testing.T) {
	_, err := NewTagger(filepath.Join(t.TempDir(), "absent.csv"), nil)
	assert.Error(t, err)
}
