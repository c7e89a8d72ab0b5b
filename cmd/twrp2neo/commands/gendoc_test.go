package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenDoc_Markdown(t *testing.T) {
	dir := t.TempDir()
	stdout, _, code := runCLI(t, "gen-doc", "--dir", dir, "--format", "markdown")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Documentation generated in "+dir)

	data, err := os.ReadFile(filepath.Join(dir, "twrp2neo_scan.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---\ntitle: \"twrp2neo scan\""))
	assert.Contains(t, string(data), "/docs/reference/twrp2neo/")
}

func TestGenDoc_Man(t *testing.T) {
	dir := t.TempDir()
	_, _, code := runCLI(t, "gen-doc", "--dir", dir, "--format", "man")
	require.Equal(t, 0, code)

	_, err := os.Stat(filepath.Join(dir, "twrp2neo.1"))
	assert.NoError(t, err)
}

func TestGenDoc_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing dir", []string{"gen-doc", "--dir", "", "--format", "markdown"}, "Pass --dir"},
		{"unknown format", []string{"gen-doc", "--dir", "DIR", "--format", "html"}, "markdown, man"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for i, a := range tt.args {
				if a == "DIR" {
					tt.args[i] = dir
				}
			}
			_, stderr, code := runCLI(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestFilePrepender(t *testing.T) {
	got := filePrepender("/tmp/docs/twrp2neo_gen-doc.md")
	assert.Contains(t, got, `title: "twrp2neo gen-doc"`)
	assert.Contains(t, got, `description: "Reference for twrp2neo gen-doc command"`)
}

func TestLinkHandler(t *testing.T) {
	assert.Equal(t, "/docs/reference/twrp2neo_scan/", linkHandler("twrp2neo_scan.md"))
}
