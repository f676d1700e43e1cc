// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfsource

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf2md/internal/collect"
	"github.com/pdiddy/pdf2md/internal/container"
)

// fakeRuntime records the last RunSpec and replays canned output.
type fakeRuntime struct {
	imageErr error
	stdout   string
	stderr   string
	runErr   error

	gotSpec  container.RunSpec
	gotStdin string
}

func (f *fakeRuntime) Name() string                   { return "fake" }
func (f *fakeRuntime) Available() bool                { return true }
func (f *fakeRuntime) ImageExists(image string) error { return f.imageErr }

func (f *fakeRuntime) Run(spec container.RunSpec) error {
	f.gotSpec = spec
	if spec.Stdin != nil {
		b, _ := io.ReadAll(spec.Stdin)
		f.gotStdin = string(b)
	}
	io.WriteString(spec.Stdout, f.stdout)
	if spec.Stderr != nil {
		io.WriteString(spec.Stderr, f.stderr)
	}
	return f.runErr
}

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644))
	return path
}

func TestNewPdftotextOpener_MissingImage(t *testing.T) {
	rt := &fakeRuntime{imageErr: errors.New("no such image")}
	_, err := NewPdftotextOpener(rt, "pdftotext:latest", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftotext image not available in fake")
}

func TestPdftotextOpener_Open(t *testing.T) {
	rt := &fakeRuntime{stdout: "first page\n\fsecond page\n\f"}
	opener, err := NewPdftotextOpener(rt, "poppler:1", nil)
	require.NoError(t, err)

	path := writeInput(t)
	doc, err := opener.Open(path)
	require.NoError(t, err)
	defer doc.Close()

	assert.Equal(t, "poppler:1", rt.gotSpec.Image)
	assert.Equal(t, pdftotextArgs, rt.gotSpec.Args)
	assert.Equal(t, "%PDF-1.4 fake", rt.gotStdin)

	require.Equal(t, 2, doc.PageCount())
	text, ok, err := doc.PageText(1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second page\n", text)
}

func TestPdftotextOpener_Errors(t *testing.T) {
	tests := []struct {
		name    string
		stderr  string
		wantErr error
	}{
		{"password required", "Command Line Error: Incorrect password", collect.ErrEncryptedSource},
		{"damaged file", "Syntax Error: Couldn't find trailer dictionary", collect.ErrInvalidSource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &fakeRuntime{stderr: tt.stderr, runErr: errors.New("exit status 1")}
			opener, err := NewPdftotextOpener(rt, DefaultPdftotextImage, nil)
			require.NoError(t, err)

			doc, err := opener.Open(writeInput(t))
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPdftotextOpener_MissingFile(t *testing.T) {
	opener, err := NewPdftotextOpener(&fakeRuntime{}, DefaultPdftotextImage, nil)
	require.NoError(t, err)

	_, err = opener.Open(filepath.Join(t.TempDir(), "absent.pdf"))
	assert.ErrorIs(t, err, collect.ErrInvalidSource)
}

func TestSplitPages(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single page with feed", "only\f", []string{"only"}},
		{"no trailing feed", "a\fb", []string{"a", "b"}},
		{"blank middle page", "a\f\fc\f", []string{"a", "", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitPages(tt.in))
		})
	}
}
