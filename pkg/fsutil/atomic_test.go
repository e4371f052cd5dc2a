package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdpos/pkg/fsutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing string
		content  string
		mode     os.FileMode
		wantMode os.FileMode
	}{
		{name: "new file", content: "{}\n", mode: 0o600, wantMode: 0o600},
		{name: "overwrite", existing: "old", content: "new", mode: 0o644, wantMode: 0o644},
		{name: "default mode", content: "x", wantMode: fsutil.DefaultFileMode},
		{name: "empty content", existing: "old", wantMode: fsutil.DefaultFileMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "report.json")
			if tt.existing != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.existing), 0o644))
			}

			require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte(tt.content), tt.mode))

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(got))

			stat, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, stat.Mode().Perm())
		})
	}
}

func TestWriteAtomic_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "report.json")
	require.Error(t, fsutil.WriteAtomic(ctx, path, []byte("x"), 0))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file should not have been created")
}

func TestWriteAtomic_MissingDirLeavesNoTemp(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	err := fsutil.WriteAtomic(context.Background(), filepath.Join(dir, "missing", "out.txt"), []byte("x"), 0)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".tmp."), "temp file left behind: %s", e.Name())
	}
}

func TestWriteAtomicIfChanged(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		existing    *string
		content     string
		wantChanged bool
	}{
		{name: "missing file", content: "a", wantChanged: true},
		{name: "same content", existing: ptr("a"), content: "a", wantChanged: false},
		{name: "different content", existing: ptr("a"), content: "b", wantChanged: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "out.txt")
			if tt.existing != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.existing), 0o644))
			}

			changed, err := fsutil.WriteAtomicIfChanged(context.Background(), path, []byte(tt.content), 0)
			require.NoError(t, err)
			assert.Equal(t, tt.wantChanged, changed)

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(got))
		})
	}
}

func FuzzWriteAtomic(f *testing.F) {
	for _, seed := range []string{"", "# Title\n", "a\r\nb", "\x00\x01\xff"} {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, content []byte) {
		path := filepath.Join(t.TempDir(), "out.md")
		if err := fsutil.WriteAtomic(context.Background(), path, content, 0); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(got) != string(content) {
			t.Errorf("content mismatch: got %q, want %q", got, content)
		}
	})
}

func ptr(s string) *string { return &s }
