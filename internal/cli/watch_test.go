package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunWatch(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	dir := t.TempDir()
	viper.Set("palette-dir", dir)
	viper.Set("recursive", false)
	viper.Set("poll-interval", 10*time.Millisecond)
	viper.Set("files", defaultFilePatterns())
	viper.Set("colors", map[string]interface{}{"white": "0, 0, 1"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, &printer{out: out}, started)
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not start")
	}

	assert.Equal(t, "white\thsl(0, 0%, 100%)\trgb(255, 255, 255)\t#ffffff\n", out.String())

	writeFile(t, dir, "notes.txt", "colors:\n  ignored: \"0, 1, 0.5\"\n")
	writeFile(t, dir, "palette.yaml", "colors:\n  green: \"120, 100, 50\"\n")

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "green\thsl(120, 100%, 50%)\trgb(0, 255, 0)\t#00ff00\n")
	}, 5*time.Second, 10*time.Millisecond)
	assert.NotContains(t, out.String(), "ignored")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRunWatchCancelledBeforeStart(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("palette-dir", t.TempDir())
	viper.Set("poll-interval", 10*time.Millisecond)
	viper.Set("files", defaultFilePatterns())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 10; i++ {
		done := make(chan error, 1)
		go func() {
			done <- runWatch(ctx, &printer{out: &syncBuffer{}}, nil)
		}()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatalf("run %d did not return after cancellation", i)
		}
	}
}

func TestRunWatchRename(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	dir := t.TempDir()
	viper.Set("palette-dir", dir)
	viper.Set("recursive", false)
	viper.Set("poll-interval", 10*time.Millisecond)
	viper.Set("files", defaultFilePatterns())

	original := writeFile(t, dir, "draft.yaml", "colors:\n  blue: \"240, 1, 0.5\"\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, &printer{out: out}, started)
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not start")
	}
	assert.Empty(t, out.String())

	require.NoError(t, os.Rename(original, filepath.Join(dir, "palette.yaml")))

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "blue\thsl(240, 100%, 50%)\trgb(0, 0, 255)\t#0000ff\n")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRunWatchMissingDir(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("palette-dir", "/does/not/exist")
	viper.Set("files", defaultFilePatterns())

	err := runWatch(context.Background(), &printer{out: &syncBuffer{}}, nil)
	assert.ErrorContains(t, err, "could not watch")
}

func TestRunWatchBadPatterns(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("palette-dir", t.TempDir())
	viper.Set("files", []interface{}{"("})

	err := runWatch(context.Background(), &printer{out: &syncBuffer{}}, nil)
	assert.Error(t, err)
}
