package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

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

func TestWatchRechecksAfterEdit(t *testing.T) {
	manifest := fooProject(t)
	ifoo := filepath.Join(filepath.Dir(manifest), "interfaces", "foo", "1.0", "IFoo.hal")

	cmd := newRootCmd()
	var out, errOut syncBuffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--config", manifest, "--color", "off",
		"watch", "--debounce", "20ms", "android.hardware.foo@1.0::IFoo"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "watching")
	}, 10*time.Second, 10*time.Millisecond, "first pass never finished: %s", errOut.String())
	assert.Contains(t, out.String(), "checked 1 module(s)")

	broken := strings.Replace(fooIFooHAL, "android.hardware.foo@1.0", "android.hardware.bar@1.0", 1)
	require.NoError(t, os.WriteFile(ifoo, []byte(broken), 0o600))

	require.Eventually(t, func() bool {
		return strings.Contains(errOut.String(), "RES3001")
	}, 10*time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), "file(s) changed: "+ifoo)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}

func TestWatchRequiresTargets(t *testing.T) {
	_, _, err := run(t, fooProject(t), "watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to watch")
}
