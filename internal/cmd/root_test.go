package cmd

import (
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"dqx0.com/go/rawhttp/internal/config"
	"dqx0.com/go/rawhttp/internal/version"
)

func TestRootCmdFlags(t *testing.T) {
	cmd := NewRootCmd()
	for _, name := range []string{"config", "directory", "addr", "max-conns", "debug", "no-color", "version"} {
		require.NotNil(t, cmd.Flags().Lookup(name), "flag %s", name)
	}
	require.Equal(t, "c", cmd.Flags().Lookup("config").Shorthand)
	require.Equal(t, "d", cmd.Flags().Lookup("debug").Shorthand)
}

func TestVersionFlag(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), version.AppName+" version "+version.Version)
}

func TestResolveConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: 0.0.0.0:9000\n  directory: /from/file\n"), 0o644))

	cmd := NewRootCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--config", path, "--directory", "/from/flag"}))
	opts := &options{configPath: path, directory: "/from/flag"}
	cfg, err := opts.resolveConfig(cmd)
	require.NoError(t, err)
	require.Equal(t, "/from/flag", cfg.Server.Directory)
	require.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
}

func TestInvalidEncodingRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  encodings: [br]\n"), 0o644))
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"--config", path, "--directory", t.TempDir()})
	require.ErrorContains(t, cmd.Execute(), "unknown content encoding")
}

func TestMissingDirectoryFails(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"--directory", filepath.Join(t.TempDir(), "missing"), "--addr", "127.0.0.1:0"})
	require.Error(t, cmd.Execute())
}

func TestServeUntilCanceled(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Server.Directory = dir
	cfg.Server.MaxConns = 4

	var out syncBuffer
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- serve(ctx, cfg, zerolog.Nop(), &out) }()

	addrRe := regexp.MustCompile(`listening on (\S+)`)
	var addr string
	require.Eventually(t, func() bool {
		m := addrRe.FindStringSubmatch(out.String())
		if m == nil {
			return false
		}
		addr = m[1]
		return true
	}, 2*time.Second, 10*time.Millisecond)
	require.Contains(t, out.String(), "serving files from "+dir)

	c, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	require.NoError(t, c.SetDeadline(time.Now().Add(2*time.Second)))
	_, err = io.WriteString(c, "POST /files/a.txt HTTP/1.1\r\nContent-Length: 2\r\n\r\nhi")
	require.NoError(t, err)
	b, err := io.ReadAll(c)
	require.NoError(t, err)
	c.Close()
	require.True(t, strings.HasPrefix(string(b), "HTTP/1.1 201 Created\r\n"))

	data, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	require.Equal(t, "hi", string(data))

	cancel()
	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

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
