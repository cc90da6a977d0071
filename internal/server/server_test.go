package server

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubModel struct{}

func (stubModel) Init() tea.Cmd                       { return nil }
func (stubModel) Update(tea.Msg) (tea.Model, tea.Cmd) { return stubModel{}, nil }
func (stubModel) View() string                        { return "" }

func TestRunStopsOnCancel(t *testing.T) {
	srv, err := New(Config{
		Host:        "127.0.0.1",
		Port:        "0",
		HostKeyPath: filepath.Join(t.TempDir(), "host_key"),
	}, func(ssh.Session) tea.Model { return stubModel{} }, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(ctx)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

func TestRunReportsListenError(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = busy.Close()
	})
	_, port, err := net.SplitHostPort(busy.Addr().String())
	require.NoError(t, err)

	srv, err := New(Config{
		Host:        "127.0.0.1",
		Port:        port,
		HostKeyPath: filepath.Join(t.TempDir(), "host_key"),
	}, func(ssh.Session) tea.Model { return stubModel{} }, nil)
	require.NoError(t, err)
	require.Error(t, srv.Run(context.Background()))
}
