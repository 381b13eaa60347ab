package cmd

import (
	"bytes"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// resetCommandState puts the package-level commands and config back to their
// defaults so tests can run rootCmd repeatedly.
func resetCommandState() {
	viper.Reset()
	*cliConfig = *newCLIConfig()
	cfgFile = ""
	logLevel = "info"
	globalAppContext = nil

	for _, c := range []*cobra.Command{rootCmd, checkCmd, serveCmd, versionCmd} {
		for _, fs := range []*pflag.FlagSet{c.Flags(), c.PersistentFlags()} {
			fs.VisitAll(func(f *pflag.Flag) { f.Changed = false })
		}
	}
	if f := versionCmd.Flags().Lookup("verbose"); f != nil {
		_ = f.Value.Set("false")
	}
}

// executeCommand runs rootCmd with args in an isolated HOME and returns what
// the command wrote to stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	resetCommandState()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetCommandState()
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// syncBuffer is a bytes.Buffer safe for concurrent writers.
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
