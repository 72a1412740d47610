package sampler

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/mung"
)

// Runner runs name with args in the given environment and returns what it
// wrote to standard output and standard error. A nil env inherits the
// parent environment.
type Runner func(
	ctx context.Context, env []string, name string, args ...string,
) (stdout, stderr []byte, err error)

// Exec is the [Runner] backed by os/exec.
func Exec(
	ctx context.Context, env []string, name string, args ...string,
) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = env
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	return stdout.Bytes(), stderr.Bytes(), err
}

// Environ returns base with PYSPY_ALLOW_LOWER_PERMS=1 appended and binDir
// prepended to PATH. A nil base uses the current process environment.
func Environ(base []string, binDir string) []string {
	if base == nil {
		base = os.Environ()
	}

	env := make([]string, 0, len(base)+2)

	var path string

	for _, kv := range base {
		key, val, _ := strings.Cut(kv, "=")
		if strings.EqualFold(key, "PATH") {
			path = val

			continue
		}

		env = append(env, kv)
	}

	if binDir != "" {
		path = mung.Make(
			mung.WithSubjectItems(path),
			mung.WithDelim(string(os.PathListSeparator)),
			mung.WithPrefixItems(binDir),
		).String()
	}

	return append(env, "PATH="+path, "PYSPY_ALLOW_LOWER_PERMS=1")
}
