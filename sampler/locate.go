package sampler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ardnew/spyview/log"
	"github.com/ardnew/spyview/pkg"
)

// Version is the py-spy release installed into the private directory.
const Version = "0.4.0"

// Locator finds or installs py-spy.
type Locator struct {
	Run    Runner
	Logger log.Logger
	// Path is an explicit executable. When set, nothing else is tried.
	Path string
	// Dir is the private install directory.
	Dir string
	// GOOS selects executable names; empty means runtime.GOOS.
	GOOS string
	// Python is the interpreter used to install; empty means discover one.
	Python    []string
	NoInstall bool
}

func (l Locator) run() Runner {
	if l.Run == nil {
		return Exec
	}

	return l.Run
}

func (l Locator) goos() string {
	if l.GOOS == "" {
		return runtime.GOOS
	}

	return l.GOOS
}

// Candidates returns the executable paths a private install may leave.
func (l Locator) Candidates() []string {
	if l.goos() == "windows" {
		return []string{
			filepath.Join(l.Dir, "py-spy.exe"),
			filepath.Join(l.Dir, "Scripts", "py-spy.exe"),
		}
	}

	return []string{
		filepath.Join(l.Dir, "py-spy"),
		filepath.Join(l.Dir, "bin", "py-spy"),
	}
}

// BinDir returns the directory holding the privately installed executable,
// or "" when there is none.
func (l Locator) BinDir() string {
	if p, ok := l.cached(); ok {
		return filepath.Dir(p)
	}

	return ""
}

func (l Locator) cached() (string, bool) {
	if l.Dir == "" {
		return "", false
	}

	for _, p := range l.Candidates() {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, true
		}
	}

	return "", false
}

func (l Locator) onPath(ctx context.Context) bool {
	_, _, err := l.run()(ctx, nil, "py-spy", "--version")

	return err == nil
}

// Locate returns the path of a usable py-spy, installing it when allowed.
func (l Locator) Locate(ctx context.Context) (string, error) {
	if l.Path != "" {
		if _, err := os.Stat(l.Path); err != nil {
			return "", pkg.ErrSamplerMissing.Wrap(err)
		}

		return l.Path, nil
	}

	if l.onPath(ctx) {
		l.Logger.DebugContext(ctx, "using py-spy from PATH")

		return "py-spy", nil
	}

	if p, ok := l.cached(); ok {
		l.Logger.DebugContext(ctx, "using cached py-spy", slog.String("path", p))

		return p, nil
	}

	if l.NoInstall {
		return "", pkg.ErrSamplerMissing.Wrapf("install disabled, not in %s", l.Dir)
	}

	return l.Install(ctx)
}

// Install installs py-spy into Dir with pip and returns its path.
func (l Locator) Install(ctx context.Context) (string, error) {
	if l.Dir == "" {
		return "", pkg.ErrSamplerInstall.Wrap(errors.New("no install directory"))
	}

	python, err := FindInterpreter(ctx, l.run(), l.Logger, l.Python...)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(l.Dir, pkg.DirMode); err != nil {
		return "", pkg.ErrSamplerInstall.Wrap(err)
	}

	args := append(append([]string{}, python[1:]...),
		"-m", "pip", "install",
		"--no-deps", "--no-warn-script-location",
		"-t", l.Dir,
		"py-spy=="+Version,
	)

	l.Logger.InfoContext(ctx, "installing py-spy",
		slog.String("python", strings.Join(python, " ")),
		slog.String("dir", l.Dir),
		slog.String("version", Version),
	)

	_, stderr, err := l.run()(ctx, nil, python[0], args...)
	if err != nil {
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			err = errors.New(msg)
		}

		return "", pkg.ErrSamplerInstall.Wrap(err)
	}

	p, ok := l.cached()
	if !ok {
		return "", pkg.ErrSamplerMissing.Wrapf("not found in %s after install", l.Dir)
	}

	if l.goos() != "windows" {
		if err := os.Chmod(p, 0o755); err != nil {
			return "", pkg.ErrSamplerInstall.Wrap(err)
		}
	}

	return p, nil
}
