package proc

import (
	"context"
	"errors"
	"testing"

	"github.com/ardnew/spyview/log"
	"github.com/ardnew/spyview/pkg"
)

func TestSelectStrategy(t *testing.T) {
	yes := func() bool { return true }
	no := func() bool { return false }

	tests := []struct {
		goos  string
		probe func() bool
		want  string
	}{
		{"linux", yes, "ps"},
		{"darwin", no, "ps"},
		{"freebsd", nil, "ps"},
		{"windows", yes, "wmic"},
		{"windows", no, "tasklist"},
		{"windows", nil, "tasklist"},
	}

	for _, tt := range tests {
		if got := SelectStrategy(tt.goos, tt.probe).Name; got != tt.want {
			t.Errorf("SelectStrategy(%s) = %s, want %s", tt.goos, got, tt.want)
		}
	}
}

func fakeRunner(out string, err error) (Runner, *[]string) {
	var called []string

	return func(_ context.Context, name string, args ...string) ([]byte, error) {
		called = append(append(called, name), args...)

		return []byte(out), err
	}, &called
}

func TestCommandLister(t *testing.T) {
	run, called := fakeRunner("  PID ARGS\n 9 python3 a.py\n 10 bash\n", nil)
	l := CommandLister{Run: run, Logger: log.Discard(), Strategy: StrategyPS}

	got, err := Candidates(context.Background(), l, Filter{})
	if err != nil {
		t.Fatalf("Candidates() error = %v", err)
	}

	if len(got) != 1 || got[0].PID != "9" || got[0].Label != "a.py" {
		t.Errorf("Candidates() = %v", got)
	}

	if len(*called) == 0 || (*called)[0] != "ps" {
		t.Errorf("ran %v, want ps", *called)
	}
}

func TestCommandLister_Errors(t *testing.T) {
	boom := errors.New("boom")

	run, _ := fakeRunner("", boom)
	l := CommandLister{Run: run, Logger: log.Discard(), Strategy: StrategyPS}

	if _, err := l.List(context.Background()); !errors.Is(err, pkg.ErrListProcesses) {
		t.Errorf("List() error = %v, want ErrListProcesses", err)
	}

	run, _ = fakeRunner(" 1 python x.py\n", boom)
	l.Run = run

	rows, err := l.List(context.Background())
	if err != nil || len(rows) != 1 {
		t.Errorf("List() with partial output = %v, %v; want 1 row, nil", rows, err)
	}
}
