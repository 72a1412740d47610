package profile

import "testing"

func TestOptions(t *testing.T) {
	var s settings

	for _, opt := range []Option{
		WithMode("cpu"),
		WithDir("/tmp/prof"),
		WithQuiet(true),
		WithMode("heap"),
	} {
		s = opt(s)
	}

	want := settings{mode: "heap", dir: "/tmp/prof", quiet: true}
	if s != want {
		t.Errorf("settings = %+v, want %+v", s, want)
	}
}

func TestStartWithoutMode(t *testing.T) {
	p := Start(WithDir(t.TempDir()))
	if _, ok := p.(nop); !ok {
		t.Fatalf("Start() = %T, want no-op", p)
	}

	p.Stop()
}

func TestStartUnknownMode(t *testing.T) {
	p := Start(WithMode("bogus"), WithDir(t.TempDir()))
	if _, ok := p.(nop); !ok {
		t.Fatalf("Start() = %T, want no-op", p)
	}

	p.Stop()
}
