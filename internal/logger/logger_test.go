package logger

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		level   string
		wantErr bool
	}{
		{name: "development default level", mode: "development"},
		{name: "production debug", mode: "production", level: "debug"},
		{name: "bad level", mode: "development", level: "loud", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l, err := New(tc.mode, tc.level)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			l.With("k", "v").Debug("hello")
		})
	}
}

func TestOrNop(t *testing.T) {
	l := OrNop(nil)
	if l == nil || l.SugaredLogger == nil {
		t.Fatal("expected a usable logger")
	}
	l.Info("discarded", "n", 1)

	n := Nop()
	if OrNop(n) != n {
		t.Error("OrNop should return a non-nil logger unchanged")
	}
}
