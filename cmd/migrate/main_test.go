package main

import (
	"io/fs"
	"testing"

	appmigrations "github.com/wolfman30/primer-realty/migrations"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		args    []string
		want    command
		wantErr bool
	}{
		{args: nil, want: command{name: "up"}},
		{args: []string{"version"}, want: command{name: "version"}},
		{args: []string{"down", "2"}, want: command{name: "down", n: 2}},
		{args: []string{"force", "1"}, want: command{name: "force", n: 1}},
		{args: []string{"down"}, wantErr: true},
		{args: []string{"down", "0"}, wantErr: true},
		{args: []string{"force", "x"}, wantErr: true},
		{args: []string{"sideways"}, wantErr: true},
	}
	for _, tc := range cases {
		got, err := parseCommand(tc.args)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%v: expected error", tc.args)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%v: unexpected error %v", tc.args, err)
		}
		if got != tc.want {
			t.Fatalf("%v: got %+v want %+v", tc.args, got, tc.want)
		}
	}
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(appmigrations.FS, "*.up.sql")
	if err != nil {
		t.Fatal(err)
	}
	downs, err := fs.Glob(appmigrations.FS, "*.down.sql")
	if err != nil {
		t.Fatal(err)
	}
	if len(ups) == 0 || len(ups) != len(downs) {
		t.Fatalf("expected paired migrations, got %d up and %d down", len(ups), len(downs))
	}
}
