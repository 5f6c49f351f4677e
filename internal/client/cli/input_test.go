package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetMultiline_DoubleEnter(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("a\nb\n\n\n"))
	var out bytes.Buffer
	got, err := GetMultiline(in, "Enter text", &out)
	if err != nil {
		t.Fatal(err)
	}
	want := "a\nb"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := GetPassword(&out)
	if err == nil {
		t.Fatal("expected error")
	}
}

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetChoice(t *testing.T) {
	opts := []string{"student", "instructor"}
	tests := []struct {
		name    string
		input   string
		def     int
		want    int
		wantErr bool
	}{
		{name: "explicit", input: "2\n", def: 0, want: 1},
		{name: "empty takes default", input: "\n", def: 0, want: 0},
		{name: "retries until valid", input: "0\nabc\n3\n1\n", def: 0, want: 0},
		{name: "no default needs answer", input: "\n2\n", def: -1, want: 1},
		{name: "EOF", input: "", def: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetChoice(rdr(tc.input), "Role", opts, tc.def, &out)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
			require.Contains(t, out.String(), "2) instructor")
		})
	}
}

func TestGetChoice_MarksDefault(t *testing.T) {
	var out bytes.Buffer
	_, err := GetChoice(rdr("\n"), "Role", []string{"a", "b"}, 1, &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), " 1) a\n*2) b\n")
}

func TestConfirm(t *testing.T) {
	for input, want := range map[string]bool{
		"y\n":    true,
		"YES\n":  true,
		"n\n":    false,
		"\n":     false,
		"sure\n": false,
	} {
		var out bytes.Buffer
		got, err := Confirm(rdr(input), "Delete?", &out)
		require.NoError(t, err)
		require.Equal(t, want, got, "input %q", input)
		require.Contains(t, out.String(), "Delete? [y/N]")
	}

	_, err := Confirm(rdr(""), "Delete?", &bytes.Buffer{})
	require.Error(t, err)
}
