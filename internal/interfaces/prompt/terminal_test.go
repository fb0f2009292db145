package prompt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"\n", true},
		{"y\n", true},
		{"Y\n", true},
		{"yes\r\n", true},
		{"n\n", false},
		{"no\n", false},
		{"whatever\n", false},
		{"y", true},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			term := NewTerminal(strings.NewReader(tt.input), &out)
			got, err := term.Confirm(context.Background(), "Reserve? ")
			if err != nil {
				t.Fatalf("Confirm() err = %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if out.String() != "Reserve? " {
				t.Errorf("prompt = %q", out.String())
			}
		})
	}
}

func TestSequentialPrompts(t *testing.T) {
	term := NewTerminal(strings.NewReader("n\n\n"), io.Discard)
	ctx := context.Background()
	if ok, _ := term.Confirm(ctx, ""); ok {
		t.Fatal("first answer should be no")
	}
	if err := term.WaitContinue(ctx, ""); err != nil {
		t.Fatalf("WaitContinue() err = %v", err)
	}
	if _, err := term.Confirm(ctx, ""); !errors.Is(err, io.EOF) {
		t.Errorf("after input ends err = %v, want EOF", err)
	}
}

func TestConfirmHonoursContext(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	term := NewTerminal(r, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := term.Confirm(ctx, ""); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}

	// the line typed after the abandoned prompt goes to the next one
	go func() { _, _ = w.Write([]byte("n\n")) }()
	ok, err := term.Confirm(context.Background(), "")
	if err != nil || ok {
		t.Errorf("Confirm() = %v, %v; want false, nil", ok, err)
	}
}

func TestReadSecretSharesInputWithPrompts(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("ic-cookie=abc \nn\n\n"), &out)
	ctx := context.Background()

	secret, err := term.ReadSecret(ctx, "Cookie: ")
	if err != nil || secret != "ic-cookie=abc" {
		t.Fatalf("ReadSecret() = %q, %v", secret, err)
	}
	if ok, err := term.Confirm(ctx, ""); err != nil || ok {
		t.Errorf("Confirm() = %v, %v; want false, nil", ok, err)
	}
	if err := term.WaitContinue(ctx, ""); err != nil {
		t.Errorf("WaitContinue() err = %v", err)
	}
	if out.String() != "Cookie: " {
		t.Errorf("output = %q", out.String())
	}
}
