// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/MKhiriev/go-key-vault/internal/app"
)

type terminalPrompter struct {
	in  *bufio.Reader
	fd  int
	tty bool
	out io.Writer
}

// NewPrompter returns a [Prompter] reading from in. Passwords are read
// without echo when in is a terminal; otherwise they are read as plain lines
// so the CLI can be scripted.
func NewPrompter(in io.Reader, out io.Writer) Prompter {
	p := &terminalPrompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.tty = true
	}
	return p
}

func (p *terminalPrompter) ReadPassword(prompt string) (string, error) {
	if !p.tty {
		return p.ReadLine(prompt)
	}

	fmt.Fprint(p.out, prompt)
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

func (p *terminalPrompter) ReadLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readNewPassword asks for a password twice and fails with
// app.ErrPasswordMismatch when the entries differ.
func readNewPassword(p Prompter, prompt string) (string, error) {
	first, err := p.ReadPassword(prompt)
	if err != nil {
		return "", err
	}
	second, err := p.ReadPassword("Repeat " + strings.ToLower(prompt[:1]) + prompt[1:])
	if err != nil {
		return "", err
	}
	if first != second {
		return "", app.ErrPasswordMismatch
	}
	return first, nil
}
