package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/assetgate/internal/client/gate"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// TerminalPrompter asks for credentials on the terminal. An empty username
// or end of input cancels the login.
type TerminalPrompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func NewTerminalPrompter(reader *bufio.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{reader: reader, out: out}
}

func (p *TerminalPrompter) Prompt(ctx context.Context, reason string) (gate.Credentials, bool, error) {
	if reason != "" {
		fmt.Fprintln(p.out, reason)
	}

	username, err := getSimpleText(p.reader, "Username (empty to cancel)", p.out)
	if errors.Is(err, io.EOF) {
		return gate.Credentials{}, false, nil
	}
	if err != nil {
		return gate.Credentials{}, false, err
	}
	if username == "" {
		return gate.Credentials{}, false, nil
	}

	password, err := getPassword(p.out)
	if err != nil {
		return gate.Credentials{}, false, err
	}

	return gate.Credentials{Username: username, Password: password}, true, nil
}
