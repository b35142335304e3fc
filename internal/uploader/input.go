package uploader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Test seams around the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// Prompter asks for the credentials that were not configured elsewhere.
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
	fd     int
}

func NewPrompter(in *os.File, out io.Writer) *Prompter {
	return &Prompter{reader: bufio.NewReader(in), out: out, fd: int(in.Fd())}
}

// FillMissing prompts for the account id, access key id and secret access
// key, skipping the ones already set in cfg.
func (p *Prompter) FillMissing(cfg *Config) error {
	var err error
	if cfg.AccountID == "" {
		if cfg.AccountID, err = p.Text("Enter R2 Account ID: "); err != nil {
			return err
		}
	}
	if cfg.AccessKeyID == "" {
		if cfg.AccessKeyID, err = p.Text("Enter R2 Access Key ID: "); err != nil {
			return err
		}
	}
	if cfg.SecretAccessKey == "" {
		if cfg.SecretAccessKey, err = p.Secret("Enter R2 Secret Access Key: "); err != nil {
			return err
		}
	}
	return nil
}

// Text prints prompt and reads one trimmed line. A final line without a
// newline is accepted; an empty input yields an empty string.
func (p *Prompter) Text(prompt string) (string, error) {
	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", err
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Secret reads a value without echo when attached to a terminal and falls
// back to Text otherwise.
func (p *Prompter) Secret(prompt string) (string, error) {
	if !isTerminal(p.fd) {
		return p.Text(prompt)
	}

	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", err
	}
	b, err := readPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
