// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Prompter asks the user for input
type Prompter interface {
	// Confirm asks a yes/no question. Only an explicit yes returns true.
	Confirm(ctx context.Context, message string) (bool, error)

	// Input asks for a line of free text
	Input(ctx context.Context, message string) (string, error)
}

// 🏭 New returns a Terminal prompter when stdin is an interactive terminal
// and a Line prompter otherwise.
func New(stdin *os.File, stdout io.Writer) Prompter {
	fd := stdin.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return &Terminal{}
	}
	return NewLine(stdin, stdout)
}

// 🖥️ Terminal prompts with pterm's interactive printers
type Terminal struct{}

var _ Prompter = (*Terminal)(nil)

func (p *Terminal) Confirm(ctx context.Context, message string) (bool, error) {
	ok, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(message)
	if err != nil {
		return false, errors.Errorf("reading confirmation: %w", err)
	}
	return ok, nil
}

func (p *Terminal) Input(ctx context.Context, message string) (string, error) {
	text, err := pterm.DefaultInteractiveTextInput.Show(message)
	if err != nil {
		return "", errors.Errorf("reading input: %w", err)
	}
	return text, nil
}

// 📝 Line prompts by printing the message and reading one line
type Line struct {
	in  *bufio.Reader
	out io.Writer
}

var _ Prompter = (*Line)(nil)

// NewLine creates a Line prompter reading from in and writing prompts to out
func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (p *Line) Confirm(ctx context.Context, message string) (bool, error) {
	answer, err := p.Input(ctx, message+" (y/n)")
	if err != nil {
		return false, errors.Errorf("reading confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (p *Line) Input(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fmt.Fprintf(p.out, "%s: ", message)

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", errors.Errorf("reading line: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}
