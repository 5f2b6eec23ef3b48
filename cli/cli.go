// Package cli provides the line-based terminal front end: it reads commands,
// hands them to a console session, and prints the results.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/nathoo/roguecore/console"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Session   *console.Session
	In        io.Reader
	Out       io.Writer
	EchoInput bool // echo each input line after the prompt (for script playback)
}

// New creates a CLI on stdin/stdout wired to the given session.
func New(s *console.Session) *CLI {
	return &CLI{
		Session: s,
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Run shows the intro, then loops: prompt, input, dispatch, output. It
// returns when input ends or on /quit.
func (c *CLI) Run() {
	for _, line := range c.Session.Intro() {
		c.printLine(line)
	}

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := scanner.Text()
		if c.EchoInput {
			c.printLine(input)
		}

		res := c.Session.Exec(input)
		c.printResult(res)
		if res.Quit {
			return
		}
	}
}

func (c *CLI) printResult(res console.Result) {
	for _, line := range res.Lines {
		if res.System {
			c.printSystem(line)
		} else {
			c.printLine(line)
		}
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
