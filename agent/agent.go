// Package agent runs an interactive assistant over the lots, backed by a
// Gemini chat that can call into the ledger.
package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

// Agent is the AI assistant that handles the chat session.
type Agent struct {
	w      io.Writer
	r      *bufio.Reader
	Expert *Expert
	// Render formats the expert's answers, they are printed as is when nil.
	Render func(markdown string) (string, error)
}

// New creates a new Agent talking to expert, reading the user's input from r
// and writing the conversation to w.
func New(w io.Writer, r io.Reader, expert *Expert) *Agent {
	return &Agent{
		w:      w,
		r:      bufio.NewReader(r),
		Expert: expert,
	}
}

const prompt = "assist> "

// Run starts the interactive REPL session. prompts are played first, as if
// typed by the user. It returns on "bye" or at the end of the input.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Expert.chat == nil {
		if err := a.Expert.Start(ctx, client); err != nil {
			return fmt.Errorf("cannot start the chat with %s: %w", a.Expert.Name, err)
		}
	}

	fmt.Fprintln(a.w, "Welcome to lots assist. Type 'bye' to exit.")

	for {
		fmt.Fprint(a.w, prompt)
		var input string

		// Flush prompts from the list and then ask for the user.
		if len(prompts) > 0 {
			input, prompts = strings.TrimSpace(prompts[0]), prompts[1:]
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if errors.Is(err, io.EOF) {
				return nil // Ctrl+D
			}
			if err != nil {
				return err
			}
			input = strings.TrimSpace(input)
		}

		if input == "" {
			continue
		}
		if input == "bye" {
			return nil
		}

		content, err := a.Expert.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			return err
		}
		answer := text(content)
		if a.Render != nil {
			if out, err := a.Render(answer); err == nil {
				answer = out
			}
		}
		fmt.Fprintln(a.w, answer)
	}
}

// text concatenates the text parts of content.
func text(content *genai.Content) string {
	var b strings.Builder
	for _, p := range content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
