package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/zhouzirui/reply-studio/backend/internal/model/style"
	"github.com/zhouzirui/reply-studio/backend/internal/model/transcript"
	"github.com/zhouzirui/reply-studio/backend/internal/service/reply"
)

// session is the terminal equivalent of the web page: one transcript, one
// request at a time. A nil generator means dry-run.
type session struct {
	generator *reply.Generator
	store     *transcript.Store
	params    style.Parameters
	timeout   time.Duration
	out       io.Writer
	copy      func(string) error
	lastReply string
}

var errQuit = errors.New("quit")

func (s *session) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ":") {
			if err := s.command(line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				fmt.Fprintf(s.out, "error: %v\n", err)
			}
			continue
		}

		if err := s.respond(ctx, line); err != nil {
			// the transcript is unchanged; the same line can be sent again
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

func (s *session) respond(ctx context.Context, message string) error {
	if s.generator == nil {
		prompt := reply.RenderPrompt(reply.NewPromptFields(s.store.RenderForPrompt(), message, s.params))
		fmt.Fprintln(s.out, prompt)
		return nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	fmt.Fprintln(s.out, "Generating Response...")
	text, err := s.generator.Generate(ctx, s.store, message, s.params)
	if err != nil {
		return err
	}

	s.lastReply = text
	fmt.Fprintln(s.out, text)
	return nil
}

func (s *session) command(line string) error {
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "quit", "q", "exit":
		return errQuit
	case "history":
		s.printHistory()
	case "copy":
		if s.lastReply == "" {
			return errors.New("nothing to copy yet")
		}
		if err := s.copy(s.lastReply); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(s.out, "Copied to Clipboard")
	case "emotion":
		emotion, ok := style.ParseEmotion(arg)
		if !ok {
			fmt.Fprintf(s.out, "note: %q is not a known emotion, using it as-is\n", arg)
		}
		s.params.Emotion = emotion
	case "tone":
		tone, ok := style.ParseTone(arg)
		if !ok {
			fmt.Fprintf(s.out, "note: %q is not a known tone, using it as-is\n", arg)
		}
		s.params.Tone = tone
	case "suggest":
		s.params.Suggestion = arg
	default:
		return fmt.Errorf("unknown command :%s", name)
	}
	return nil
}

func (s *session) printHistory() {
	if s.store.Len() == 0 {
		fmt.Fprintln(s.out, "(no conversation yet)")
		return
	}
	for seg := range s.store.RenderForDisplay() {
		fmt.Fprintf(s.out, "### %s:\n%s\n", seg.Label, seg.Text)
	}
}
