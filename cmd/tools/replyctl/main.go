package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/reply-studio/backend/internal/config"
	"github.com/zhouzirui/reply-studio/backend/internal/logging"
	"github.com/zhouzirui/reply-studio/backend/internal/model/style"
	"github.com/zhouzirui/reply-studio/backend/internal/model/transcript"
	"github.com/zhouzirui/reply-studio/backend/internal/service/reply"
)

var (
	emotionFlag    string
	toneFlag       string
	suggestionFlag string
	dryRun         bool
	logLevel       string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replyctl",
		Short: "Draft styled replies to incoming messages from the terminal",
		Long: `replyctl reads one incoming message per line and prints a generated reply.
The conversation is kept for the lifetime of the process and fed back into
every following prompt.

Commands inside the loop:
  :emotion <Happy|Sad|Angry|Neutral>
  :tone <Formal|Informal>
  :suggest <free text>
  :history   print the conversation so far
  :copy      copy the last reply to the clipboard
  :quit      exit

Examples:
  replyctl --emotion Happy --tone Informal --suggestion "Be Polite, 30 Words max"
  echo "Hi, how are you?" | replyctl --dry-run`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLoop,
	}

	cmd.Flags().StringVar(&emotionFlag, "emotion", string(style.Neutral), "emotion to convey")
	cmd.Flags().StringVar(&toneFlag, "tone", string(style.Informal), "tone to convey")
	cmd.Flags().StringVar(&suggestionFlag, "suggestion", "", "extra guidance for the reply")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print prompts instead of calling the model")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	return cmd
}

func runLoop(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := logging.New(logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	emotion, _ := style.ParseEmotion(emotionFlag)
	tone, _ := style.ParseTone(toneFlag)

	s := &session{
		store:   transcript.NewStore(),
		params:  style.Parameters{Emotion: emotion, Tone: tone, Suggestion: suggestionFlag},
		timeout: cfg.AI.Timeout,
		out:     cmd.OutOrStdout(),
		copy:    clipboard.WriteAll,
	}

	if !dryRun {
		completer, err := reply.NewCompleter(cmd.Context(), cfg.AI)
		if err != nil {
			return err
		}
		s.generator = reply.NewGenerator(completer, reply.Config{
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
		}, logger)
	}

	return s.run(cmd.Context(), cmd.InOrStdin())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
