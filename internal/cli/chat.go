package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/justsurfingit/jobchat/internal/chat"
	"github.com/justsurfingit/jobchat/internal/config"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Fill in a job posting interactively in the terminal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runChat(cmd)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("language", "l", "", "conversation language: zh or en (overrides chat.language)")
	chatCmd.Flags().Bool("memory", false, "keep the posting in memory instead of the configured store")
}

// lineReader is satisfied by promptui.Prompt.
type lineReader interface {
	Run() (string, error)
}

func runChat(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if useMemory, _ := cmd.Flags().GetBool("memory"); useMemory {
		cfg.Store.Driver = config.DriverMemory
	}

	opts := cfg.ChatOptions()
	opts.Logger = logger.Named("chat")
	if raw, _ := cmd.Flags().GetString("language"); raw != "" {
		lang, err := chat.ParseLanguage(raw)
		if err != nil {
			return err
		}
		opts.Language = lang
	}

	deps, cleanup, err := newDeps(ctx, cfg, logger)
	if err != nil {
		logger.Error("initializing services", zap.Error(err))
		return err
	}
	defer cleanup()

	session := chat.NewSession("terminal", deps, opts)
	prompt := &promptui.Prompt{Label: ">"}
	return converse(ctx, session, prompt, cmd.OutOrStdout())
}

// converse prints the greeting, then feeds lines from in to the session
// until the posting is saved or the input ends.
func converse(ctx context.Context, session *chat.Session, in lineReader, out io.Writer) error {
	for _, turn := range session.Transcript() {
		printTurn(out, turn)
	}

	for !session.Finished() {
		line, err := in.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		res, err := session.Send(ctx, line)
		if err != nil {
			return err
		}
		for _, turn := range res.Appended {
			if turn.Speaker == chat.SpeakerAssistant {
				printTurn(out, turn)
			}
		}
	}
	return nil
}

func printTurn(out io.Writer, turn chat.Turn) {
	fmt.Fprintf(out, "\n%s\n", turn.Text)
}
