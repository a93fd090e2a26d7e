package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/byebyeanxiety/internal/agent"
	"github.com/HendryAvila/byebyeanxiety/internal/chat"
	byebye "github.com/HendryAvila/byebyeanxiety/internal/server"
)

// cliSurface is the surface id used by the command line.
const cliSurface = "cli"

var (
	chatPersona      string
	chatType         string
	chatConversation string
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Send one message to a persona and print the reply",
	Long: `Sends a message the same way the chat_send tool does. Mentions typed as
@type:id (for example @task:<id> or @date:2026-10-19) are resolved and their
details sent along with today's tasks and diary.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatPersona, "persona", "p", string(chat.PersonaAnxietyKiller), "anxiety_killer or ask_me")
	chatCmd.Flags().StringVarP(&chatType, "type", "t", string(agent.MessageFree), "free, chat, inspiration or task")
	chatCmd.Flags().StringVarP(&chatConversation, "conversation", "c", "", "Conversation id (default: main)")
}

func runChat(cmd *cobra.Command, args []string) error {
	persona, err := chat.ParsePersona(chatPersona)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := byebye.NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	s := app.Hub.Surface(cliSurface, persona).InConversation(chatConversation)
	res, err := s.Send(ctx, strings.Join(args, " "), agent.ParseMessageType(chatType))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, res.Reply.Content)
	if len(res.Mentions) > 0 {
		fmt.Fprintf(out, "\n(context included for: %s)\n", strings.Join(res.Mentions, ", "))
	}
	return nil
}
