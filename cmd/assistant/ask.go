package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/siba2623/portfolio-assistant/internal/config"
	"github.com/siba2623/portfolio-assistant/internal/responder"
	"github.com/siba2623/portfolio-assistant/internal/session"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the responder a one-shot question (no server needed)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		base, err := buildKnowledgeBase(cfg)
		if err != nil {
			return err
		}

		question := strings.Join(args, " ")
		if strings.TrimSpace(question) == "" {
			return fmt.Errorf("question must not be blank")
		}

		printReply(responder.New(base).Respond(question))
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the responder interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		base, err := buildKnowledgeBase(cfg)
		if err != nil {
			return err
		}

		sessions := session.NewManager(responder.New(base),
			session.WithTypingDelay(cfg.TypingDelay()),
		)
		s := sessions.Create()

		// Show the seeded greeting before the first prompt.
		if greeting, ok := lastBotMessage(s); ok {
			printBotMessage(greeting)
		}

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Fprint(os.Stderr, colorize(colorBold, "you> "))
			if !scanner.Scan() {
				fmt.Fprintln(os.Stderr)
				return scanner.Err()
			}
			line := scanner.Text()
			if strings.TrimSpace(line) == "/quit" {
				return nil
			}

			ex, ok := s.Submit(line)
			if !ok {
				continue
			}
			printBotMessage(ex.Bot)
		}
	},
}

func lastBotMessage(s *session.Session) (session.Message, bool) {
	msgs := s.Transcript()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Sender == session.SenderBot {
			return msgs[i], true
		}
	}
	return session.Message{}, false
}

func printBotMessage(m session.Message) {
	printReply(responder.Reply{Text: m.Text, QuickReplies: m.QuickReplies})
}

func printReply(reply responder.Reply) {
	fmt.Println(strings.ReplaceAll(reply.Text, "**", ""))
	if len(reply.QuickReplies) > 0 {
		labels := make([]string, len(reply.QuickReplies))
		for i, qr := range reply.QuickReplies {
			labels[i] = "[" + qr.Label + "]"
		}
		fmt.Println(colorize(colorCyan, strings.Join(labels, " ")))
	}
}
