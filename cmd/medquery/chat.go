// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ksato/medquery/internal/pipeline"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat: question in, literature summaries out",
	Long: `Chat reads one Japanese question per line, runs the full
translate → search → fetch → summarize pipeline for each, and prints the
assistant reply. The conversation log grows for the session's lifetime.

With --transcript the log is loaded from the given YAML file when it exists
and written back on exit, so a session can be resumed later.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transcriptPath, _ := cmd.Flags().GetString("transcript")

		if err := requireSecrets(); err != nil {
			return err
		}

		p := newPipeline(loadConfig())

		session := pipeline.NewSession(p)
		if transcriptPath != "" {
			if _, err := os.Stat(transcriptPath); err == nil {
				restored, err := pipeline.LoadSession(p, transcriptPath)
				if err != nil {
					return err
				}
				session = restored
				fmt.Fprintf(cmd.OutOrStdout(), "%d件のメッセージを復元しました。\n", len(session.Messages()))
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "質問をどうぞ（例：『心不全でSGLT2の入院抑制効果 2022年以降』、終了は exit）")

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "exit" || line == "quit" {
				break
			}

			reply, err := session.Send(cmd.Context(), line)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}
			fmt.Fprintln(out, reply)
			fmt.Fprintln(out)
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		if transcriptPath != "" {
			if err := session.SaveTranscript(transcriptPath); err != nil {
				return err
			}
			fmt.Fprintf(out, "会話ログを保存しました: %s\n", transcriptPath)
		}
		return nil
	},
}

func init() {
	chatCmd.Flags().String("transcript", "", "YAML file to resume from and save the conversation log to")

	rootCmd.AddCommand(chatCmd)
}
