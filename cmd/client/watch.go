package main

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	notesv1 "notes-vault/pkg/api/notes/v1"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show who the server thinks you are",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeConn, err := dial()
		if err != nil {
			return err
		}
		defer closeConn()

		ctx, cancel := context.WithTimeout(callContext(cmd.Context()), timeout)
		defer cancel()

		resp, err := client.WhoAmI(ctx, &notesv1.WhoAmIRequest{})
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd, resp)
		}
		if resp.Authenticated {
			cmd.Printf("%s\n", resp.Principal)
		} else {
			cmd.Println("anonymous (not authenticated)")
		}
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream changes to your notes until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeConn, err := dial()
		if err != nil {
			return err
		}
		defer closeConn()

		// Без таймаута: стрим живет до Ctrl+C или остановки сервера
		ctx, cancel := context.WithCancel(callContext(cmd.Context()))
		defer cancel()

		stream, err := client.WatchNotes(ctx, &notesv1.WatchNotesRequest{})
		if err != nil {
			return err
		}

		for {
			event, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				cmd.Println("Stream closed by server")
				return nil
			}
			if err != nil {
				if status.Code(err) == codes.Canceled {
					return nil
				}
				return err
			}

			if asJSON {
				if err := printJSON(cmd, event); err != nil {
					return err
				}
				continue
			}
			switch event.Kind {
			case "renumbered":
				cmd.Printf("[%s] #%d -> #%d %s\n", event.Kind, event.PreviousDisplayId, event.DisplayId, event.Title)
			default:
				cmd.Printf("[%s] #%d %s\n", event.Kind, event.DisplayId, event.Title)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd, watchCmd)
}
