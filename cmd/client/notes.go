package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	notesv1 "notes-vault/pkg/api/notes/v1"
)

var createCmd = &cobra.Command{
	Use:   "create [title] [content]",
	Short: "Create a note",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeConn, err := dial()
		if err != nil {
			return err
		}
		defer closeConn()

		ctx, cancel := context.WithTimeout(callContext(cmd.Context()), timeout)
		defer cancel()

		resp, err := client.CreateNote(ctx, &notesv1.CreateNoteRequest{Title: args[0], Content: args[1]})
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd, resp)
		}
		cmd.Printf("%s: #%d\n", resp.Message, resp.Note.GetDisplayId())
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeConn, err := dial()
		if err != nil {
			return err
		}
		defer closeConn()

		ctx, cancel := context.WithTimeout(callContext(cmd.Context()), timeout)
		defer cancel()

		resp, err := client.ListNotes(ctx, &notesv1.ListNotesRequest{})
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd, resp)
		}
		if len(resp.Notes) == 0 {
			cmd.Println("No notes found.")
			return nil
		}
		for _, n := range resp.Notes {
			cmd.Printf("#%d\t%s\n\t%s\n", n.GetDisplayId(), n.GetTitle(), n.GetContent())
		}
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit [display_id] [title] [content]",
	Short: "Replace the title and content of a note",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		displayID, err := parseDisplayID(args[0])
		if err != nil {
			return err
		}

		client, closeConn, err := dial()
		if err != nil {
			return err
		}
		defer closeConn()

		ctx, cancel := context.WithTimeout(callContext(cmd.Context()), timeout)
		defer cancel()

		resp, err := client.EditNote(ctx, &notesv1.EditNoteRequest{
			DisplayId: displayID,
			Title:     args[1],
			Content:   args[2],
		})
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd, resp)
		}
		cmd.Printf("%s: #%d\n", resp.Message, resp.Note.GetDisplayId())
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [display_id]",
	Short: "Delete a note",
	Long:  `Delete removes the note and renumbers the remaining notes so ids stay 1..N.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		displayID, err := parseDisplayID(args[0])
		if err != nil {
			return err
		}

		client, closeConn, err := dial()
		if err != nil {
			return err
		}
		defer closeConn()

		ctx, cancel := context.WithTimeout(callContext(cmd.Context()), timeout)
		defer cancel()

		resp, err := client.DeleteNote(ctx, &notesv1.DeleteNoteRequest{DisplayId: displayID})
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd, resp)
		}
		cmd.Println(resp.Message)
		return nil
	},
}

func parseDisplayID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("display_id must be a positive integer, got %q", s)
	}
	return id, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(createCmd, listCmd, editCmd, deleteCmd)
}
