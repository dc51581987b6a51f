package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	notesv1 "notes-vault/pkg/api/notes/v1"
)

const (
	defaultAddress = "localhost:50051"
	defaultTimeout = 10 * time.Second
)

var (
	address string
	token   string
	timeout time.Duration
	asJSON  bool
)

// rootCmd базовая команда клиента
var rootCmd = &cobra.Command{
	Use:   "notes",
	Short: "Client for the notes vault gRPC service",
	Long: `notes talks to the notes vault over gRPC.
Each user sees only their own notes, numbered 1..N; deleting a note renumbers the rest.`,
	SilenceUsage: true,
}

// Execute запускает корневую команду
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}
}

func init() {
	// .env не обязателен
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&address, "addr", envOr("SERVER_ADDRESS", defaultAddress), "gRPC server address")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("AUTH_TOKEN"), "bearer token (anonymous if empty)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "request timeout")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print responses as JSON")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// dial создает клиента NotesService; close закрывает соединение
func dial() (notesv1.NotesServiceClient, func(), error) {
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}
	return notesv1.NewNotesServiceClient(conn), func() { _ = conn.Close() }, nil
}

// callContext добавляет токен авторизации в metadata
func callContext(parent context.Context) context.Context {
	if token == "" {
		return parent
	}
	return metadata.AppendToOutgoingContext(parent, "authorization", "Bearer "+token)
}

// describeError раскрывает gRPC статус и ErrorInfo из деталей
func describeError(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}

	msg := fmt.Sprintf("Error: %s (%s)", st.Message(), st.Code())
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			msg += fmt.Sprintf(" reason=%s", info.GetReason())
			if detail := info.GetMetadata()["detail"]; detail != "" {
				msg += fmt.Sprintf(" detail=%q", detail)
			}
		}
	}
	return msg
}

func main() {
	Execute()
}
