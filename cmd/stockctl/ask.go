package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"inventory-tracker/internal/assistant"
	"inventory-tracker/internal/i18n"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

func init() {
	var itemsFile string

	askCmd := &cobra.Command{
		Use:   "ask MESSAGE...",
		Short: "Ask the stock assistant a question",
		Long: "Ask the stock assistant about an items file (--items) or, with --server,\n" +
			"about the inventory of the account behind --token.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")
			if serverFlag != "" {
				return runRemoteAsk(cmd.Context(), newClient(serverFlag, tokenFlag), message, localeFlag, os.Stdout)
			}
			if itemsFile == "" {
				return fmt.Errorf("--items or --server required")
			}
			return runLocalAsk(itemsFile, message, localeFlag, os.Stdout)
		},
	}
	askCmd.Flags().StringVarP(&itemsFile, "items", "i", "", "JSON items file, - for stdin")
	rootCmd.AddCommand(askCmd)
}

func runLocalAsk(itemsFile, message, locale string, out io.Writer) error {
	items, err := loadItems(itemsFile)
	if err != nil {
		return err
	}

	bundle, err := i18n.NewBundle()
	if err != nil {
		return err
	}

	resp := assistant.NewEngine(bundle).GenerateResponse(items, message, locale)
	_, err = fmt.Fprintln(out, resp.Text)
	return err
}

func newClient(baseURL, token string) *resty.Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	if token != "" {
		c.SetAuthToken(token)
	}
	return c
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func runRemoteAsk(ctx context.Context, client *resty.Client, message, locale string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var answer assistant.Response
	var failure apiError
	resp, err := client.R().
		SetContext(ctx).
		SetBody(map[string]string{"message": message, "locale": locale}).
		SetResult(&answer).
		SetError(&failure).
		Post("/api/assistant")
	if err != nil {
		return fmt.Errorf("assistant request: %w", err)
	}
	if resp.IsError() {
		if failure.Error.Message != "" {
			return fmt.Errorf("assistant status %d: %s", resp.StatusCode(), failure.Error.Message)
		}
		return fmt.Errorf("assistant status %d", resp.StatusCode())
	}

	_, err = fmt.Fprintln(out, answer.Text)
	return err
}
