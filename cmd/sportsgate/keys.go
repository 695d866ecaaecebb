package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/artpar/sportsgate/adapters/http/admin"
	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage API keys on a running server",
	Long: `Manage sportsgate API keys through the admin API of a running server.

Keys live in server memory, so these commands talk to the server rather
than to local state.

Examples:
  sportsgate keys create --user=alice
  sportsgate keys create --user=alice --plan=pro
  sportsgate keys revoke rz_0123abcd...`,
}

var keysCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new API key",
	RunE:  runKeysCreate,
}

var keysRevokeCmd = &cobra.Command{
	Use:   "revoke <api-key>",
	Short: "Revoke an API key",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeysRevoke,
}

var (
	keyServer     string
	keyAdminToken string
	keyUserID     string
	keyPlan       string
)

func init() {
	rootCmd.AddCommand(keysCmd)

	keysCmd.AddCommand(keysCreateCmd)
	keysCmd.AddCommand(keysRevokeCmd)

	keysCmd.PersistentFlags().StringVar(&keyServer, "server", envOr("SPORTSGATE_SERVER_URL", "http://localhost:8000"), "server base URL")
	keysCmd.PersistentFlags().StringVar(&keyAdminToken, "admin-token", "", "admin token (default $SPORTSGATE_ADMIN_TOKEN)")
	keysCreateCmd.Flags().StringVar(&keyUserID, "user", "", "user ID (required)")
	keysCreateCmd.Flags().StringVar(&keyPlan, "plan", "free", "plan")
	keysCreateCmd.MarkFlagRequired("user")
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func newAdminClientFromFlags() *adminClient {
	token := keyAdminToken
	if token == "" {
		token = envOr("SPORTSGATE_ADMIN_TOKEN", os.Getenv("ADMIN_TOKEN"))
	}
	return newAdminClient(keyServer, token)
}

func runKeysCreate(cmd *cobra.Command, args []string) error {
	resp, err := newAdminClientFromFlags().CreateKey(cmd.Context(), keyUserID, keyPlan)
	if err != nil {
		return fmt.Errorf("failed to create key: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s Created %s API key for user %s\n", checkMark, resp.Plan, resp.UserID)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "API Key (save this, shown once):")
	fmt.Fprintf(out, "  %s\n", resp.APIKey)
	return nil
}

func runKeysRevoke(cmd *cobra.Command, args []string) error {
	if err := newAdminClientFromFlags().RevokeKey(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to revoke key: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Revoked key\n", checkMark)
	return nil
}

// adminClient calls the admin API of a running server.
type adminClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAdminClient(baseURL, token string) *adminClient {
	return &adminClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *adminClient) CreateKey(ctx context.Context, userID, plan string) (admin.CreateKeyResponse, error) {
	var out admin.CreateKeyResponse
	err := c.post(ctx, "/admin/create-key", admin.CreateKeyRequest{UserID: userID, Plan: plan}, http.StatusCreated, &out)
	return out, err
}

func (c *adminClient) RevokeKey(ctx context.Context, apiKey string) error {
	var out admin.RevokeKeyResponse
	return c.post(ctx, "/admin/revoke-key", admin.RevokeKeyRequest{APIKey: apiKey}, http.StatusOK, &out)
}

func (c *adminClient) post(ctx context.Context, path string, body any, want int, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(admin.TokenHeader, c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != want {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	return json.Unmarshal(raw, out)
}
