// Package mcpbridge provides a blocking call surface over an MCP client
// session. The agent runtime invokes tools synchronously; the bridge hides
// connection lifecycle, the per-call deadline, and the single retry with a
// fresh session, and it never returns an error to the caller: every failure
// degrades to a result mapping carrying an "error" key.
package mcpbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	contractx "github.com/shoplite/phone-shop-agent/agent/contract"
)

const clientName = "phone-shop-agent"

type Config struct {
	// Command launches the MCP server subprocess, e.g. "shopmcp".
	Command string `split_words:"true" default:"shopmcp"`
	// Args are passed to the server command.
	Args []string `split_words:"true"`
	// CallTimeout bounds every tool call, connection included.
	CallTimeout time.Duration `split_words:"true" default:"30s"`
}

// Dialer opens a fresh client session. Overridable so tests can connect
// through an in-memory transport.
type Dialer func(ctx context.Context) (*mcp.ClientSession, error)

type Option func(*Bridge)

func WithDialer(dial Dialer) Option {
	return func(b *Bridge) {
		if dial != nil {
			b.dial = dial
		}
	}
}

// Bridge is an explicitly constructed service object owning one lazily
// established session. Reconnect drops and replaces it.
type Bridge struct {
	dial    Dialer
	timeout time.Duration

	mu      sync.Mutex
	session *mcp.ClientSession
}

func New(cfg Config, opts ...Option) *Bridge {
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	b := &Bridge{
		timeout: timeout,
		dial:    commandDialer(cfg),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func commandDialer(cfg Config) Dialer {
	return func(ctx context.Context) (*mcp.ClientSession, error) {
		client := mcp.NewClient(&mcp.Implementation{
			Name:    clientName,
			Version: "0.1.0",
		}, nil)

		transport := &mcp.CommandTransport{
			Command: exec.Command(cfg.Command, cfg.Args...),
		}

		session, err := client.Connect(ctx, transport, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: connect to %s: %v", contractx.ErrConnectivity, cfg.Command, err)
		}
		return session, nil
	}
}

var _ contractx.ToolCaller = (*Bridge)(nil)

// Call invokes a named tool and returns its result mapping. Failures on the
// first attempt drop the session and retry exactly once on a fresh one.
func (b *Bridge) Call(ctx context.Context, tool string, args map[string]any) map[string]any {
	if strings.TrimSpace(tool) == "" {
		return errorMap("tool name is required")
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	b.mu.Lock()
	defer b.mu.Unlock()

	result, err := b.callLocked(ctx, tool, args)
	if err == nil {
		return result
	}

	log.Warn().Err(err).Str("tool", tool).Msg("tool call failed, retrying with fresh session")
	b.dropLocked()

	result, retryErr := b.callLocked(ctx, tool, args)
	if retryErr == nil {
		return result
	}
	b.dropLocked()

	log.Error().Err(retryErr).Str("tool", tool).Msg("tool call retry failed")
	if errors.Is(retryErr, context.DeadlineExceeded) {
		return errorMap(fmt.Sprintf("%v: tool %s did not respond within %s", contractx.ErrUpstreamTimeout, tool, b.timeout))
	}
	return errorMap(retryErr.Error())
}

// ListTools reports the names the server exposes; used by setup checks.
func (b *Bridge) ListTools(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ensureLocked(ctx); err != nil {
		return nil, err
	}

	res, err := b.session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		b.dropLocked()
		return nil, fmt.Errorf("%w: list tools: %v", contractx.ErrConnectivity, err)
	}

	names := make([]string, 0, len(res.Tools))
	for _, t := range res.Tools {
		names = append(names, t.Name)
	}
	return names, nil
}

// Reconnect drops the current session and dials a fresh one.
func (b *Bridge) Reconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.dropLocked()
	return b.ensureLocked(ctx)
}

// Close terminates the session, if any.
func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return nil
	}
	err := b.session.Close()
	b.session = nil
	return err
}

func (b *Bridge) callLocked(ctx context.Context, tool string, args map[string]any) (map[string]any, error) {
	if err := b.ensureLocked(ctx); err != nil {
		return nil, err
	}

	res, err := b.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      tool,
		Arguments: args,
	})
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", tool, err)
	}

	return decodeResult(res)
}

func (b *Bridge) ensureLocked(ctx context.Context) error {
	if b.session != nil {
		return nil
	}

	session, err := b.dial(ctx)
	if err != nil {
		return err
	}
	b.session = session
	log.Debug().Msg("mcp session established")
	return nil
}

func (b *Bridge) dropLocked() {
	if b.session == nil {
		return
	}
	_ = b.session.Close()
	b.session = nil
}

// decodeResult turns a tool result into a mapping: structured content when
// present, otherwise the first text content parsed as JSON, otherwise the
// raw text under a "result" key.
func decodeResult(res *mcp.CallToolResult) (map[string]any, error) {
	if res == nil {
		return nil, errors.New("empty tool result")
	}

	if res.IsError {
		return errorMap(textContent(res)), nil
	}

	if res.StructuredContent != nil {
		if m, ok := res.StructuredContent.(map[string]any); ok {
			return m, nil
		}
		data, err := json.Marshal(res.StructuredContent)
		if err == nil {
			var m map[string]any
			if json.Unmarshal(data, &m) == nil {
				return m, nil
			}
		}
	}

	text := textContent(res)
	if text == "" {
		return errorMap("no content returned from tool"), nil
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(text), &m); err == nil {
		return m, nil
	}
	return map[string]any{"result": text}, nil
}

func textContent(res *mcp.CallToolResult) string {
	for _, content := range res.Content {
		if tc, ok := content.(*mcp.TextContent); ok && tc.Text != "" {
			return tc.Text
		}
	}
	return ""
}

func errorMap(msg string) map[string]any {
	if msg == "" {
		msg = "tool call failed"
	}
	return map[string]any{"error": msg}
}
