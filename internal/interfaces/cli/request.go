package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jmespath/go-jmespath"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/domain"
)

// apiKeyEnvVar is the fallback source for --api-key.
const apiKeyEnvVar = "CHATUI_API_KEY"

// requestFlags holds command-line flags for the request command
type requestFlags struct {
	File       string
	BaseURL    string
	APIKey     string
	Method     string
	Path       string
	Body       string
	BodyFile   string
	Headers    []string
	HTTPProxy  string
	HTTPSProxy string
	Query      string
	Pretty     bool
}

// NewRequestCommand creates the request command
func NewRequestCommand(container *CLIContainer) *cobra.Command {
	flags := &requestFlags{}

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Relay one HTTP request to an OpenAI-compatible backend",
		Long: `Relay one HTTP request described by a descriptor file, flags, or both.

Flags override descriptor-file values. The response is printed as envelope
JSON: {"status": ..., "body": ..., "headers": ...}. Remote API errors
(4xx/5xx) are envelopes too; only configuration and transport failures exit
non-zero.

Examples:
  # Descriptor file (JSON or YAML; '-' reads stdin)
  chatui request --file chat.yaml

  # Pure flags
  chatui request --base-url https://api.openai.com --path /v1/models --method GET

  # POST with body, extracting one field from the response
  chatui request --base-url https://api.openai.com --path /v1/chat/completions \
    --body '{"model":"gpt-4o-mini","messages":[{"role":"user","content":"hi"}]}' \
    --query 'choices[0].message.content'

  # Through a forward proxy
  chatui request --file chat.json --http-proxy http://proxy.corp:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			descriptor, err := buildRequestDescriptor(cmd, flags)
			if err != nil {
				return err
			}

			envelope, err := container.RelayService.ExecuteRequest(cmd.Context(), descriptor)
			if err != nil {
				return err
			}

			return printEnvelope(cmd.OutOrStdout(), envelope, flags.Query, flags.Pretty)
		},
	}

	cmd.Flags().StringVarP(&flags.File, "file", "f", "", "Request descriptor file, JSON or YAML ('-' for stdin)")
	cmd.Flags().StringVar(&flags.BaseURL, "base-url", "", "API base URL (e.g. https://api.openai.com)")
	cmd.Flags().StringVar(&flags.APIKey, "api-key", "", "API key for the bearer token (falls back to $"+apiKeyEnvVar+")")
	cmd.Flags().StringVar(&flags.Method, "method", "GET", "HTTP method (GET, POST, PUT, DELETE, PATCH)")
	cmd.Flags().StringVar(&flags.Path, "path", "", "Request path joined onto the base URL")
	cmd.Flags().StringVar(&flags.Body, "body", "", "Inline JSON request body")
	cmd.Flags().StringVar(&flags.BodyFile, "body-file", "", "File holding the JSON request body")
	cmd.Flags().StringArrayVar(&flags.Headers, "header", nil, "Additional header as key=value (repeatable)")
	cmd.Flags().StringVar(&flags.HTTPProxy, "http-proxy", "", "Forward proxy for http:// destinations")
	cmd.Flags().StringVar(&flags.HTTPSProxy, "https-proxy", "", "Forward proxy for https:// destinations")
	cmd.Flags().StringVarP(&flags.Query, "query", "q", "", "JMESPath expression applied to the response body")
	cmd.Flags().BoolVar(&flags.Pretty, "pretty", false, "Indent the printed JSON")

	return cmd
}

// buildRequestDescriptor merges the descriptor file (if any) with flag
// overrides into the descriptor handed to the relay.
func buildRequestDescriptor(cmd *cobra.Command, flags *requestFlags) (domain.RequestDescriptor, error) {
	var descriptor domain.RequestDescriptor

	if flags.File != "" {
		loaded, err := readDescriptorFile(cmd.InOrStdin(), flags.File)
		if err != nil {
			return domain.RequestDescriptor{}, err
		}
		descriptor = loaded
	}

	if cmd.Flags().Changed("base-url") {
		descriptor.BaseURL = flags.BaseURL
	}
	if cmd.Flags().Changed("api-key") {
		descriptor.APIKey = flags.APIKey
	}
	if descriptor.APIKey == "" {
		descriptor.APIKey = os.Getenv(apiKeyEnvVar)
	}
	if cmd.Flags().Changed("method") || descriptor.Method == "" {
		descriptor.Method = flags.Method
	}
	if cmd.Flags().Changed("path") {
		descriptor.Path = flags.Path
	}

	body, err := resolveBody(cmd, flags)
	if err != nil {
		return domain.RequestDescriptor{}, err
	}
	if body != nil {
		descriptor.Body = body
	}

	headers, err := parseHeaderFlags(flags.Headers)
	if err != nil {
		return domain.RequestDescriptor{}, err
	}
	for key, value := range headers {
		if descriptor.AdditionalHeaders == nil {
			descriptor.AdditionalHeaders = map[string]string{}
		}
		descriptor.AdditionalHeaders[key] = value
	}

	if flags.HTTPProxy != "" || flags.HTTPSProxy != "" {
		if descriptor.ProxyConfig == nil {
			descriptor.ProxyConfig = &domain.ProxyConfig{}
		}
		if flags.HTTPProxy != "" {
			descriptor.ProxyConfig.HTTPProxy = flags.HTTPProxy
		}
		if flags.HTTPSProxy != "" {
			descriptor.ProxyConfig.HTTPSProxy = flags.HTTPSProxy
		}
	}

	if descriptor.BaseURL == "" {
		return domain.RequestDescriptor{}, fmt.Errorf("base URL is required (--base-url or descriptor file)")
	}
	if descriptor.APIKey == "" {
		return domain.RequestDescriptor{}, fmt.Errorf("API key is required (--api-key, descriptor file, or $%s)", apiKeyEnvVar)
	}

	return descriptor, nil
}

// resolveBody picks the request body from --body or --body-file.
func resolveBody(cmd *cobra.Command, flags *requestFlags) (json.RawMessage, error) {
	if flags.Body != "" && flags.BodyFile != "" {
		return nil, fmt.Errorf("--body and --body-file are mutually exclusive")
	}

	var raw []byte
	switch {
	case flags.Body != "":
		raw = []byte(flags.Body)
	case flags.BodyFile != "":
		data, err := os.ReadFile(flags.BodyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read body file: %w", err)
		}
		raw = data
	default:
		return nil, nil
	}

	if !json.Valid(raw) {
		return nil, fmt.Errorf("request body is not valid JSON")
	}
	return raw, nil
}

// parseHeaderFlags turns repeated key=value flags into a header map.
func parseHeaderFlags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	headers := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid header %q: expected key=value", pair)
		}
		headers[key] = value
	}
	return headers, nil
}

// readDescriptorFile loads a descriptor from path, or stdin for "-".
func readDescriptorFile(stdin io.Reader, path string) (domain.RequestDescriptor, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.RequestDescriptor{}, fmt.Errorf("failed to read descriptor file: %w", err)
	}

	return parseDescriptor(data)
}

// parseDescriptor accepts a JSON document (body kept verbatim) or a YAML one
// (body re-encoded to JSON).
func parseDescriptor(data []byte) (domain.RequestDescriptor, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var descriptor domain.RequestDescriptor
		if err := json.Unmarshal(trimmed, &descriptor); err != nil {
			return domain.RequestDescriptor{}, fmt.Errorf("failed to parse JSON descriptor: %w", err)
		}
		return descriptor, nil
	}

	var doc descriptorDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.RequestDescriptor{}, fmt.Errorf("failed to parse YAML descriptor: %w", err)
	}
	return doc.toDescriptor()
}

// descriptorDocument mirrors RequestDescriptor for YAML input, where the body
// arrives as a YAML node rather than raw JSON.
type descriptorDocument struct {
	BaseURL           string            `yaml:"base_url"`
	APIKey            string            `yaml:"api_key"`
	Method            string            `yaml:"method"`
	Path              string            `yaml:"path"`
	Body              interface{}       `yaml:"body"`
	AdditionalHeaders map[string]string `yaml:"additional_headers"`
	ProxyConfig       *proxyDocument    `yaml:"proxy_config"`
}

type proxyDocument struct {
	HTTPProxy  string `yaml:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy"`
}

func (d descriptorDocument) toDescriptor() (domain.RequestDescriptor, error) {
	descriptor := domain.RequestDescriptor{
		BaseURL:           d.BaseURL,
		APIKey:            d.APIKey,
		Method:            d.Method,
		Path:              d.Path,
		AdditionalHeaders: d.AdditionalHeaders,
	}

	if d.Body != nil {
		body, err := json.Marshal(d.Body)
		if err != nil {
			return domain.RequestDescriptor{}, fmt.Errorf("failed to encode descriptor body as JSON: %w", err)
		}
		descriptor.Body = body
	}

	if d.ProxyConfig != nil {
		descriptor.ProxyConfig = &domain.ProxyConfig{
			HTTPProxy:  d.ProxyConfig.HTTPProxy,
			HTTPSProxy: d.ProxyConfig.HTTPSProxy,
		}
	}

	return descriptor, nil
}

// printEnvelope writes the envelope (or a JMESPath extraction of its body)
// as JSON.
func printEnvelope(w io.Writer, envelope *domain.ResponseEnvelope, query string, pretty bool) error {
	if query != "" {
		return printQueryResult(w, envelope, query, pretty)
	}

	data, err := encodeJSON(envelope, pretty)
	if err != nil {
		return fmt.Errorf("failed to encode envelope: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// printQueryResult applies a JMESPath expression to the response body.
func printQueryResult(w io.Writer, envelope *domain.ResponseEnvelope, query string, pretty bool) error {
	var body interface{}
	if err := json.Unmarshal([]byte(envelope.Body), &body); err != nil {
		return fmt.Errorf("response body is not valid JSON: %w", err)
	}

	jp, err := jmespath.Compile(query)
	if err != nil {
		return fmt.Errorf("invalid JMESPath expression %q: %w", query, err)
	}

	result, err := jp.Search(body)
	if err != nil {
		return fmt.Errorf("JMESPath search failed: %w", err)
	}
	if result == nil {
		fmt.Fprintln(w, "null")
		return nil
	}

	data, err := encodeJSON(result, pretty)
	if err != nil {
		return fmt.Errorf("failed to encode query result: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func encodeJSON(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
