package cli

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/domain"
)

// defaultUploadPurpose matches the backend's assistants file purpose.
const defaultUploadPurpose = "assistants"

// uploadFlags holds command-line flags for the upload command
type uploadFlags struct {
	File       string
	FilePath   string
	FileName   string
	Purpose    string
	BaseURL    string
	APIKey     string
	Headers    []string
	HTTPProxy  string
	HTTPSProxy string
	Pretty     bool
}

// NewUploadCommand creates the upload command
func NewUploadCommand(container *CLIContainer) *cobra.Command {
	flags := &uploadFlags{}

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a file to the backend's files endpoint",
		Long: `Upload a file as multipart/form-data to the backend's files endpoint.

--file-path reads and base64-encodes a local file; alternatively a descriptor
file can carry the payload pre-encoded. The backend's response is printed as
envelope JSON.

Examples:
  chatui upload --base-url https://api.openai.com/v1 --file-path report.pdf
  chatui upload --file upload.yaml --purpose fine-tune`,
		RunE: func(cmd *cobra.Command, args []string) error {
			descriptor, err := buildUploadDescriptor(cmd, flags)
			if err != nil {
				return err
			}

			envelope, err := container.RelayService.UploadFile(cmd.Context(), descriptor)
			if err != nil {
				return err
			}

			return printEnvelope(cmd.OutOrStdout(), envelope, "", flags.Pretty)
		},
	}

	cmd.Flags().StringVarP(&flags.File, "file", "f", "", "Upload descriptor file, JSON or YAML ('-' for stdin)")
	cmd.Flags().StringVar(&flags.FilePath, "file-path", "", "Local file to read and base64-encode")
	cmd.Flags().StringVar(&flags.FileName, "file-name", "", "File name sent to the backend (default: base name of --file-path)")
	cmd.Flags().StringVar(&flags.Purpose, "purpose", defaultUploadPurpose, "Purpose form field for the upload")
	cmd.Flags().StringVar(&flags.BaseURL, "base-url", "", "API base URL (e.g. https://api.openai.com/v1)")
	cmd.Flags().StringVar(&flags.APIKey, "api-key", "", "API key for the bearer token (falls back to $"+apiKeyEnvVar+")")
	cmd.Flags().StringArrayVar(&flags.Headers, "header", nil, "Additional header as key=value (repeatable)")
	cmd.Flags().StringVar(&flags.HTTPProxy, "http-proxy", "", "Forward proxy for http:// destinations")
	cmd.Flags().StringVar(&flags.HTTPSProxy, "https-proxy", "", "Forward proxy for https:// destinations")
	cmd.Flags().BoolVar(&flags.Pretty, "pretty", false, "Indent the printed JSON")

	return cmd
}

// buildUploadDescriptor merges the descriptor file (if any) with flag
// overrides, reading and encoding --file-path when given.
func buildUploadDescriptor(cmd *cobra.Command, flags *uploadFlags) (domain.FileUploadDescriptor, error) {
	var descriptor domain.FileUploadDescriptor

	if flags.File != "" {
		loaded, err := readUploadDescriptorFile(cmd.InOrStdin(), flags.File)
		if err != nil {
			return domain.FileUploadDescriptor{}, err
		}
		descriptor = loaded
	}

	if flags.FilePath != "" {
		data, err := os.ReadFile(flags.FilePath)
		if err != nil {
			return domain.FileUploadDescriptor{}, fmt.Errorf("failed to read upload file: %w", err)
		}
		descriptor.FileData = base64.StdEncoding.EncodeToString(data)
		if descriptor.FileName == "" {
			descriptor.FileName = filepath.Base(flags.FilePath)
		}
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
	if cmd.Flags().Changed("file-name") {
		descriptor.FileName = flags.FileName
	}
	if cmd.Flags().Changed("purpose") || descriptor.Purpose == "" {
		descriptor.Purpose = flags.Purpose
	}

	headers, err := parseHeaderFlags(flags.Headers)
	if err != nil {
		return domain.FileUploadDescriptor{}, err
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
		return domain.FileUploadDescriptor{}, fmt.Errorf("base URL is required (--base-url or descriptor file)")
	}
	if descriptor.APIKey == "" {
		return domain.FileUploadDescriptor{}, fmt.Errorf("API key is required (--api-key, descriptor file, or $%s)", apiKeyEnvVar)
	}
	if descriptor.FileData == "" {
		return domain.FileUploadDescriptor{}, fmt.Errorf("file payload is required (--file-path or descriptor file)")
	}
	if descriptor.FileName == "" {
		return domain.FileUploadDescriptor{}, fmt.Errorf("file name is required (--file-name or descriptor file)")
	}

	return descriptor, nil
}

// readUploadDescriptorFile loads an upload descriptor from path, or stdin
// for "-".
func readUploadDescriptorFile(stdin io.Reader, path string) (domain.FileUploadDescriptor, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.FileUploadDescriptor{}, fmt.Errorf("failed to read descriptor file: %w", err)
	}

	return parseUploadDescriptor(data)
}

// parseUploadDescriptor accepts a JSON or YAML upload descriptor document.
func parseUploadDescriptor(data []byte) (domain.FileUploadDescriptor, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var descriptor domain.FileUploadDescriptor
		if err := json.Unmarshal(trimmed, &descriptor); err != nil {
			return domain.FileUploadDescriptor{}, fmt.Errorf("failed to parse JSON descriptor: %w", err)
		}
		return descriptor, nil
	}

	var doc uploadDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.FileUploadDescriptor{}, fmt.Errorf("failed to parse YAML descriptor: %w", err)
	}
	return doc.toDescriptor(), nil
}

// uploadDocument mirrors FileUploadDescriptor for YAML input.
type uploadDocument struct {
	BaseURL           string            `yaml:"base_url"`
	APIKey            string            `yaml:"api_key"`
	FileData          string            `yaml:"file_data"`
	FileName          string            `yaml:"file_name"`
	Purpose           string            `yaml:"purpose"`
	AdditionalHeaders map[string]string `yaml:"additional_headers"`
	ProxyConfig       *proxyDocument    `yaml:"proxy_config"`
}

func (d uploadDocument) toDescriptor() domain.FileUploadDescriptor {
	descriptor := domain.FileUploadDescriptor{
		BaseURL:           d.BaseURL,
		APIKey:            d.APIKey,
		FileData:          d.FileData,
		FileName:          d.FileName,
		Purpose:           d.Purpose,
		AdditionalHeaders: d.AdditionalHeaders,
	}
	if d.ProxyConfig != nil {
		descriptor.ProxyConfig = &domain.ProxyConfig{
			HTTPProxy:  d.ProxyConfig.HTTPProxy,
			HTTPSProxy: d.ProxyConfig.HTTPSProxy,
		}
	}
	return descriptor
}
