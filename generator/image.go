package generator

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ImageGenerator turns a prompt into a local image file.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ImageSettings configures the image client.
type ImageSettings struct {
	Model     string
	APIKey    string
	BaseURL   string
	OutputDir string
}

// OpenAIImage implements ImageGenerator with the openai-go Images API.
type OpenAIImage struct {
	Model     string
	OutputDir string
	Opts      []option.RequestOption
	client    *http.Client
}

func NewOpenAIImageFromConfig(cfg *ImageSettings) (*OpenAIImage, error) {
	if cfg == nil {
		return nil, errors.New("image config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("image api key missing; provide image.api_key")
	}
	model := cfg.Model
	if model == "" {
		model = string(openai.ImageModelDallE3)
	}
	dir := cfg.OutputDir
	if dir == "" {
		dir = "output/images"
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIImage{
		Model:     model,
		OutputDir: dir,
		Opts:      opts,
		client:    &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (o *OpenAIImage) Generate(ctx context.Context, prompt string) (string, error) {
	client := openai.NewClient(o.Opts...)

	params := openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModel(o.Model),
		N:      openai.Int(1),
	}
	// gpt-image models always answer in base64 and reject response_format.
	if strings.HasPrefix(o.Model, "dall-e") {
		params.ResponseFormat = openai.ImageGenerateParamsResponseFormatB64JSON
		params.Size = openai.ImageGenerateParamsSize1792x1024
	}
	resp, err := client.Images.Generate(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		return "", errors.New("openai images: empty data")
	}

	var data []byte
	switch img := resp.Data[0]; {
	case img.B64JSON != "":
		data, err = base64.StdEncoding.DecodeString(img.B64JSON)
		if err != nil {
			return "", fmt.Errorf("decode image: %w", err)
		}
	case img.URL != "":
		data, err = o.download(ctx, img.URL)
		if err != nil {
			return "", err
		}
	default:
		return "", errors.New("openai images: no image payload")
	}

	if err := os.MkdirAll(o.OutputDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(o.OutputDir, fmt.Sprintf("featured_%d.png", time.Now().UnixNano()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (o *OpenAIImage) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download image: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
