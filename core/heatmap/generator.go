// ABOUTME: Heatmap generator predicts an attention map for a screenshot with a Replicate model
// ABOUTME: Creates a prediction and polls it until it succeeds, fails or runs out of attempts

package heatmap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"conversion-roast-api/core/domain"
	"conversion-roast-api/core/errors"
	"conversion-roast-api/core/interfaces"
)

const (
	DefaultBaseURL = "https://api.replicate.com/v1"

	// DefaultModelVersion is the FastSAM segmentation model
	DefaultModelVersion = "915ca5937158c8cd8553a91637345c3fb0eddf33c76e195da03b5eea520e79e3"

	DefaultPollInterval = 2 * time.Second
	DefaultMaxPolls     = 30

	apiName      = "replicate"
	maxReplySize = 1 << 20
)

// Config holds the Replicate settings
type Config struct {
	APIToken     string
	BaseURL      string
	ModelVersion string
	PollInterval time.Duration
	MaxPolls     int
}

// Generator runs heatmap predictions
type Generator struct {
	deps interfaces.Dependencies
	cfg  Config
}

// NewGenerator creates a generator, filling unset config with defaults
func NewGenerator(deps interfaces.Dependencies, cfg Config) *Generator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.ModelVersion == "" {
		cfg.ModelVersion = DefaultModelVersion
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.MaxPolls <= 0 {
		cfg.MaxPolls = DefaultMaxPolls
	}
	return &Generator{deps: deps, cfg: cfg}
}

type predictionInput struct {
	Image         string  `json:"image"`
	Device        string  `json:"device"`
	OutputType    string  `json:"output_type"`
	HighQuality   bool    `json:"high_quality"`
	BoxThreshold  float64 `json:"box_threshold"`
	TextThreshold float64 `json:"text_threshold"`
	HeatmapFormat string  `json:"heatmap_format"`
}

type predictionRequest struct {
	Version string          `json:"version"`
	Input   predictionInput `json:"input"`
}

// Generate creates a prediction for imageURL and waits for its output
func (g *Generator) Generate(ctx context.Context, imageURL string) (*domain.Heatmap, error) {
	if imageURL == "" {
		return nil, &errors.ValidationError{Field: "image_url", Message: "image_url is required"}
	}
	if !domain.IsHTTPURL(imageURL) {
		return nil, &errors.ValidationError{Field: "image_url", Message: "image_url must start with http:// or https://"}
	}
	if g.cfg.APIToken == "" {
		return nil, &errors.MissingCredentialError{Credential: "REPLICATE_API_TOKEN"}
	}
	if g.deps.HTTPClient == nil {
		return nil, fmt.Errorf("HTTP client not configured")
	}

	id, err := g.createPrediction(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	g.logInfo("Heatmap prediction started", map[string]interface{}{
		"prediction_id": id,
		"image_url":     imageURL,
	})

	for attempt := 1; attempt <= g.cfg.MaxPolls; attempt++ {
		select {
		case <-time.After(g.cfg.PollInterval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		reply, err := g.call(ctx, http.MethodGet, g.cfg.BaseURL+"/predictions/"+id, nil)
		if err != nil {
			return nil, err
		}

		status := reply.Get("status").String()
		g.logDebug("Heatmap prediction status", map[string]interface{}{
			"prediction_id": id,
			"status":        status,
			"attempt":       attempt,
		})

		switch status {
		case "succeeded":
			output := outputURL(reply.Get("output"))
			if output == "" {
				return nil, &errors.ExternalAPIError{API: apiName, StatusCode: http.StatusOK, Message: "prediction returned no output"}
			}
			return &domain.Heatmap{
				HeatmapURL:  output,
				OriginalURL: imageURL,
				Timestamp:   time.Now().UTC(),
			}, nil
		case "failed", "canceled":
			msg := reply.Get("error").String()
			if msg == "" {
				msg = "Unknown error"
			}
			return nil, &errors.ExternalAPIError{API: apiName, StatusCode: http.StatusOK, Message: "prediction " + status + ": " + msg}
		}
	}

	return nil, &errors.TimeoutError{Operation: "heatmap prediction " + id, Attempts: g.cfg.MaxPolls}
}

func (g *Generator) createPrediction(ctx context.Context, imageURL string) (string, error) {
	body, err := json.Marshal(predictionRequest{
		Version: g.cfg.ModelVersion,
		Input: predictionInput{
			Image:         imageURL,
			Device:        "cpu",
			OutputType:    "segment",
			HighQuality:   true,
			BoxThreshold:  0.3,
			TextThreshold: 0.25,
			HeatmapFormat: "float",
		},
	})
	if err != nil {
		return "", err
	}

	reply, err := g.call(ctx, http.MethodPost, g.cfg.BaseURL+"/predictions", body)
	if err != nil {
		return "", err
	}

	id := reply.Get("id").String()
	if id == "" {
		return "", &errors.ExternalAPIError{API: apiName, StatusCode: http.StatusOK, Message: "prediction has no id"}
	}
	return id, nil
}

// call sends an authorized request and returns the parsed JSON reply
func (g *Generator) call(ctx context.Context, method, url string, body []byte) (gjson.Result, error) {
	header := http.Header{}
	header.Set("Authorization", "Token "+g.cfg.APIToken)
	header.Set("Content-Type", "application/json")

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	resp, err := g.deps.HTTPClient.Do(ctx, method, url, header, reader)
	if err != nil {
		return gjson.Result{}, &errors.FetchError{URL: url, Err: err}
	}
	defer resp.Body().Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body(), maxReplySize))
	if err != nil {
		return gjson.Result{}, &errors.FetchError{URL: url, Err: err}
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return gjson.Result{}, &errors.ExternalAPIError{API: apiName, StatusCode: resp.StatusCode(), Message: string(data)}
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, &errors.ExternalAPIError{API: apiName, StatusCode: resp.StatusCode(), Message: "invalid JSON reply"}
	}
	return gjson.ParseBytes(data), nil
}

// outputURL accepts a single URL or a list of URLs, returning the first
func outputURL(output gjson.Result) string {
	if output.IsArray() {
		for _, item := range output.Array() {
			if item.Type == gjson.String && item.Str != "" {
				return item.Str
			}
		}
		return ""
	}
	if output.Type == gjson.String {
		return output.Str
	}
	return ""
}

func (g *Generator) logInfo(msg string, fields map[string]interface{}) {
	if g.deps.Logger != nil {
		g.deps.Logger.Info(msg, fields)
	}
}

func (g *Generator) logDebug(msg string, fields map[string]interface{}) {
	if g.deps.Logger != nil {
		g.deps.Logger.Debug(msg, fields)
	}
}
