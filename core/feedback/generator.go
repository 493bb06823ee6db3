// ABOUTME: Vision feedback generator sends a landing page screenshot to the vision model
// ABOUTME: Returns the raw reply text, normalization happens in a later stage

package feedback

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"conversion-roast-api/core/domain"
	"conversion-roast-api/core/errors"
	"conversion-roast-api/core/interfaces"
)

// DefaultMaxTokens is the completion budget of one critique
const DefaultMaxTokens = 2500

// Config controls the generator
type Config struct {
	MaxTokens int

	// CredentialName is reported when no model client is configured
	CredentialName string

	ImageCacheTTL time.Duration

	// ResponseCacheTTL is used when response caching is enabled per call
	ResponseCacheTTL time.Duration
}

// Generator produces raw critiques with a ModelClient
type Generator struct {
	deps interfaces.Dependencies
	cfg  Config
}

// NewGenerator creates a generator. deps.Model may be nil, Generate then
// fails with MissingCredentialError.
func NewGenerator(deps interfaces.Dependencies, cfg Config) *Generator {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.CredentialName == "" {
		cfg.CredentialName = "OPENAI_API_KEY"
	}
	if cfg.ImageCacheTTL == 0 {
		cfg.ImageCacheTTL = time.Hour
	}
	if cfg.ResponseCacheTTL == 0 {
		cfg.ResponseCacheTTL = 24 * time.Hour
	}
	return &Generator{deps: deps, cfg: cfg}
}

type cacheOptionKey struct{}

// WithResponseCache marks ctx so Generate reuses and stores raw replies
func WithResponseCache(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, cacheOptionKey{}, enabled)
}

func responseCacheEnabled(ctx context.Context) bool {
	enabled, _ := ctx.Value(cacheOptionKey{}).(bool)
	return enabled
}

// Generate asks the model for a critique of the request's image in its page context
func (g *Generator) Generate(ctx context.Context, req domain.RoastRequest) (*domain.RawModelOutput, error) {
	if err := req.Image.Validate(); err != nil {
		return nil, &errors.ValidationError{Field: "image_url", Message: err.Error()}
	}
	if g.deps.Model == nil {
		return nil, &errors.MissingCredentialError{Credential: g.cfg.CredentialName}
	}

	pc := req.Context.WithDefaults()

	img, err := g.loadImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	useCache := g.deps.Cache != nil && responseCacheEnabled(ctx)
	cacheKey := g.responseCacheKey(img.Data, pc)
	if useCache {
		if cached, err := g.deps.Cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			g.logDebug("Using cached model reply", map[string]interface{}{"model": g.deps.Model.Name()})
			return g.output(string(cached), img), nil
		}
	}

	start := time.Now()
	text, err := g.deps.Model.Complete(ctx, interfaces.VisionRequest{
		SystemPrompt: SystemPrompt(pc),
		UserPrompt:   UserPrompt,
		Image:        img.Data,
		MIMEType:     img.MIMEType,
		MaxTokens:    g.cfg.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	g.logInfo("Model reply received", map[string]interface{}{
		"model":       g.deps.Model.Name(),
		"duration_ms": time.Since(start).Milliseconds(),
		"chars":       len(text),
	})

	// A blank reply is handed on for normalization but never cached
	if useCache && strings.TrimSpace(text) != "" {
		_ = g.deps.Cache.Set(ctx, cacheKey, []byte(text), g.cfg.ResponseCacheTTL)
	}

	return g.output(text, img), nil
}

func (g *Generator) output(text string, img *loadedImage) *domain.RawModelOutput {
	return &domain.RawModelOutput{
		Text:        text,
		Source:      g.deps.Model.Name(),
		ImageWidth:  img.Width,
		ImageHeight: img.Height,
	}
}

// responseCacheKey identifies a reply by model, image content and page context
func (g *Generator) responseCacheKey(data []byte, pc domain.PageContext) string {
	h := sha256.New()
	h.Write([]byte(g.deps.Model.Name()))
	h.Write([]byte{0})
	h.Write(data)
	for _, part := range []string{pc.Goal, pc.Audience, pc.Tone} {
		h.Write([]byte{0})
		h.Write([]byte(part))
	}
	return "feedback:" + hex.EncodeToString(h.Sum(nil))
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
