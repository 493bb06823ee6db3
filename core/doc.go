// Package core contains the business logic of the Conversion ROAST API.
// It does not depend on the HTTP framework or on any storage backend.
//
// The core package is organized into several sub-packages:
//
// - domain: roast records, submissions, comments, scores and pipeline stages
// - screenshot: captures a landing page through the screenshot API
// - feedback: asks the vision model for a critique of a screenshot
// - normalize: turns the model's JSON into a comment list
// - scoring: derives the scorecard from comment categories
// - roast: runs the pipeline with retries, deadlines and fallback
// - heatmap: predicts an attention map for a screenshot
// - services: page metadata used to title roasts
// - errors: typed errors that decide retry, fallback and HTTP status
// - interfaces: contracts for cache, HTTP, logger, storage and model clients
//
// # Usage Example
//
//	deps := interfaces.Dependencies{
//	    Cache:      myCache,
//	    HTTPClient: myHTTPClient,
//	    Logger:     myLogger,
//	    Storage:    myStore,
//	    Model:      myModel,
//	}
//
//	svc := roast.NewService(deps, roast.Stages{
//	    Screenshots: screenshot.NewResolver(deps, screenshot.Config{APIKey: key}),
//	    Feedback:    feedback.NewGenerator(deps, feedback.Config{}),
//	    Scores:      scoring.NewSynthesizer(scoring.NewRandomStrategy()),
//	}, flags, config.DefaultRoastConfig())
//
//	result, err := svc.Run(ctx, domain.Submission{URL: "https://example.com"})
package core
