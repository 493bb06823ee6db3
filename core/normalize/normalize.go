// ABOUTME: Normalizer turns raw vision model text into the fixed comment list the report UI renders
// ABOUTME: Tolerates several output shapes and fills defaults for missing fields

package normalize

import (
	"strings"

	"github.com/tidwall/gjson"

	"conversion-roast-api/core/domain"
	"conversion-roast-api/core/errors"
)

// allowListKeys are the property names the model is known to wrap its feedback in
var allowListKeys = []string{"feedback", "roast", "comments", "sections"}

// matcher extracts the feedback array from the parsed reply.
// matched reports that the shape applies, even when the array is empty.
type matcher func(root gjson.Result) (items []gjson.Result, matched bool)

// matchers run in order, the first one that matches decides the result
var matchers = []matcher{
	matchTopLevelArray,
	matchAllowListedKey,
	matchFirstArrayProperty,
}

// Normalize parses raw model text into comments with ids 1..n.
//
// Returns ErrMalformedOutput when the text is not a JSON object or array,
// ErrNoFeedbackFound when no array can be located and ErrEmptyFeedback when
// the located array holds no items.
func Normalize(raw string) ([]domain.Comment, error) {
	text := stripCodeFence(raw)
	if text == "" || !gjson.Valid(text) {
		return nil, errors.ErrMalformedOutput
	}

	root := gjson.Parse(text)
	if !root.IsArray() && !root.IsObject() {
		return nil, errors.ErrMalformedOutput
	}

	for _, match := range matchers {
		items, matched := match(root)
		if !matched {
			continue
		}
		if len(items) == 0 {
			return nil, errors.ErrEmptyFeedback
		}
		return toComments(items), nil
	}

	return nil, errors.ErrNoFeedbackFound
}

func matchTopLevelArray(root gjson.Result) ([]gjson.Result, bool) {
	if !root.IsArray() {
		return nil, false
	}
	return root.Array(), true
}

// matchAllowListedKey takes the first allow-listed key holding an array, empty or not
func matchAllowListedKey(root gjson.Result) ([]gjson.Result, bool) {
	if !root.IsObject() {
		return nil, false
	}
	for _, key := range allowListKeys {
		value := root.Get(key)
		if value.IsArray() {
			return value.Array(), true
		}
	}
	return nil, false
}

// matchFirstArrayProperty takes the first non-empty array in document order
func matchFirstArrayProperty(root gjson.Result) ([]gjson.Result, bool) {
	if !root.IsObject() {
		return nil, false
	}
	var found []gjson.Result
	root.ForEach(func(_, value gjson.Result) bool {
		if !value.IsArray() {
			return true
		}
		if items := value.Array(); len(items) > 0 {
			found = items
			return false
		}
		return true
	})
	return found, found != nil
}

func toComments(items []gjson.Result) []domain.Comment {
	comments := make([]domain.Comment, 0, len(items))
	for i, item := range items {
		comments = append(comments, domain.Comment{
			ID:            i + 1,
			Section:       firstString(item, "Page", "section"),
			Category:      firstString(item, domain.CategoryGeneral, "category", "label"),
			Issue:         firstString(item, "", "issue", "problem"),
			Solution:      firstString(item, "", "suggestion", "solution"),
			Example:       firstString(item, "", "example", "example_text"),
			HighlightArea: highlightArea(item),
		})
	}
	return comments
}

// firstString returns the first present field among keys, or def.
// Non-object items carry no fields and get all defaults.
func firstString(item gjson.Result, def string, keys ...string) string {
	if !item.IsObject() {
		return def
	}
	for _, key := range keys {
		value := item.Get(key)
		if isPresent(value) {
			return value.String()
		}
	}
	return def
}

func highlightArea(item gjson.Result) domain.HighlightArea {
	if !item.IsObject() {
		return domain.HighlightArea{}
	}
	for _, key := range []string{"highlightArea", "highlight_area"} {
		value := item.Get(key)
		if !isPresent(value) {
			continue
		}
		if !value.IsObject() {
			return domain.HighlightArea{}
		}
		return domain.HighlightArea{
			X:      int(value.Get("x").Int()),
			Y:      int(value.Get("y").Int()),
			Width:  int(value.Get("width").Int()),
			Height: int(value.Get("height").Int()),
		}
	}
	return domain.HighlightArea{}
}

// isPresent treats missing, null, "", false and 0 as absent
func isPresent(value gjson.Result) bool {
	if !value.Exists() {
		return false
	}
	switch value.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.String:
		return value.Str != ""
	case gjson.Number:
		return value.Num != 0
	}
	return true
}

// stripCodeFence removes a surrounding ```json ... ``` block if present
func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = strings.TrimPrefix(text, "json")
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
