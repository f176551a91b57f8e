package title

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"cutlist/internal/sidecar"
)

// Resolve computes the output title of sourceName, a media filename or path.
// It returns ErrUnrecognizedSourceName when the name carries no channel
// prefix or no title between underscores.
func Resolve(sourceName string, md *sidecar.Metadata, ctx *Context) (string, error) {
	stem := sidecar.Stem(filepath.Base(sourceName))
	channel, ok := channelOf(stem)
	if !ok {
		return "", fmt.Errorf("%w: %q has no channel prefix", ErrUnrecognizedSourceName, stem)
	}
	strategy := ctx.StrategyFor(channel)
	raw, err := extractRaw(strategy, stem, md)
	if err != nil {
		return "", err
	}
	var cleaner *Cleaner
	var index SeriesIndex
	if ctx != nil {
		cleaner, index = ctx.cleaner, ctx.index
	}
	cleaned := cleaner.Clean(raw)
	return index.Enrich(cleaned), nil
}

// Result is the outcome of ResolveOrPlaceholder.
type Result struct {
	Title       string
	Channel     string
	Strategy    Strategy
	Placeholder bool
}

// ResolveOrPlaceholder resolves sourceName, substituting the placeholder for
// unrecognized names. Other errors are returned unchanged.
func ResolveOrPlaceholder(sourceName string, md *sidecar.Metadata, ctx *Context) (Result, error) {
	stem := sidecar.Stem(filepath.Base(sourceName))
	channel, _ := channelOf(stem)
	res := Result{Channel: channel, Strategy: ctx.StrategyFor(channel)}
	resolved, err := Resolve(sourceName, md, ctx)
	switch {
	case errors.Is(err, ErrUnrecognizedSourceName):
		res.Title = ctx.Placeholder()
		res.Placeholder = true
		return res, nil
	case err != nil:
		return res, err
	}
	if strings.TrimSpace(resolved) == "" {
		res.Title = ctx.Placeholder()
		res.Placeholder = true
		return res, nil
	}
	res.Title = resolved
	return res, nil
}
