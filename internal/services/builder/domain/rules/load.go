package rules

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/louisbranch/questkit/internal/platform/errors"
)

// Format names a dataset serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath infers the format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		ext := filepath.Ext(path)
		return "", apperrors.WithMetadata(apperrors.CodeDatasetUnsupportedFormat,
			fmt.Sprintf("unsupported dataset extension %q", ext),
			map[string]string{"Format": ext})
	}
}

// Load decodes a dataset pack and normalizes its entries.
func Load(ctx context.Context, r io.Reader, format Format) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, invalid("reader is required", nil)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, invalid("read dataset", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ds Dataset
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &ds); err != nil {
			return nil, invalid("decode json dataset", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&ds); err != nil && err != io.EOF {
			return nil, invalid("decode yaml dataset", err)
		}
	default:
		return nil, apperrors.WithMetadata(apperrors.CodeDatasetUnsupportedFormat,
			fmt.Sprintf("unsupported dataset format %q", format),
			map[string]string{"Format": string(format)})
	}
	return Normalize(&ds), nil
}

// LoadFile reads a dataset pack from disk, inferring the format from its
// extension.
func LoadFile(ctx context.Context, path string) (*Dataset, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, invalid("open dataset", err)
	}
	defer f.Close()
	return Load(ctx, f, format)
}

// LoadFiles loads several packs and merges them in order.
func LoadFiles(ctx context.Context, paths ...string) (*Dataset, error) {
	packs := make([]*Dataset, 0, len(paths))
	for _, path := range paths {
		pack, err := LoadFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		packs = append(packs, pack)
	}
	return Merge(packs...), nil
}

func invalid(message string, cause error) error {
	reason := message
	if cause != nil {
		reason = message + ": " + cause.Error()
	}
	return apperrors.WrapWithMetadata(apperrors.CodeDatasetInvalid, message,
		map[string]string{"Reason": reason}, cause)
}
