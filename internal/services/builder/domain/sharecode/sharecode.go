// Package sharecode turns a snapshot into a compact URL-safe token and back.
//
// A token is the canonical JSON of a versioned record, LZW-compressed over
// its bytes, packed as big-endian 16-bit codes and encoded as unpadded
// base64url. Decoding rejects any token that is not exactly the encoding of
// a valid record, so a single altered character never decodes.
package sharecode

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"slices"
	"strconv"
	"time"

	apperrors "github.com/louisbranch/questkit/internal/platform/errors"
	"github.com/louisbranch/questkit/internal/services/builder/domain/build"
	"github.com/louisbranch/questkit/internal/services/builder/domain/core/encoding"
	"github.com/louisbranch/questkit/internal/services/builder/domain/snapshot"
)

// Version is the record schema version written by Encode.
const Version = 1

var tokenEncoding = base64.RawURLEncoding.Strict()

// requiredFields must be present in every record.
var requiredFields = []string{"data", "step", "completedSteps", "updatedAt", "revision"}

// Summary is the small preview carried in every token.
type Summary struct {
	Name  string `json:"name,omitempty"`
	Class string `json:"class,omitempty"`
	Level int    `json:"level,omitempty"`
}

// SummaryOf builds the preview for data: its name, first class and total
// level.
func SummaryOf(data build.Data) Summary {
	summary := Summary{Name: data.Name, Level: data.TotalLevel()}
	if len(data.Classes) > 0 {
		summary.Class = data.Classes[0].Ref
	}
	return summary
}

// record is the serialized form. Checksum is the content hash of the record
// without the checksum field.
type record struct {
	Version        int        `json:"v"`
	Data           build.Data `json:"data"`
	CompletedSteps []string   `json:"completedSteps"`
	Step           int        `json:"step"`
	StepID         string     `json:"stepId,omitempty"`
	UpdatedAt      int64      `json:"updatedAt"`
	Revision       int        `json:"revision"`
	Meta           Summary    `json:"meta"`
	Checksum       string     `json:"checksum,omitempty"`
}

// Payload is a decoded token.
type Payload struct {
	Version  int
	Snapshot snapshot.Snapshot
	Summary  Summary
	Checksum string
}

// Encode serializes s. A zero meta is replaced by SummaryOf(s.Data).
// Timestamps are kept at millisecond precision.
func Encode(s snapshot.Snapshot, meta Summary) (string, error) {
	if meta == (Summary{}) {
		meta = SummaryOf(s.Data)
	}
	completed := slices.Clone(s.CompletedSteps)
	if completed == nil {
		completed = []string{}
	}
	rec := record{
		Version:        Version,
		Data:           s.Data,
		CompletedSteps: completed,
		Step:           s.Step,
		StepID:         s.StepID,
		UpdatedAt:      s.UpdatedAt.UnixMilli(),
		Revision:       s.Revision,
		Meta:           meta,
	}
	checksum, err := encoding.ContentHash(rec)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeShareTokenMalformed, "hash share record", err)
	}
	rec.Checksum = checksum
	text, err := encoding.CanonicalJSON(rec)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeShareTokenMalformed, "encode share record", err)
	}
	if len(text) > maxRecordSize {
		return "", apperrors.New(apperrors.CodeShareTokenTooLarge, "share record is too large")
	}
	return tokenEncoding.EncodeToString(pack(compress(text))), nil
}

// Decode parses and validates token. Failures are *apperrors.Error values
// with SHARE_TOKEN_* codes.
func Decode(token string) (Payload, error) {
	if token == "" {
		return Payload{}, apperrors.New(apperrors.CodeShareTokenEmpty, "share token is empty")
	}
	packed, err := tokenEncoding.DecodeString(token)
	if err != nil {
		return Payload{}, apperrors.Wrap(apperrors.CodeShareTokenEncoding, "share token is not base64url", err)
	}
	if len(packed)%2 != 0 {
		return Payload{}, apperrors.New(apperrors.CodeShareTokenTruncated, "share token has an odd number of bytes")
	}
	codes := unpack(packed)
	text, err := decompress(codes, maxRecordSize)
	if errors.Is(err, errRecordTooLarge) {
		return Payload{}, apperrors.Wrap(apperrors.CodeShareTokenTooLarge, "share record is too large", err)
	}
	if err != nil {
		return Payload{}, apperrors.Wrap(apperrors.CodeShareTokenDictionary, "share token dictionary is inconsistent", err)
	}

	canonical, err := encoding.Canonicalize(text)
	if err != nil {
		return Payload{}, apperrors.Wrap(apperrors.CodeShareTokenMalformed, "share record is not JSON", err)
	}
	if !bytes.Equal(canonical, text) || !slices.Equal(compress(canonical), codes) {
		return Payload{}, apperrors.New(apperrors.CodeShareTokenNonCanonical, "share token is not in canonical form")
	}

	fields, err := decodeObject(text)
	if err != nil {
		return Payload{}, apperrors.Wrap(apperrors.CodeShareTokenMalformed, "share record is not an object", err)
	}
	if err := verifyChecksum(fields); err != nil {
		return Payload{}, err
	}
	if err := checkVersion(fields); err != nil {
		return Payload{}, err
	}
	for _, field := range requiredFields {
		if _, ok := fields[field]; !ok {
			return Payload{}, apperrors.WithMetadata(apperrors.CodeShareTokenMissingField,
				"share record is missing "+field, map[string]string{"Field": field})
		}
	}

	var rec record
	if err := json.Unmarshal(text, &rec); err != nil {
		return Payload{}, apperrors.Wrap(apperrors.CodeShareTokenMalformed, "share record has invalid fields", err)
	}
	return Payload{
		Version: rec.Version,
		Snapshot: snapshot.Snapshot{
			Data:           rec.Data,
			CompletedSteps: rec.CompletedSteps,
			Step:           rec.Step,
			StepID:         rec.StepID,
			UpdatedAt:      time.UnixMilli(rec.UpdatedAt).UTC(),
			Revision:       rec.Revision,
		},
		Summary:  rec.Meta,
		Checksum: rec.Checksum,
	}, nil
}

func decodeObject(text []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func verifyChecksum(fields map[string]any) error {
	claimed, _ := fields["checksum"].(string)
	if claimed == "" {
		return apperrors.New(apperrors.CodeShareTokenChecksum, "share record has no checksum")
	}
	body := make(map[string]any, len(fields))
	for key, value := range fields {
		if key != "checksum" {
			body[key] = value
		}
	}
	actual, err := encoding.ContentHash(body)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeShareTokenMalformed, "hash share record", err)
	}
	if actual != claimed {
		return apperrors.New(apperrors.CodeShareTokenChecksum, "share record checksum mismatch")
	}
	return nil
}

func checkVersion(fields map[string]any) error {
	raw, ok := fields["v"]
	if !ok {
		return apperrors.WithMetadata(apperrors.CodeShareTokenMissingField,
			"share record is missing v", map[string]string{"Field": "v"})
	}
	number, ok := raw.(json.Number)
	if !ok || number.String() != strconv.Itoa(Version) {
		got := "?"
		if ok {
			got = number.String()
		}
		return apperrors.WithMetadata(apperrors.CodeShareTokenVersion,
			"unsupported share record version", map[string]string{"Version": got})
	}
	return nil
}
