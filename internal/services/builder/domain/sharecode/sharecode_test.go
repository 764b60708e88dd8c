package sharecode

import (
	"bytes"
	"errors"
	"math/rand"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"time"

	apperrors "github.com/louisbranch/questkit/internal/platform/errors"
	"github.com/louisbranch/questkit/internal/services/builder/domain/build"
	"github.com/louisbranch/questkit/internal/services/builder/domain/core/encoding"
	"github.com/louisbranch/questkit/internal/services/builder/domain/snapshot"
)

func sampleSnapshot() snapshot.Snapshot {
	return snapshot.Snapshot{
		Data: build.Data{
			Name:      "Vex <the> & Bold",
			Abilities: map[string]int{"str": 8, "int": 15},
			Ancestry:  "elf",
			Classes:   []build.ClassEntry{{Ref: "wizard", Level: 3}, {Ref: "rogue", Level: 1}},
			Traits:    []build.TraitSelection{{Key: "lucky-charm", Name: "Lucky Charm", Custom: true}},
			Equipment: build.Equipment{
				Weapons: []build.EquipmentEntry{{Ref: "dagger", Quantity: 2}},
				Gear:    []build.EquipmentEntry{{Ref: "rope", Quantity: 1, Notes: "50 ft"}},
			},
		},
		CompletedSteps: []string{"basics", "class"},
		Step:           4,
		StepID:         "abilities",
		UpdatedAt:      time.Date(2026, 3, 14, 15, 9, 26, 535000000, time.UTC),
		Revision:       12,
	}
}

func tokenFor(text []byte) string {
	return tokenEncoding.EncodeToString(pack(compress(text)))
}

func sealed(t *testing.T, fields map[string]any) string {
	t.Helper()
	checksum, err := encoding.ContentHash(fields)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	fields["checksum"] = checksum
	text, err := encoding.CanonicalJSON(fields)
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	return tokenFor(text)
}

func validFields() map[string]any {
	return map[string]any{
		"v":              1,
		"data":           map[string]any{"name": "Ila"},
		"completedSteps": []any{},
		"step":           0,
		"updatedAt":      0,
		"revision":       1,
		"meta":           map[string]any{},
	}
}

func assertCode(t *testing.T, err error, want apperrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("error = nil, want %s", want)
	}
	if got := apperrors.CodeOf(err); got != want {
		t.Fatalf("code = %s, want %s (%v)", got, want, err)
	}
}

func TestRoundTrip(t *testing.T) {
	original := sampleSnapshot()
	token, err := Encode(original, Summary{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !regexp.MustCompile(`^[A-Za-z0-9_-]+$`).MatchString(token) {
		t.Fatalf("token %q is not URL-safe", token)
	}
	payload, err := Decode(token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !payload.Snapshot.UpdatedAt.Equal(original.UpdatedAt) {
		t.Fatalf("updatedAt = %v, want %v", payload.Snapshot.UpdatedAt, original.UpdatedAt)
	}
	payload.Snapshot.UpdatedAt = original.UpdatedAt
	if !reflect.DeepEqual(payload.Snapshot, original) {
		t.Fatalf("snapshot = %+v, want %+v", payload.Snapshot, original)
	}
	want := Summary{Name: "Vex <the> & Bold", Class: "wizard", Level: 4}
	if payload.Summary != want || payload.Version != Version {
		t.Fatalf("summary = %+v version %d, want %+v", payload.Summary, payload.Version, want)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	first, err := Encode(sampleSnapshot(), Summary{Name: "x"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	second, err := Encode(sampleSnapshot(), Summary{Name: "x"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if first != second {
		t.Fatal("Encode produced different tokens for equal input")
	}
}

func TestDecodeRejectsEverySingleCharacterMutation(t *testing.T) {
	token, err := Encode(sampleSnapshot(), Summary{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for i := range token {
		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		mutated := token[:i] + string(replacement) + token[i+1:]
		if _, err := Decode(mutated); err == nil {
			t.Fatalf("mutation at %d decoded successfully", i)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	valid, err := Encode(sampleSnapshot(), Summary{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	noChecksum, _ := encoding.CanonicalJSON(validFields())
	tampered := validFields()
	tampered["checksum"] = "00000000000000000000000000000000"
	tamperedText, _ := encoding.CanonicalJSON(tampered)
	future := validFields()
	future["v"] = 2
	missing := validFields()
	delete(missing, "revision")

	perByte := []uint16{}
	for _, b := range []byte(`{"a":"aaaa"}`) {
		perByte = append(perByte, uint16(b))
	}

	tests := []struct {
		name  string
		token string
		want  apperrors.Code
	}{
		{name: "empty", token: "", want: apperrors.CodeShareTokenEmpty},
		{name: "bad alphabet", token: "ab+/", want: apperrors.CodeShareTokenEncoding},
		{name: "padding", token: valid + "=", want: apperrors.CodeShareTokenEncoding},
		{name: "odd length", token: tokenEncoding.EncodeToString([]byte{0, 'a', 'b'}), want: apperrors.CodeShareTokenTruncated},
		{name: "unknown code", token: tokenEncoding.EncodeToString(pack([]uint16{300})), want: apperrors.CodeShareTokenDictionary},
		{name: "code skips ahead", token: tokenEncoding.EncodeToString(pack([]uint16{'a', 400})), want: apperrors.CodeShareTokenDictionary},
		{name: "not json", token: tokenFor([]byte("hello")), want: apperrors.CodeShareTokenMalformed},
		{name: "not an object", token: tokenFor([]byte("[1,2]")), want: apperrors.CodeShareTokenMalformed},
		{name: "whitespace", token: tokenFor([]byte(`{"v": 1}`)), want: apperrors.CodeShareTokenNonCanonical},
		{name: "non greedy codes", token: tokenEncoding.EncodeToString(pack(perByte)), want: apperrors.CodeShareTokenNonCanonical},
		{name: "no checksum", token: tokenFor(noChecksum), want: apperrors.CodeShareTokenChecksum},
		{name: "wrong checksum", token: tokenFor(tamperedText), want: apperrors.CodeShareTokenChecksum},
		{name: "future version", token: sealed(t, future), want: apperrors.CodeShareTokenVersion},
		{name: "missing field", token: sealed(t, missing), want: apperrors.CodeShareTokenMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.token)
			assertCode(t, err, tt.want)
		})
	}
}

func TestDecodeSealedMinimalRecord(t *testing.T) {
	payload, err := Decode(sealed(t, validFields()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if payload.Snapshot.Data.Name != "Ila" || payload.Snapshot.Revision != 1 {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestLZWRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	random := make([]byte, 300000)
	for i := range random {
		random[i] = byte(rng.Intn(256))
	}
	tests := []struct {
		name  string
		input []byte
	}{
		{name: "empty", input: nil},
		{name: "single", input: []byte("a")},
		{name: "repeating", input: bytes.Repeat([]byte("TOBEORNOT"), 200)},
		{name: "run", input: bytes.Repeat([]byte{'x'}, 1000)},
		{name: "dictionary fills", input: random},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codes := compress(tt.input)
			got, err := decompress(unpack(pack(codes)), maxRecordSize)
			if err != nil {
				t.Fatalf("decompress: %v", err)
			}
			if !bytes.Equal(got, tt.input) {
				t.Fatalf("round trip mismatch for %d bytes", len(tt.input))
			}
		})
	}
}

func TestDecompressStopsAtLimit(t *testing.T) {
	// Each code names the entry added by the previous one, so output grows
	// quadratically with the token length.
	codes := []uint16{'a'}
	for code := seedCodes; code < seedCodes+2000; code++ {
		codes = append(codes, uint16(code))
	}
	if _, err := decompress(codes, 4096); !errors.Is(err, errRecordTooLarge) {
		t.Fatalf("decompress error = %v, want %v", err, errRecordTooLarge)
	}
	if _, err := decompress(codes, 1<<22); err != nil {
		t.Fatalf("decompress under limit: %v", err)
	}
}

func TestDecodeRejectsOversizedRecord(t *testing.T) {
	codes := []uint16{'a'}
	for code := seedCodes; code < seedCodes+2000; code++ {
		codes = append(codes, uint16(code))
	}
	_, err := Decode(tokenEncoding.EncodeToString(pack(codes)))
	assertCode(t, err, apperrors.CodeShareTokenTooLarge)
}

func TestEncodeRejectsOversizedRecord(t *testing.T) {
	s := sampleSnapshot()
	s.Data.Notes = strings.Repeat("n", maxRecordSize)
	_, err := Encode(s, Summary{})
	assertCode(t, err, apperrors.CodeShareTokenTooLarge)
}

func TestCompressShrinksRepetitiveText(t *testing.T) {
	input := bytes.Repeat([]byte(`{"ref":"dagger","quantity":1},`), 50)
	if codes := compress(input); 2*len(codes) >= len(input) {
		t.Fatalf("packed %d bytes from %d", 2*len(codes), len(input))
	}
}
