package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Share token errors
	CodeShareTokenEmpty        Code = "SHARE_TOKEN_EMPTY"
	CodeShareTokenEncoding     Code = "SHARE_TOKEN_ENCODING"
	CodeShareTokenTruncated    Code = "SHARE_TOKEN_TRUNCATED"
	CodeShareTokenDictionary   Code = "SHARE_TOKEN_DICTIONARY"
	CodeShareTokenNonCanonical Code = "SHARE_TOKEN_NON_CANONICAL"
	CodeShareTokenMalformed    Code = "SHARE_TOKEN_MALFORMED"
	CodeShareTokenChecksum     Code = "SHARE_TOKEN_CHECKSUM"
	CodeShareTokenVersion      Code = "SHARE_TOKEN_VERSION"
	CodeShareTokenMissingField Code = "SHARE_TOKEN_MISSING_FIELD"
	CodeShareTokenTooLarge     Code = "SHARE_TOKEN_TOO_LARGE"

	// Import errors
	CodeImportMalformed Code = "IMPORT_MALFORMED"

	// History errors
	CodeHistoryInvalidCapacity Code = "HISTORY_INVALID_CAPACITY"

	// Dataset errors
	CodeDatasetInvalid           Code = "DATASET_INVALID"
	CodeDatasetUnsupportedFormat Code = "DATASET_UNSUPPORTED_FORMAT"

	// Storage errors
	CodeNotFound           Code = "NOT_FOUND"
	CodeStorageUnavailable Code = "STORAGE_UNAVAILABLE"
	CodeStorageCorrupt     Code = "STORAGE_CORRUPT"
)

// ExitCode maps domain codes to CLI process exit statuses.
func (c Code) ExitCode() int {
	switch c {
	case "":
		return 0
	// Rejected user input
	case CodeShareTokenEmpty,
		CodeShareTokenEncoding,
		CodeShareTokenTruncated,
		CodeShareTokenDictionary,
		CodeShareTokenNonCanonical,
		CodeShareTokenMalformed,
		CodeShareTokenChecksum,
		CodeShareTokenVersion,
		CodeShareTokenMissingField,
		CodeShareTokenTooLarge,
		CodeImportMalformed,
		CodeDatasetInvalid,
		CodeDatasetUnsupportedFormat,
		CodeHistoryInvalidCapacity:
		return 2
	// Nothing stored
	case CodeNotFound:
		return 3
	// Backend trouble
	case CodeStorageUnavailable, CodeStorageCorrupt:
		return 4
	default:
		return 1
	}
}

// IsShareToken reports whether c describes a rejected share token.
func (c Code) IsShareToken() bool {
	switch c {
	case CodeShareTokenEmpty,
		CodeShareTokenEncoding,
		CodeShareTokenTruncated,
		CodeShareTokenDictionary,
		CodeShareTokenNonCanonical,
		CodeShareTokenMalformed,
		CodeShareTokenChecksum,
		CodeShareTokenVersion,
		CodeShareTokenMissingField,
		CodeShareTokenTooLarge:
		return true
	default:
		return false
	}
}
