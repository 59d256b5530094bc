// Package attachment encodes and decodes submission file payloads to and from
// their storable text form, and builds download responses addressed by a
// positional index within the owning submission's attachment list.
package attachment

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"studyhub/classroom-app/internal/domain"
	"studyhub/classroom-app/internal/storage"
)

// MaxAttachmentSize caps the raw size of a single attachment. Payloads are
// held fully in memory and grow ~33% when base64-encoded for storage, so the
// cap keeps a single request from exhausting the process.
const MaxAttachmentSize = 10 << 20 // 10 MiB

var (
	// ErrMalformedPayload means the storable text form is not valid base64.
	ErrMalformedPayload = errors.New("malformed attachment payload")

	// ErrTooLarge means the raw payload exceeds MaxAttachmentSize.
	ErrTooLarge = fmt.Errorf("attachment exceeds maximum size of %d bytes", int64(MaxAttachmentSize))

	// ErrIndexOutOfRange means the requested file index does not address an
	// attachment of the submission.
	ErrIndexOutOfRange = errors.New("attachment index out of range")

	// ErrPayloadMissing means the attachment record has no stored payload.
	// This happens for legacy records created before file storage existed;
	// the fix is to resubmit the file.
	ErrPayloadMissing = errors.New("attachment has no stored payload; please resubmit the file")
)

// Encode converts raw bytes into the storable text form. It rejects payloads
// over MaxAttachmentSize.
func Encode(raw []byte) (string, error) {
	if int64(len(raw)) > MaxAttachmentSize {
		return "", ErrTooLarge
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Decode converts the storable text form back into raw bytes. Decoding is the
// exact inverse of Encode; malformed input yields ErrMalformedPayload.
func Decode(encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrMalformedPayload
	}
	return raw, nil
}

// Download is a ready-to-stream attachment payload.
type Download struct {
	Bytes             []byte
	MimeType          string
	SuggestedFilename string
}

// BuildDownload resolves the attachment at the given index of the submission
// and returns its decoded payload.
//
// Out-of-range indexes and missing payloads are reported through
// ErrIndexOutOfRange and ErrPayloadMissing so callers can answer with a 404
// instead of a generic failure.
func BuildDownload(ctx context.Context, blobs storage.BlobStore, submission *domain.Submission, index int) (*Download, error) {
	if index < 0 || index >= len(submission.Attachments) {
		return nil, ErrIndexOutOfRange
	}
	att := submission.Attachments[index]

	if att.ContentID == "" {
		// Legacy record from before payloads were stored.
		return nil, ErrPayloadMissing
	}

	encoded, err := blobs.Get(ctx, att.ContentID)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return nil, ErrPayloadMissing
		}
		return nil, err
	}

	raw, err := Decode(encoded)
	if err != nil {
		return nil, err
	}

	mimeType := att.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	filename := att.Name
	if filename == "" {
		filename = "attachment"
	}

	return &Download{
		Bytes:             raw,
		MimeType:          mimeType,
		SuggestedFilename: filename,
	}, nil
}
