package attachment_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"

	"studyhub/classroom-app/internal/attachment"
	"studyhub/classroom-app/internal/domain"
	"studyhub/classroom-app/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payloads := [][]byte{
		[]byte("hello world"),
		{0x00, 0xff, 0x10, 0x80}, // arbitrary binary
		{},
		bytes.Repeat([]byte{0xab}, 4096),
	}

	for _, raw := range payloads {
		encoded, err := attachment.Encode(raw)
		require.NoError(t, err)

		decoded, err := attachment.Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, raw, decoded)
	}
}

func TestEncodeRejectsOversizedPayload(t *testing.T) {
	raw := make([]byte, attachment.MaxAttachmentSize+1)

	_, err := attachment.Encode(raw)
	assert.ErrorIs(t, err, attachment.ErrTooLarge)
}

func TestEncodeAcceptsPayloadAtLimit(t *testing.T) {
	raw := make([]byte, attachment.MaxAttachmentSize)

	_, err := attachment.Encode(raw)
	assert.NoError(t, err)
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	for _, input := range []string{"not-base64!!!", "a", "====", "äöü"} {
		_, err := attachment.Decode(input)
		assert.ErrorIs(t, err, attachment.ErrMalformedPayload, "input %q", input)
	}
}

func TestBuildDownload(t *testing.T) {
	ctx := context.Background()
	blobs := storage.NewMemoryBlobStore()

	raw := []byte("file contents")
	require.NoError(t, blobs.Put(ctx, "content-1", base64.StdEncoding.EncodeToString(raw)))

	submission := &domain.Submission{
		Attachments: []domain.Attachment{
			{Name: "report.pdf", MimeType: "application/pdf", SizeBytes: int64(len(raw)), ContentID: "content-1"},
		},
	}

	download, err := attachment.BuildDownload(ctx, blobs, submission, 0)
	require.NoError(t, err)
	assert.Equal(t, raw, download.Bytes)
	assert.Equal(t, "application/pdf", download.MimeType)
	assert.Equal(t, "report.pdf", download.SuggestedFilename)
}

func TestBuildDownloadIndexOutOfRange(t *testing.T) {
	ctx := context.Background()
	blobs := storage.NewMemoryBlobStore()
	submission := &domain.Submission{
		Attachments: []domain.Attachment{
			{Name: "a.txt", ContentID: "content-1"},
		},
	}

	for _, index := range []int{-1, 1, 5} {
		_, err := attachment.BuildDownload(ctx, blobs, submission, index)
		assert.ErrorIs(t, err, attachment.ErrIndexOutOfRange, "index %d", index)
	}
}

func TestBuildDownloadLegacyRecordWithoutPayload(t *testing.T) {
	ctx := context.Background()
	blobs := storage.NewMemoryBlobStore()
	submission := &domain.Submission{
		// Record created before payloads were stored: no content id.
		Attachments: []domain.Attachment{{Name: "old.doc"}},
	}

	_, err := attachment.BuildDownload(ctx, blobs, submission, 0)
	assert.ErrorIs(t, err, attachment.ErrPayloadMissing)
}

func TestBuildDownloadMissingBlob(t *testing.T) {
	ctx := context.Background()
	blobs := storage.NewMemoryBlobStore()
	submission := &domain.Submission{
		Attachments: []domain.Attachment{{Name: "gone.txt", ContentID: "vanished"}},
	}

	_, err := attachment.BuildDownload(ctx, blobs, submission, 0)
	assert.ErrorIs(t, err, attachment.ErrPayloadMissing)
}

func TestBuildDownloadDefaultsMimeTypeAndFilename(t *testing.T) {
	ctx := context.Background()
	blobs := storage.NewMemoryBlobStore()
	require.NoError(t, blobs.Put(ctx, "content-1", base64.StdEncoding.EncodeToString([]byte("x"))))

	submission := &domain.Submission{
		Attachments: []domain.Attachment{{ContentID: "content-1"}},
	}

	download, err := attachment.BuildDownload(ctx, blobs, submission, 0)
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", download.MimeType)
	assert.Equal(t, "attachment", download.SuggestedFilename)
}
