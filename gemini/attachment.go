package gemini

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/aimchat/aimchat/chat"
)

// maxAttachmentSize is the maximum decoded attachment payload, in bytes.
// The input layer enforces this too; the adapter re-checks defensively.
const maxAttachmentSize = 4 << 20

// validateAttachments rejects attachments the API would refuse: non-image
// payloads, oversized payloads, or data that is not valid base64.
func validateAttachments(attachments []chat.Attachment) error {
	for _, attachment := range attachments {
		if !strings.HasPrefix(attachment.MimeType, "image/") {
			return errors.Errorf("unsupported attachment mime type %q", attachment.MimeType)
		}
		decoded, err := base64.StdEncoding.DecodeString(attachment.Data)
		if err != nil {
			return errors.Wrapf(err, "decoding attachment %q", attachment.Name)
		}
		if len(decoded) > maxAttachmentSize {
			return errors.Errorf("attachment %q exceeds the 4MiB limit", attachment.Name)
		}
		if sniffed := mimetype.Detect(decoded); !strings.HasPrefix(sniffed.String(), "image/") {
			return errors.Errorf("attachment %q content is %s, not an image", attachment.Name, sniffed)
		}
	}
	return nil
}

// attachmentBlob decodes an attachment into an inline-data blob.
func attachmentBlob(attachment chat.Attachment) (*genai.Blob, error) {
	decoded, err := base64.StdEncoding.DecodeString(attachment.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding attachment %q", attachment.Name)
	}
	return &genai.Blob{MIMEType: attachment.MimeType, Data: decoded}, nil
}
