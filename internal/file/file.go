// Package file holds filesystem helpers: path expansion and loading image
// files into message attachments.
package file

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"

	"github.com/aimchat/aimchat/chat"
)

// MaxAttachmentSize is the maximum decoded attachment payload, in bytes.
const MaxAttachmentSize = 4 << 20

// ExpandPath expands a leading ~/ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "getting user home dir")
	}
	return filepath.Join(home, path[2:]), nil
}

// LoadAttachment reads an image file from disk and returns it as an
// attachment. Non-image files and files over MaxAttachmentSize are rejected.
func LoadAttachment(path string) (chat.Attachment, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return chat.Attachment{}, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return chat.Attachment{}, errors.Wrap(err, "reading file")
	}
	if len(content) > MaxAttachmentSize {
		return chat.Attachment{}, errors.Errorf("file %s exceeds the 4MiB attachment limit", path)
	}
	mimeType := mimetype.Detect(content).String()
	if !strings.HasPrefix(mimeType, "image/") {
		return chat.Attachment{}, errors.Errorf("file %s is %s, only images can be attached", path, mimeType)
	}
	return chat.Attachment{
		MimeType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(content),
		Name:     filepath.Base(path),
	}, nil
}
