package pdftext

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	appErr "ragchat/internal/pkg/errors"
)

// ExtractText reads a local PDF and returns its plain text. Scanned or
// image-only PDFs yield no text and map to ErrNoExtractableText so the
// ingestion run fails instead of silently writing zero chunks.
func ExtractText(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var sb strings.Builder
	if _, err := io.Copy(&sb, content); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%s: %w", path, appErr.ErrNoExtractableText)
	}
	return text, nil
}
