package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"summarizer-backend/internal/shared/storage/object"
)

// FileType is the closed set of document types the extractor understands.
type FileType string

const (
	TypePDF  FileType = "pdf"
	TypeDOCX FileType = "docx"
	TypeTXT  FileType = "txt"
)

var (
	// ErrUnsupportedType is returned when the declared type is not in the supported set.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrCorruptDocument is returned when the bytes cannot be parsed as the declared type.
	ErrCorruptDocument = errors.New("corrupt document")
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ResolveType maps a declared MIME type (or bare extension) plus the upload
// name onto a FileType. Anything outside {pdf, docx, txt} is rejected with
// ErrUnsupportedType; there is no fallback branch.
func ResolveType(declaredType string, fileName string) (FileType, error) {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(declaredType, ";")[0]))
	switch clean {
	case mimePDF, "pdf", ".pdf":
		return TypePDF, nil
	case mimeDOCX, "docx", ".docx":
		return TypeDOCX, nil
	case "text/plain", "txt", ".txt":
		return TypeTXT, nil
	case "application/zip", "application/octet-stream", "":
		// Browsers often report DOCX as zip and TXT as octet-stream;
		// fall back to the upload name's extension.
		switch strings.ToLower(filepath.Ext(fileName)) {
		case ".pdf":
			return TypePDF, nil
		case ".docx":
			return TypeDOCX, nil
		case ".txt":
			return TypeTXT, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, clean)
}

// ExtractText pulls text from a stored object and persists a derived
// .extracted.txt copy next to it. Returns the extracted text.
func ExtractText(ctx context.Context, store object.ObjectStore, fileKey string, fileType FileType) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := store.Open(ctx, fileKey)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s type=%s: %w", fileKey, fileType, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s type=%s: read: %w", fileKey, fileType, err)
	}

	text, err := ExtractTextFromBytes(ctx, raw, fileType)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s type=%s: %w", fileKey, fileType, err)
	}

	extractedKey := DerivedTextKey(fileKey)
	if _, err := store.SaveWithKey(ctx, extractedKey, "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		return "", fmt.Errorf("extract text key=%s type=%s: %w", fileKey, fileType, err)
	}

	return text, nil
}

// DerivedTextKey returns the storage key of the extracted-text copy of a file.
func DerivedTextKey(fileKey string) string {
	return fileKey + ".extracted.txt"
}

// ExtractTextFromBytes extracts plain text from an in-memory payload. Page and
// paragraph order is preserved; formatting, images and tables are dropped. An
// empty but well-formed document yields an empty string, not an error.
func ExtractTextFromBytes(ctx context.Context, data []byte, fileType FileType) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch fileType {
	case TypePDF:
		return extractPDF(data)
	case TypeDOCX:
		return extractDOCX(data)
	case TypeTXT:
		return extractTXT(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, fileType)
	}
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("%w: document.xml not found", ErrCorruptDocument)
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}

	text, err := stripDocxXML(string(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	return text, nil
}

func extractTXT(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	// Fall back to Latin-1 for legacy text files.
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes), nil
}

func stripDocxXML(raw string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("document.xml: %v", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if last := buf.Len(); last > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}
