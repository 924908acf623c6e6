// Package document turns files into word sequences.
package document

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/unicode/norm"
)

// ErrUnsupported matches errors for file types that cannot be extracted.
var ErrUnsupported = errors.New("unsupported file type")

// UnsupportedTypeError reports the rejected extension. Its message is shown to the
// reader as is.
type UnsupportedTypeError struct {
	Ext string
}

func (e *UnsupportedTypeError) Error() string {
	return "Unsupported file type: " + e.Ext
}

// Is makes errors.Is(err, ErrUnsupported) hold.
func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupported
}

// Extensions lists the supported file extensions.
var Extensions = []string{".txt", ".docx", ".md", ".markdown"}

const docxBody = "word/document.xml"

// Supported reports whether path has an extractable extension.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Extract reads the plain text of a document. Paragraphs are separated by newlines.
func Extract(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var (
		out string
		err error
	)
	switch ext {
	case ".txt":
		out, err = extractText(path)
	case ".docx":
		out, err = extractDocx(path)
	case ".md", ".markdown":
		out, err = extractMarkdown(path)
	default:
		return "", &UnsupportedTypeError{Ext: ext}
	}
	if err != nil {
		return "", err
	}
	return norm.NFC.String(out), nil
}

// Tokenize splits text on whitespace.
func Tokenize(s string) []string {
	return strings.Fields(s)
}

func extractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return strings.ToValidUTF8(string(data), ""), nil
}

func extractDocx(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}
	defer func() {
		if cerr := zr.Close(); cerr != nil {
			// Best-effort close for read-only archive.
			_ = cerr
		}
	}()
	for _, f := range zr.File {
		if f.Name != docxBody {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", docxBody, err)
		}
		defer func() {
			_ = rc.Close()
		}()
		return docxParagraphs(rc)
	}
	return "", fmt.Errorf("failed to read docx: %s not found", docxBody)
}

// docxParagraphs collects the text of body-level w:p elements. Tables, text boxes
// and paragraph properties are skipped. Run tabs and breaks are kept.
func docxParagraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		paragraphs []string
		current    strings.Builder
		stack      []string
		paraDepth  = -1
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse %s: %w", docxBody, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			switch {
			case paraDepth < 0 && name == "p" && len(stack) > 0 && stack[len(stack)-1] == "body":
				paraDepth = len(stack)
				current.Reset()
			case paraDepth >= 0 && inParagraphRun(stack, paraDepth):
				switch name {
				case "tab":
					current.WriteByte('\t')
				case "br", "cr":
					current.WriteByte('\n')
				}
			}
			stack = append(stack, name)
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			stack = stack[:len(stack)-1]
			if paraDepth == len(stack) {
				paragraphs = append(paragraphs, current.String())
				paraDepth = -1
			}
		case xml.CharData:
			n := len(stack)
			if paraDepth >= 0 && n > 0 && stack[n-1] == "t" && inParagraphRun(stack[:n-1], paraDepth) {
				current.Write(t)
			}
		}
	}
	return strings.Join(paragraphs, "\n"), nil
}

// inParagraphRun reports whether stack ends in a w:r that belongs to the paragraph
// at depth, directly or through a w:hyperlink.
func inParagraphRun(stack []string, depth int) bool {
	if len(stack) <= depth {
		return false
	}
	below := stack[depth+1:]
	switch len(below) {
	case 1:
		return below[0] == "r"
	case 2:
		return below[0] == "hyperlink" && below[1] == "r"
	}
	return false
}

func extractMarkdown(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	src = []byte(strings.ToValidUTF8(string(src), ""))
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	var b strings.Builder
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if entering {
				b.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte('\n')
				}
			}
		case *ast.String:
			if entering {
				b.Write(node.Value)
			}
		default:
			if !entering && n.Type() == ast.TypeBlock {
				b.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to walk markdown: %w", err)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
