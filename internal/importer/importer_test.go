package importer

import (
	"fmt"
	"testing"
)

func TestForFile_Dispatch(t *testing.T) {
	tests := []struct {
		filename string
		wantType string
	}{
		{"readme.md", "*importer.MarkdownImporter"},
		{"notes.markdown", "*importer.MarkdownImporter"},
		{"plain.txt", "*importer.TextImporter"},
		{"data.csv", "*importer.CSVImporter"},
		{"page.html", "*importer.HTMLImporter"},
		{"page.htm", "*importer.HTMLImporter"},
		{"doc.pdf", "*importer.PDFImporter"},
		{"doc.docx", "*importer.DOCXImporter"},
	}
	for _, tt := range tests {
		imp, err := ForFile(tt.filename)
		if err != nil {
			t.Errorf("ForFile(%q): %v", tt.filename, err)
			continue
		}
		if got := fmt.Sprintf("%T", imp); got != tt.wantType {
			t.Errorf("ForFile(%q) = %s, want %s", tt.filename, got, tt.wantType)
		}
	}
}

func TestForFile_Unsupported(t *testing.T) {
	if _, err := ForFile("archive.zip"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("README.MD") {
		t.Error("extension check should be case-insensitive")
	}
	if IsSupportedExtension("binary.exe") {
		t.Error("exe should not be supported")
	}
}

func TestStem(t *testing.T) {
	tests := []struct{ in, want string }{
		{"readme.md", "readme"},
		{"dir/notes.txt", "notes"},
		{"no-extension", "no-extension"},
	}
	for _, tt := range tests {
		if got := stem(tt.in); got != tt.want {
			t.Errorf("stem(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
