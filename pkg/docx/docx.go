package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
)

const documentPart = "word/document.xml"

// Docx is an opened DOCX template: the original package bytes plus the
// parsed document tree. Templates are opened fresh per generation call;
// nothing is cached across requests.
type Docx struct {
	source   []byte
	docXML   []byte
	Document *Document
}

// Open reads and parses a DOCX file from disk.
func Open(path string) (*Docx, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return OpenBytes(data)
}

// OpenBytes parses a DOCX package held in memory.
func OpenBytes(data []byte) (*Docx, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read docx package: %w", err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name == documentPart {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", documentPart, err)
			}
			docXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", documentPart, err)
			}
			break
		}
	}
	if docXML == nil {
		return nil, fmt.Errorf("not a valid docx: missing %s", documentPart)
	}

	doc, err := ParseDocument(bytes.NewReader(docXML))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", documentPart, err)
	}

	return &Docx{source: data, docXML: docXML, Document: doc}, nil
}

// Save writes the package to w, replacing word/document.xml with the
// serialized tree and copying every other part untouched.
func (d *Docx) Save(w io.Writer) error {
	rebuilt, err := d.rebuildDocumentXML()
	if err != nil {
		return err
	}

	zr, err := zip.NewReader(bytes.NewReader(d.source), int64(len(d.source)))
	if err != nil {
		return fmt.Errorf("reread docx package: %w", err)
	}

	zw := zip.NewWriter(w)
	for _, f := range zr.File {
		fw, err := zw.Create(f.Name)
		if err != nil {
			return fmt.Errorf("create %s: %w", f.Name, err)
		}
		if f.Name == documentPart {
			if _, err := fw.Write(rebuilt); err != nil {
				return fmt.Errorf("write %s: %w", f.Name, err)
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", f.Name, err)
		}
		_, err = io.Copy(fw, rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("copy %s: %w", f.Name, err)
		}
	}
	return zw.Close()
}

// Bytes serializes the package into memory.
func (d *Docx) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// rebuildDocumentXML splices the serialized body between the original
// document opening markup and the closing tags, so root namespaces survive
// verbatim.
func (d *Docx) rebuildDocumentXML() ([]byte, error) {
	open := bytes.Index(d.docXML, []byte("<w:body"))
	if open < 0 {
		return nil, fmt.Errorf("malformed %s: no w:body element", documentPart)
	}
	openEnd := bytes.IndexByte(d.docXML[open:], '>')
	if openEnd < 0 {
		return nil, fmt.Errorf("malformed %s: unterminated w:body tag", documentPart)
	}

	var buf bytes.Buffer
	buf.Write(d.docXML[:open+openEnd+1])
	buf.Write(d.Document.BodyXML())
	buf.WriteString("</w:body></w:document>")
	return buf.Bytes(), nil
}
