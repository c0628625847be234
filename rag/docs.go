// Package rag indexes the shop's policy documents into an embedded vector
// store and retrieves short passages for the policy tools. When the index
// cannot answer, a keyword scan over the raw documents fills in with
// low-confidence results.
package rag

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document types attached to every chunk and filterable at query time.
const (
	TypeWarranty        = "warranty_policy"
	TypeReplacement     = "replacement_policy"
	TypeCustomerSupport = "customer_support"
	TypeGeneral         = "general_policy"
)

// Document is one source file before chunking.
type Document struct {
	Source  string
	Type    string
	Content string
}

// LoadDir reads every .md file in dir. Document type is inferred from the
// file name: warranty, replacement, and FAQ documents count as customer
// support material.
func LoadDir(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read document dir: %w", err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read document %s: %w", entry.Name(), err)
		}

		docs = append(docs, Document{
			Source:  entry.Name(),
			Type:    DocumentType(entry.Name()),
			Content: string(data),
		})
	}
	return docs, nil
}

// DocumentType classifies a source file by name.
func DocumentType(filename string) string {
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(name, "warranty"):
		return TypeWarranty
	case strings.Contains(name, "replacement"):
		return TypeReplacement
	case strings.Contains(name, "support"), strings.Contains(name, "faq"):
		return TypeCustomerSupport
	default:
		return TypeGeneral
	}
}
