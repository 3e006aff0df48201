// Package document stores proof-of-payment files. The core only ever
// checks that a proof is attached and structurally valid; file content
// is never interpreted.
package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"

	"github.com/GIDEON8-jpg/simply-request-sub000/internal/domain/entity"
)

// Store saves proof-of-payment documents under a local attachments dir
type Store struct {
	dir    string
	logger *zap.Logger
}

// NewStore creates a document store rooted at dir
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create attachments dir: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// SaveProofOfPayment validates the uploaded PDF and stores it keyed by
// requisition. Returns the stored file reference.
func (s *Store) SaveProofOfPayment(requisitionID int64, srcPath string) (string, error) {
	if err := validatePDF(srcPath); err != nil {
		return "", err
	}

	ref := fmt.Sprintf("pop/requisition-%d.pdf", requisitionID)
	dst := filepath.Join(s.dir, ref)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", fmt.Errorf("create proof dir: %w", err)
	}
	if err := copyFile(srcPath, dst); err != nil {
		return "", fmt.Errorf("store proof of payment: %w", err)
	}

	s.logger.Info("Proof of payment stored",
		zap.Int64("requisition_id", requisitionID),
		zap.String("ref", ref))
	return ref, nil
}

// Path resolves a stored reference back to a filesystem path
func (s *Store) Path(ref string) string {
	return filepath.Join(s.dir, ref)
}

// validatePDF checks that the file is a readable PDF with at least one
// page. Content is not inspected.
func validatePDF(path string) error {
	doc, err := fitz.New(path)
	if err != nil {
		return entity.NewValidationError("proof_of_payment", "must be a readable PDF document")
	}
	defer doc.Close()

	if doc.NumPage() < 1 {
		return entity.NewValidationError("proof_of_payment", "document has no pages")
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
