package documents

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog/log"
)

// stagedUpload is a temporary durable copy of an upload's payload, scoped to a
// single submit operation. It decouples consuming the request stream from the
// blob store call. Release must run on every exit path.
type stagedUpload struct {
	file   *os.File
	path   string
	size   int64
	sha256 string
}

// stageUpload copies content into a temp file under dir, hashing as it goes.
// maxSize of 0 means unlimited; exceeding it fails the copy.
func stageUpload(dir, fileName string, content io.Reader, maxSize int64) (*stagedUpload, error) {
	ext := filepath.Ext(fileName)
	file, err := os.CreateTemp(dir, "staged-*"+ext)
	if err != nil {
		return nil, &StagingError{FileName: fileName, Err: err}
	}

	staged := &stagedUpload{file: file, path: file.Name()}

	reader := content
	if maxSize > 0 {
		reader = io.LimitReader(content, maxSize+1)
	}

	hasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(file, hasher), reader)
	if err != nil {
		staged.Release()
		return nil, &StagingError{FileName: fileName, Err: err}
	}
	if maxSize > 0 && written > maxSize {
		staged.Release()
		return nil, &ValidationError{Field: "file", Reason: fmt.Sprintf("exceeds maximum size of %d bytes", maxSize)}
	}

	if err := file.Sync(); err != nil {
		staged.Release()
		return nil, &StagingError{FileName: fileName, Err: err}
	}

	staged.size = written
	staged.sha256 = hex.EncodeToString(hasher.Sum(nil))
	return staged, nil
}

// validatePDF checks the staged payload parses as a PDF
func (s *stagedUpload) validatePDF() error {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return &StagingError{FileName: s.path, Err: err}
	}
	if _, err := api.PageCount(s.file, model.NewDefaultConfiguration()); err != nil {
		return &ValidationError{Field: "file", Reason: "content is not a readable PDF"}
	}
	return nil
}

// Reader rewinds the staged file and returns it for the blob store upload
func (s *stagedUpload) Reader() (io.Reader, error) {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return nil, &StagingError{FileName: s.path, Err: err}
	}
	return s.file, nil
}

// Release closes and removes the staged file. Failures are logged but never
// mask the outcome of the operation that staged the upload.
func (s *stagedUpload) Release() {
	if err := s.file.Close(); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("failed to close staged upload")
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", s.path).Msg("failed to remove staged upload")
	}
}
