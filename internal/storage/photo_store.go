// Package storage 图片文件的内容寻址存储
package storage

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/zeebo/blake3"
)

var (
	ErrTooLarge   = errors.New("photo exceeds size limit")
	ErrNotImage   = errors.New("photo is not an image")
	ErrEmpty      = errors.New("photo is empty")
	ErrInvalidRef = errors.New("invalid photo reference")
)

// ref 形如 <64 位十六进制 blake3>.<扩展名>
var refPattern = regexp.MustCompile(`^[0-9a-f]{64}\.[a-z0-9]{1,8}$`)

// PhotoStore 以内容哈希为文件名落盘，相同内容只存一份。
// 文件布局：<dir>/<hash 前两位>/<ref>
type PhotoStore struct {
	dir     string
	maxSize int64
}

func NewPhotoStore(dir string, maxSize int64) (*PhotoStore, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("photo store: max size must be positive, got %d", maxSize)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("photo store: create dir: %w", err)
	}
	return &PhotoStore{dir: dir, maxSize: maxSize}, nil
}

// Save 读取完整内容，校验类型与大小后写入，返回引用
func (s *PhotoStore) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if int64(len(data)) > s.maxSize {
		return "", ErrTooLarge
	}
	mt := mimetype.Detect(data)
	// svg 可内嵌脚本，不作为图片接受
	if !strings.HasPrefix(mt.String(), "image/") || mt.Is("image/svg+xml") {
		return "", ErrNotImage
	}

	sum := blake3.Sum256(data)
	ref := hex.EncodeToString(sum[:]) + mt.Extension()
	path := s.path(ref)
	if _, err := os.Stat(path); err == nil {
		return ref, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create photo dir: %w", err)
	}

	// 先写临时文件再 rename，读者不会看到半个文件
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp photo: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write photo: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close photo: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("commit photo: %w", err)
	}
	return ref, nil
}

// Path 返回引用对应的磁盘路径，不存在时返回 os.ErrNotExist
func (s *PhotoStore) Path(ref string) (string, error) {
	if !refPattern.MatchString(ref) {
		return "", ErrInvalidRef
	}
	p := s.path(ref)
	if _, err := os.Stat(p); err != nil {
		return "", err
	}
	return p, nil
}

// Open 打开引用对应的文件，调用方负责关闭
func (s *PhotoStore) Open(ref string) (*os.File, error) {
	p, err := s.Path(ref)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

func (s *PhotoStore) path(ref string) string {
	return filepath.Join(s.dir, ref[:2], ref)
}
