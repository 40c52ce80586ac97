package ledger

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/xmlpath.v2"
)

// XMLBook reads the account hierarchy from a GnuCash XML book. GnuCash
// writes these gzip-compressed by default; uncompressed books work too.
// Split history is only available from SQLite books.
type XMLBook struct {
	logger *slog.Logger
	path   string
}

// OpenXML opens a GnuCash XML book.
func OpenXML(path string, logger *slog.Logger) (*XMLBook, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("ledger book not found at %s: %w", path, err)
	}
	return &XMLBook{path: path, logger: logger}, nil
}

// Close implements Reader; XML books hold no open handle between calls.
func (b *XMLBook) Close() error {
	return nil
}

var (
	accountPath     = xmlpath.MustCompile("//account")
	accountNamePath = xmlpath.MustCompile("name")
	accountGUIDPath = xmlpath.MustCompile("id")
	accountTypePath = xmlpath.MustCompile("type")
	accountParent   = xmlpath.MustCompile("parent")
)

// Accounts parses the book and returns the account hierarchy with paths
// resolved.
func (b *XMLBook) Accounts(ctx context.Context) ([]Account, error) {
	f, err := os.Open(b.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger book: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader, err := maybeGunzip(f)
	if err != nil {
		return nil, err
	}

	root, err := xmlpath.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ledger book %s: %w", b.path, err)
	}

	var accounts []Account
	iter := accountPath.Iter(root)
	for iter.Next() {
		node := iter.Node()

		guid, ok := accountGUIDPath.String(node)
		if !ok {
			continue
		}
		name, _ := accountNamePath.String(node)
		accType, _ := accountTypePath.String(node)
		parent, _ := accountParent.String(node)

		accounts = append(accounts, Account{
			GUID:       guid,
			Name:       name,
			Type:       accType,
			ParentGUID: parent,
		})
	}

	b.logger.Debug("loaded XML account hierarchy", "accounts", len(accounts))
	return resolvePaths(accounts), nil
}

// Entries is unavailable for XML books; history mining needs a SQLite book.
func (b *XMLBook) Entries(ctx context.Context) ([]Entry, error) {
	return nil, fmt.Errorf("history entries require a SQLite book, %s is XML", b.path)
}

var gzipMagic = []byte{0x1f, 0x8b}

// maybeGunzip wraps the reader with a gzip decoder when the stream carries
// the gzip magic bytes.
func maybeGunzip(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read ledger book header: %w", err)
	}
	if bytes.Equal(head, gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress ledger book: %w", err)
		}
		return gz, nil
	}
	return br, nil
}
