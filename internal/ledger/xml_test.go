package ledger

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBookXML = `<?xml version="1.0" encoding="utf-8"?>
<gnc-v2
  xmlns:gnc="http://www.gnucash.org/XML/gnc"
  xmlns:act="http://www.gnucash.org/XML/act">
<gnc:book version="2.0.0">
<gnc:account version="2.0.0">
  <act:name>Root Account</act:name>
  <act:id type="guid">root0000</act:id>
  <act:type>ROOT</act:type>
</gnc:account>
<gnc:account version="2.0.0">
  <act:name>Expenses</act:name>
  <act:id type="guid">exp00000</act:id>
  <act:type>EXPENSE</act:type>
  <act:parent type="guid">root0000</act:parent>
</gnc:account>
<gnc:account version="2.0.0">
  <act:name>Dining</act:name>
  <act:id type="guid">dining00</act:id>
  <act:type>EXPENSE</act:type>
  <act:parent type="guid">exp00000</act:parent>
</gnc:account>
<gnc:account version="2.0.0">
  <act:name>Checking</act:name>
  <act:id type="guid">chk00000</act:id>
  <act:type>BANK</act:type>
  <act:parent type="guid">root0000</act:parent>
</gnc:account>
</gnc:book>
</gnc-v2>`

func writeXMLBook(t *testing.T, compressed bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.gnucash")

	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	if compressed {
		gz := gzip.NewWriter(f)
		_, err = gz.Write([]byte(sampleBookXML))
		require.NoError(t, err)
		require.NoError(t, gz.Close())
	} else {
		_, err = f.WriteString(sampleBookXML)
		require.NoError(t, err)
	}
	return path
}

func TestXMLAccounts(t *testing.T) {
	for _, compressed := range []bool{false, true} {
		name := "plain"
		if compressed {
			name = "gzipped"
		}
		t.Run(name, func(t *testing.T) {
			book, err := OpenXML(writeXMLBook(t, compressed), nil)
			require.NoError(t, err)
			defer func() { require.NoError(t, book.Close()) }()

			accounts, err := book.Accounts(context.Background())
			require.NoError(t, err)
			require.Len(t, accounts, 4)

			paths := make(map[string]string)
			for _, a := range accounts {
				paths[a.Name] = a.Path
			}
			assert.Equal(t, "", paths["Root Account"])
			assert.Equal(t, "Expenses", paths["Expenses"])
			assert.Equal(t, "Expenses:Dining", paths["Dining"])
			assert.Equal(t, "Checking", paths["Checking"])

			assert.Equal(t, []string{"Expenses", "Expenses:Dining"}, CategoryPaths(accounts))
		})
	}
}

func TestXMLEntriesUnsupported(t *testing.T) {
	book, err := OpenXML(writeXMLBook(t, true), nil)
	require.NoError(t, err)

	_, err = book.Entries(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SQLite")
}

func TestOpenXMLMissingBook(t *testing.T) {
	_, err := OpenXML(filepath.Join(t.TempDir(), "absent.gnucash"), nil)
	assert.Error(t, err)
}
