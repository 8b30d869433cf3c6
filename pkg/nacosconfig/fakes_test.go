package nacosconfig_test

import (
	"context"

	"github.com/systmms/nacosconf/pkg/nacosconfig"
)

// fakeDecrypter implements nacosconfig.Decrypter for testing.
type fakeDecrypter struct {
	plaintext []byte
	err       error

	calls         int
	gotKeyID      string
	gotCiphertext []byte
}

func (f *fakeDecrypter) Decrypt(_ context.Context, keyID string, ciphertext []byte) ([]byte, error) {
	f.calls++
	f.gotKeyID = keyID
	f.gotCiphertext = ciphertext
	if f.err != nil {
		return nil, f.err
	}
	return f.plaintext, nil
}

// fakeService implements nacosconfig.ConfigService for testing.
type fakeService struct {
	doc *nacosconfig.Document
	err error

	calls     int
	gotDataID string
	gotGroup  string
}

func (f *fakeService) GetConfig(_ context.Context, dataID, group string) (*nacosconfig.Document, error) {
	f.calls++
	f.gotDataID = dataID
	f.gotGroup = group
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

// validDocument builds a document whose declared checksum matches its content.
func validDocument(namespace, dataID, group, content string) *nacosconfig.Document {
	doc := &nacosconfig.Document{
		Content:   content,
		Namespace: namespace,
		DataID:    dataID,
		Group:     group,
		Type:      "json",
	}
	doc.MD5 = doc.ContentMD5()
	return doc
}
