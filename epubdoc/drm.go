package epubdoc

import (
	"encoding/xml"
	"errors"
	"io/fs"
	"path"
	"strings"
)

// ErrDRMProtected is returned for archives whose content is encrypted.
var ErrDRMProtected = errors.New("epub: DRM-protected content cannot be processed")

// encryptionXML represents the structure of META-INF/encryption.xml.
type encryptionXML struct {
	XMLName       xml.Name        `xml:"encryption"`
	EncryptedData []encryptedData `xml:"EncryptedData"`
}

type encryptedData struct {
	Method struct {
		Algorithm string `xml:"Algorithm,attr"`
	} `xml:"EncryptionMethod"`
	Reference struct {
		URI string `xml:"URI,attr"`
	} `xml:"CipherData>CipherReference"`
}

// checkForDRM rejects archives carrying an Adobe rights file or encrypted
// content documents. Obfuscated fonts are allowed.
func checkForDRM(fsys fs.FS) error {
	if _, err := fs.Stat(fsys, "META-INF/rights.xml"); err == nil {
		return ErrDRMProtected
	}

	data, err := fs.ReadFile(fsys, "META-INF/encryption.xml")
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return ErrDRMProtected
	}
	encrypted, err := hasEncryptedContent(data)
	if err != nil || encrypted {
		return ErrDRMProtected
	}
	return nil
}

// hasEncryptedContent reports whether encryption.xml lists any content
// document encrypted with something other than font obfuscation.
func hasEncryptedContent(data []byte) (bool, error) {
	var enc encryptionXML
	if err := xml.Unmarshal(data, &enc); err != nil {
		return false, err
	}

	for _, ed := range enc.EncryptedData {
		if isFontObfuscation(ed.Method.Algorithm) {
			continue
		}
		if isContentFile(ed.Reference.URI) {
			return true, nil
		}
	}
	return false, nil
}

// Font mangling algorithms defined by the IDPF and by Adobe.
const (
	idpfObfuscation  = "http://www.idpf.org/2008/embedding"
	adobeObfuscation = "http://ns.adobe.com/pdf/enc#RC"
)

func isFontObfuscation(algorithm string) bool {
	switch algorithm {
	case idpfObfuscation, adobeObfuscation:
		return true
	}
	return strings.Contains(algorithm, "obfuscation")
}

// isContentFile reports whether uri names a document or stylesheet.
func isContentFile(uri string) bool {
	switch strings.ToLower(path.Ext(uri)) {
	case ".xhtml", ".html", ".htm", ".xml", ".css":
		return true
	}
	return false
}
