package epubdoc

import (
	"encoding/xml"
	"errors"
	"io/fs"
)

// Container-related errors.
var (
	ErrNoContainer      = errors.New("epub: missing META-INF/container.xml")
	ErrInvalidContainer = errors.New("epub: invalid container.xml")
	ErrNoRootfile       = errors.New("epub: no rootfile found in container.xml")
)

const (
	containerPath = "META-INF/container.xml"
	opfMediaType  = "application/oebps-package+xml"
)

// containerXML represents the structure of META-INF/container.xml.
type containerXML struct {
	XMLName   xml.Name `xml:"container"`
	Version   string   `xml:"version,attr"`
	Rootfiles []struct {
		FullPath  string `xml:"full-path,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"rootfiles>rootfile"`
}

// parseContainer returns the archive path of the OPF package document. The
// first rootfile with the OPF media type wins; otherwise the first rootfile
// with a path.
func parseContainer(fsys fs.FS) (string, error) {
	data, err := fs.ReadFile(fsys, containerPath)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoContainer
	}
	if err != nil {
		return "", err
	}

	var container containerXML
	if err := xml.Unmarshal(data, &container); err != nil {
		return "", ErrInvalidContainer
	}

	fallback := ""
	for _, rf := range container.Rootfiles {
		if rf.FullPath == "" {
			continue
		}
		if rf.MediaType == opfMediaType || rf.MediaType == "" {
			return rf.FullPath, nil
		}
		if fallback == "" {
			fallback = rf.FullPath
		}
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", ErrNoRootfile
}
