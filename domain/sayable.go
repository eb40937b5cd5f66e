package domain

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

type SayableKind string

const (
	SayableText     SayableKind = "text"
	SayableFile     SayableKind = "file"
	SayableUrl      SayableKind = "url"
	SayableContact  SayableKind = "contact"
	SayableLocation SayableKind = "location"
)

// Sayable is anything a puppet can send: Text, FileBox, UrlLink, ContactCard or Location.
type Sayable interface {
	Kind() SayableKind
}

type Text string

func (Text) Kind() SayableKind { return SayableText }

// FileBox carries either inline Data or a remote URL.
type FileBox struct {
	Name     string `validate:"required,max=255"`
	MimeType string `validate:"omitempty,max=255"`
	Data     []byte `validate:"required_without=URL"`
	URL      string `validate:"omitempty,url"`
}

func (FileBox) Kind() SayableKind { return SayableFile }

// WithDetectedMimeType fills MimeType from the content when it is empty.
func (f FileBox) WithDetectedMimeType() FileBox {
	if f.MimeType == "" && len(f.Data) > 0 {
		f.MimeType = mimetype.Detect(f.Data).String()
	}
	return f
}

func (f FileBox) IsImage() bool {
	return strings.HasPrefix(f.MimeType, "image/")
}

type UrlLink struct {
	URL          string `validate:"required,url"`
	Title        string `validate:"required,max=512"`
	Description  string `validate:"omitempty,max=2048"`
	ThumbnailURL string `validate:"omitempty,url"`
}

func (UrlLink) Kind() SayableKind { return SayableUrl }

type ContactCard struct {
	ContactID string `validate:"required,max=256"`
}

func (ContactCard) Kind() SayableKind { return SayableContact }

type Location struct {
	Name      string  `validate:"omitempty,max=512"`
	Address   string  `validate:"omitempty,max=1024"`
	Latitude  float64 `validate:"min=-90,max=90"`
	Longitude float64 `validate:"min=-180,max=180"`
}

func (Location) Kind() SayableKind { return SayableLocation }
