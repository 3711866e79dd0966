package controller

import (
	"encoding/base64"

	"github.com/destel/rill"
	"github.com/mapmark/core/internal/models"
)

// encodeConcurrency bounds the picture encoding workers. Order of the input
// batch is preserved regardless.
const encodeConcurrency = 4

// Attachment is a raw picture upload awaiting encoding.
type Attachment struct {
	Name    string
	MIME    string
	Content []byte
}

// EncodeAttachments converts a batch of raw uploads into embedded pictures
// (base64 data URLs). The whole batch completes before the caller proceeds,
// so a point is never persisted with some of its pictures missing.
func EncodeAttachments(atts []Attachment) ([]models.Picture, error) {
	if len(atts) == 0 {
		return nil, nil
	}

	in := rill.FromSlice(atts, nil)
	encoded := rill.OrderedMap(in, encodeConcurrency, func(a Attachment) (models.Picture, error) {
		mime := a.MIME
		if mime == "" {
			mime = "application/octet-stream"
		}
		return models.Picture{
			Name: a.Name,
			Data: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(a.Content),
		}, nil
	})
	return rill.ToSlice(encoded)
}
