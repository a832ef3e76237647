package httpclient

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"maps"
	"mime"
	"mime/multipart"
	"net/textproto"
	"slices"
)

const defaultPartType = "application/octet-stream"

// MultipartBody is a multipart/form-data Request.Body. The adapter sets the
// boundary content type. It is buffered so a retried call resends it whole.
type MultipartBody struct {
	Fields map[string]string
	Files  []FileField
}

// FileField is one file part, such as the "audio" upload.
type FileField struct {
	FieldName   string
	FileName    string
	ContentType string
	Data        []byte
	// Reader takes precedence over Data.
	Reader io.Reader
}

func (f FileField) header() textproto.MIMEHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     f.FieldName,
		"filename": f.FileName,
	}))
	h.Set("Content-Type", cmp.Or(f.ContentType, defaultPartType))
	return h
}

// encode writes fields in key order, then files in slice order.
func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, key := range slices.Sorted(maps.Keys(m.Fields)) {
		if err := w.WriteField(key, m.Fields[key]); err != nil {
			return nil, "", err
		}
	}
	for _, f := range m.Files {
		if f.FieldName == "" {
			return nil, "", fmt.Errorf("multipart: file %q has no field name", f.FileName)
		}
		part, err := w.CreatePart(f.header())
		if err != nil {
			return nil, "", err
		}
		src := f.Reader
		if src == nil {
			src = bytes.NewReader(f.Data)
		}
		if _, err := io.Copy(part, src); err != nil {
			return nil, "", fmt.Errorf("multipart: copy %q: %w", f.FileName, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
