package sheet

// Artifact is an encoded table ready to be offered for download.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

// NewArtifact names data after basename and the format extension, e.g.
// "processed_output.xlsx".
func NewArtifact(basename string, format Format, data []byte) *Artifact {
	return &Artifact{
		Name:        basename + format.Extension(),
		ContentType: format.ContentType(),
		Data:        data,
	}
}

// Size returns the payload length in bytes.
func (a *Artifact) Size() int {
	return len(a.Data)
}
