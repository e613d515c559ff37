package playlist

import "encoding/xml"

// Song is one <song path="..."/> element. Attrs carries every attribute,
// known or not, so a round trip through parse->mutate->write preserves
// attributes the business logic never interprets (§4.7, §9 "XML library
// quirks": unknown attributes like artist/title are preserved on write).
//
// encoding/xml decodes zero, one, or many <song> children straight into a
// slice field — the scalar/dict/list conflation the source language's XML
// library has doesn't exist here, so no normalization pass is needed.
type Song struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

// Path returns the song's path attribute, or "" if absent.
func (s *Song) Path() string {
	for _, a := range s.Attrs {
		if a.Name.Local == "path" {
			return a.Value
		}
	}
	return ""
}

// SetPath sets the path attribute in place, adding it if missing.
func (s *Song) SetPath(p string) {
	for i, a := range s.Attrs {
		if a.Name.Local == "path" {
			s.Attrs[i].Value = p
			return
		}
	}
	s.Attrs = append(s.Attrs, xml.Attr{Name: xml.Name{Local: "path"}, Value: p})
}

// virtualFolder is the root element of a .vdjfolder document (§6).
type virtualFolder struct {
	XMLName xml.Name `xml:"VirtualFolder"`
	Songs   []Song   `xml:"song"`
}
