package playlist

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WPL structure based on Windows Media Player playlist format
type WPL struct {
	XMLName xml.Name `xml:"smil"`
	Head    WPLHead  `xml:"head"`
	Body    WPLBody  `xml:"body"`
}

type WPLHead struct {
	Title string    `xml:"title"`
	Meta  []WPLMeta `xml:"meta"`
}

type WPLMeta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

type WPLBody struct {
	Seq WPLSeq `xml:"seq"`
}

type WPLSeq struct {
	Media []WPLMedia `xml:"media"`
}

type WPLMedia struct {
	Src string `xml:"src,attr"`
}

// ErrEmptyWPL is returned when a WPL document holds no media entries.
var ErrEmptyWPL = errors.New("wpl: no media entries")

// EncodeWPL writes a WPL document titled title whose media sources are the
// given track identifiers, in order.
func EncodeWPL(w io.Writer, title string, uris []string) error {
	doc := WPL{
		Head: WPLHead{
			Title: title,
			Meta: []WPLMeta{
				{Name: "Generator", Content: "listify"},
				{Name: "ItemCount", Content: strconv.Itoa(len(uris))},
			},
		},
	}
	for _, uri := range uris {
		doc.Body.Seq.Media = append(doc.Body.Seq.Media, WPLMedia{Src: uri})
	}

	if _, err := io.WriteString(w, "<?wpl version=\"1.0\"?>\n"); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("wpl: encode: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// DecodeWPL reads a WPL document and returns its title and media sources.
// Blank sources are dropped.
func DecodeWPL(r io.Reader) (string, []string, error) {
	var doc WPL
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return "", nil, fmt.Errorf("wpl: decode: %w", err)
	}

	var uris []string
	for _, media := range doc.Body.Seq.Media {
		src := strings.TrimSpace(media.Src)
		if src == "" {
			continue
		}
		uris = append(uris, src)
	}
	if len(uris) == 0 {
		return "", nil, ErrEmptyWPL
	}

	return strings.TrimSpace(doc.Head.Title), uris, nil
}
