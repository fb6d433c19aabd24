package molit

import (
	"encoding/xml"
	"strings"
)

// Field is one element of a transaction item. The API adds and drops optional
// elements between deployments, so records keep whatever arrives, in document
// order.
type Field struct {
	Name  string
	Value string
}

// Record is the ordered field list of a single <item>.
type Record []Field

// UnmarshalXML collects every child element of an <item> as a name/value
// pair, preserving document order.
func (r *Record) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var v string
			if err := d.DecodeElement(&v, &t); err != nil {
				return err
			}
			*r = append(*r, Field{Name: t.Name.Local, Value: strings.TrimSpace(v)})
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

type envelope struct {
	XMLName xml.Name `xml:"response"`
	Header  struct {
		ResultCode string `xml:"resultCode"`
		ResultMsg  string `xml:"resultMsg"`
	} `xml:"header"`
	Body struct {
		Items struct {
			Item []Record `xml:"item"`
		} `xml:"items"`
		NumOfRows  int `xml:"numOfRows"`
		PageNo     int `xml:"pageNo"`
		TotalCount int `xml:"totalCount"`
	} `xml:"body"`
}

// ok reports whether the response carries a success result code. The data
// portal uses both "00" and "000" for success depending on the service.
func (e *envelope) ok() bool {
	code := strings.TrimSpace(e.Header.ResultCode)
	return code == "" || code == "00" || code == "000"
}
